package parser

import "regexp"

// priceRe locates the current-period cell of the EIA weekly price table.
// Matching is heuristic and tied to the page markup.
var priceRe = regexp.MustCompile(`(?s)DataRow.*?Current2.*?\$?([\d.]+)`)

// ExtractPrice returns the first price following the current-period marker
// in an EIA pricing page, or false if the page does not contain one.
func ExtractPrice(html string) (string, bool) {
	m := priceRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}
