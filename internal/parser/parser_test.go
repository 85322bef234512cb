package parser

import (
	"strings"
	"testing"
	"time"
)

func TestParseVendorDate_WithOffset(t *testing.T) {
	got, ok := ParseVendorDate("/Date(1768421163920-0500)/")
	if !ok {
		t.Fatal("expected date to parse")
	}
	want := time.UnixMilli(1768421163920)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got.Location() != time.Local {
		t.Errorf("expected local time, got %v", got.Location())
	}
}

func TestParseVendorDate_OffsetIgnored(t *testing.T) {
	a, _ := ParseVendorDate("/Date(1768421163920-0500)/")
	b, _ := ParseVendorDate("/Date(1768421163920+0300)/")
	c, _ := ParseVendorDate("/Date(1768421163920)/")
	if !a.Equal(b) || !a.Equal(c) {
		t.Errorf("offset should not change the instant: %v %v %v", a, b, c)
	}
}

func TestParseVendorDate_Invalid(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"/Date()/",
		"/Date(abc)/",
		"/Date(99999999999999999999999)/",
		"2024-01-01T00:00:00Z",
	}
	for _, c := range cases {
		if _, ok := ParseVendorDate(c); ok {
			t.Errorf("expected %q to be rejected", c)
		}
	}
	if _, ok := ParseVendorDatePtr(nil); ok {
		t.Error("expected nil date to be rejected")
	}
}

func TestExtractPrice(t *testing.T) {
	html := `<tr class="DataRow"><td class="DataStub1">Residential</td>
<td class="Current2">$2.45</td></tr>`
	got, ok := ExtractPrice(html)
	if !ok {
		t.Fatal("expected price match")
	}
	if got != "2.45" {
		t.Errorf("expected 2.45, got %q", got)
	}
}

func TestExtractPrice_WithoutDollarSign(t *testing.T) {
	html := "<tr class=DataRow>\n<td class=Current2>3.109</td>"
	got, ok := ExtractPrice(html)
	if !ok || got != "3.109" {
		t.Errorf("expected 3.109, got %q (ok=%v)", got, ok)
	}
}

func TestExtractPrice_NoMarker(t *testing.T) {
	pages := []string{
		"",
		"<html><body>No data available</body></html>",
		strings.Repeat("Current2 $9.99 ", 3),
	}
	for _, p := range pages {
		if got, ok := ExtractPrice(p); ok {
			t.Errorf("expected no match for %q, got %q", p, got)
		}
	}
}
