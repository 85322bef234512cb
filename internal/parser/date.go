package parser

import (
	"regexp"
	"strconv"
	"time"
)

// vendorDateRe matches the WCF-style "/Date(1768421163920-0500)/" encoding.
var vendorDateRe = regexp.MustCompile(`/Date\((\d+)([+-]\d{4})?\)/`)

// ParseVendorDate extracts the timestamp embedded in a vendor date string.
// The millisecond count is read as Unix epoch time and returned in local time.
// The optional offset suffix is matched but not applied.
// ok is false for empty, malformed, or out-of-range input.
func ParseVendorDate(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	m := vendorDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).Local(), true
}

// ParseVendorDatePtr is ParseVendorDate for optional vendor fields.
func ParseVendorDatePtr(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseVendorDate(*s)
}
