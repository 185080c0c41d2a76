package tcapi

import (
	"time"
)

// DateLayout is the TeamCity date format (yyyyMMdd'T'HHmmssZ, numeric offset
// without a colon) expressed as a Go reference layout.
const DateLayout = "20060102T150405-0700"

// FormatDate renders t in the TeamCity date format. Sub-second precision is
// dropped; the offset is always numeric, so UTC renders as +0000.
func FormatDate(t time.Time) string {
	return t.Truncate(time.Second).Format(DateLayout)
}

// ParseDate parses a TeamCity date string such as "20240131T154501+0100".
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &DateParseError{Value: value, Err: err}
	}

	return parsed, nil
}
