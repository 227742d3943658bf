// Package validate holds the field-format checks for vendor master data.
// Every function returns an empty string for a valid (or absent) value and a
// human readable message otherwise; blank inputs are always valid because the
// fields are optional.
package validate

import (
	"regexp"
	"strings"
)

var (
	// Indian GST number, e.g. 22AAAAA0000A1Z5.
	gstRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	// Indian PAN, e.g. AAAAA0000A.
	panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	// Indian PIN code, 6 digits, first non-zero.
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^[\+\-\(\)\s0-9]{7,20}$`)
)

// gstStateCodes are the state codes a GST number may start with.
var gstStateCodes = func() map[string]bool {
	m := make(map[string]bool, 37)
	for i := 1; i <= 37; i++ {
		m[twoDigits(i)] = true
	}
	return m
}()

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func GST(value string) string {
	if value == "" {
		return ""
	}
	v := strings.ToUpper(strings.TrimSpace(value))
	if !gstRegex.MatchString(v) {
		return "invalid GST format, expected 22AAAAA0000A1Z5"
	}
	if !gstStateCodes[v[:2]] {
		return "invalid state code " + v[:2] + " in GST number"
	}
	return ""
}

func PAN(value string) string {
	if value == "" {
		return ""
	}
	if !panRegex.MatchString(strings.ToUpper(strings.TrimSpace(value))) {
		return "invalid PAN format, expected AAAAA0000A"
	}
	return ""
}

func Pincode(value string) string {
	if value == "" {
		return ""
	}
	if !pincodeRegex.MatchString(strings.TrimSpace(value)) {
		return "invalid PIN code, must be 6 digits with a non-zero first digit"
	}
	return ""
}

func Email(value string) string {
	if value == "" {
		return ""
	}
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		return "invalid email format"
	}
	return ""
}

func Phone(value string) string {
	if value == "" {
		return ""
	}
	if !phoneRegex.MatchString(strings.TrimSpace(value)) {
		return "invalid phone number format"
	}
	return ""
}
