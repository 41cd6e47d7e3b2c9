// Package phone canonicalizes and validates receiver mobile numbers into the
// international format the gateway requires.
package phone

import (
	// Go Internal Packages
	"regexp"
	"strings"
)

var (
	localPattern    = regexp.MustCompile(`^0\d{9}$`)
	mobilePattern   = regexp.MustCompile(`^2547\d{8}$`)
	newRangePattern = regexp.MustCompile(`^(25410|25411)\d{7}$`)
)

// Sanitize strips all whitespace and a leading "+", then rewrites a
// 10-digit local number starting with "0" to the 254 country prefix.
// Anything else passes through unchanged, so callers must still Validate.
func Sanitize(raw string) string {
	number := strings.Join(strings.Fields(raw), "")
	number = strings.TrimPrefix(number, "+")

	if !localPattern.MatchString(number) {
		return number
	}
	return "254" + number[1:]
}

// Validate accepts 2547XXXXXXXX mobile numbers and the newer 25410/25411
// ranges. It never mutates its input; chain Sanitize first for raw entries.
func Validate(number string) bool {
	if strings.HasPrefix(number, "2547") {
		return mobilePattern.MatchString(number)
	}
	return newRangePattern.MatchString(number)
}
