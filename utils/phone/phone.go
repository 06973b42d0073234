package phone

import (
	"errors"
	"regexp"
	"strings"
)

// Mobile money subscriber numbers are Kenyan MSISDNs. Accepted inputs:
//
//	0712345678   local format, leading 0 then 9 digits starting 7 or 1
//	712345678    bare 9 digits starting 7 or 1
//	254712345678 already normalized international format
//
// Everything normalizes to the 254-prefixed form.

var (
	ErrInvalid = errors.New("invalid phone number")

	nonDigits = regexp.MustCompile(`\D`)
	localForm = regexp.MustCompile(`^0[71]\d{8}$`)
	bareForm  = regexp.MustCompile(`^[71]\d{8}$`)
	intlForm  = regexp.MustCompile(`^254[71]\d{8}$`)
)

// Normalize strips non-digits and converts the number to international format.
func Normalize(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")

	switch {
	case intlForm.MatchString(digits):
		return digits, nil
	case localForm.MatchString(digits):
		return "254" + digits[1:], nil
	case bareForm.MatchString(digits):
		return "254" + digits, nil
	default:
		return "", ErrInvalid
	}
}

// IsValid reports whether raw normalizes to a dialable subscriber number.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
