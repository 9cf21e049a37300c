package formdata

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// usStates is the set of valid 2-letter state codes, plus DC
var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "DC": true, "FL": true, "GA": true, "HI": true,
	"ID": true, "IL": true, "IN": true, "IA": true, "KS": true, "KY": true,
	"LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true,
	"MS": true, "MO": true, "MT": true, "NE": true, "NV": true, "NH": true,
	"NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true,
	"WV": true, "WI": true, "WY": true,
}

// collapseWhitespace trims and squeezes interior runs of whitespace
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// digitsOnly strips everything that is not a digit
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// validateNonEmpty rejects empty or whitespace-only values
func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is empty")
	}
	return nil
}

// validateEmail checks for an RFC-shaped address
func validateEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

// validatePhone expects a 10-digit US number after preprocessing
func validatePhone(s string) error {
	if len(s) != 10 {
		return fmt.Errorf("not a 10-digit phone number")
	}
	return nil
}

// validateZip accepts 5-digit and 5+4 zip codes
func validateZip(s string) error {
	digits := digitsOnly(s)
	if len(digits) != 5 && len(digits) != 9 {
		return fmt.Errorf("not a 5 or 9 digit zip code")
	}
	return nil
}

// validateState expects an uppercased 2-letter state code after preprocessing
func validateState(s string) error {
	if !usStates[s] {
		return fmt.Errorf("not a valid state code")
	}
	return nil
}

// validateYesNo accepts boolean-ish answers from checkbox fields
func validateYesNo(s string) error {
	switch strings.ToLower(s) {
	case "yes", "no", "y", "n", "true", "false":
		return nil
	}
	return fmt.Errorf("not a yes/no answer")
}
