package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

// NormalizeTradingID applies the single normalization policy: trim
// surrounding whitespace and fold to uppercase.
func NormalizeTradingID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsLuhn reports whether s passes the Luhn checksum. Used for card-type
// destination account numbers on withdrawal requests.
func IsLuhn(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}
