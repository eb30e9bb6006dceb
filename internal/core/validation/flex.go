// Package validation turns raw request values into typed, bounds-checked
// values. Every failure is a *domain.Error carrying the client-facing tag.
package validation

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errNotScalar = errors.New("validation: expected a scalar JSON value")

// Flex holds a scalar JSON value in textual form. Numbers, strings and
// booleans are accepted; null and an absent key leave Set false.
type Flex struct {
	Raw string
	Set bool
}

// F wraps a literal value, mostly for tests and internal callers
func F(raw string) Flex {
	return Flex{Raw: raw, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Flex) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = Flex{}
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*f = Flex{Raw: str, Set: true}
		return nil
	case strings.HasPrefix(s, "{"), strings.HasPrefix(s, "["):
		return errNotScalar
	}
	*f = Flex{Raw: canonicalNumber(s), Set: true}
	return nil
}

// canonicalNumber rewrites a JSON number token in plain decimal notation,
// so 8e3 reads as 8000. Tokens with an extreme exponent are left as they are.
func canonicalNumber(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
		return s
	}
	return d.String()
}

// Blank reports whether the value is missing or only whitespace
func (f Flex) Blank() bool {
	return !f.Set || strings.TrimSpace(f.Raw) == ""
}

// String returns the trimmed raw text
func (f Flex) String() string {
	return strings.TrimSpace(f.Raw)
}
