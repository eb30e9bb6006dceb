package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

var (
	nonNumeric   = regexp.MustCompile(`[^0-9.\-]`)
	epochPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

	errEmpty       = errors.New("empty value")
	errOutOfRange  = errors.New("value out of range")
	errUnparseable = errors.New("unparseable value")
)

// dateLayouts are tried in order after the epoch form
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds
const epochMillisThreshold = 1_000_000_000_000

// MaxMoney is the largest amount a decimal(15,2) column holds
var MaxMoney = decimal.RequireFromString("9999999999999.99")

// maxExponent bounds the power of ten a numeric input may carry
const maxExponent = 32

// ParseMoney accepts plain numbers, including exponent forms such as 8e3, and
// currency formatted text such as "฿1,500.00" or "1 500". For the latter
// everything but digits, '.' and '-' is stripped before parsing.
func ParseMoney(raw string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		if d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
			return decimal.Zero, errOutOfRange
		}
		return d, nil
	}
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, errEmpty
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errUnparseable
	}
	return d, nil
}

// ParseDate accepts ISO dates, ISO timestamps and epoch seconds or
// milliseconds. The result is UTC with second resolution.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmpty
	}

	var t time.Time
	if epochPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, errUnparseable
		}
		n := int64(f)
		if n >= epochMillisThreshold || n <= -epochMillisThreshold {
			t = time.UnixMilli(n)
		} else {
			t = time.Unix(n, 0)
		}
	} else {
		parsed := false
		for _, layout := range dateLayouts {
			if v, err := time.Parse(layout, s); err == nil {
				t = v
				parsed = true
				break
			}
		}
		if !parsed {
			return time.Time{}, errUnparseable
		}
	}

	t = t.UTC().Truncate(time.Second)
	if t.Year() < 1900 || t.Year() > 9999 {
		return time.Time{}, errOutOfRange
	}
	return t, nil
}

// NormalizeEnum upper-cases and trims raw, then tests set membership
func NormalizeEnum(raw string, allowed []string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, a := range allowed {
		if a == v {
			return v, true
		}
	}
	return v, false
}

// NormalizePhone parses raw for the given default region and returns E.164
func NormalizePhone(raw, region string) (string, error) {
	num, err := libphonenumber.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsPossibleNumber(num) {
		return "", errOutOfRange
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
