package validation

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"pawnledger/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Bounds constrains a decimal field
type Bounds struct {
	Positive bool
	Min      *decimal.Decimal
	Max      *decimal.Decimal
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)

	// Positive requires a strictly positive amount
	Positive = Bounds{Positive: true, Max: &MaxMoney}
	// NonNegative allows zero
	NonNegative = Bounds{Min: &zero, Max: &MaxMoney}
	// Percent is the interest rate range
	Percent = Bounds{Min: &zero, Max: &hundred}
)

// Checker applies field rules in order and keeps only the first failure.
// Once a rule fails every later call is a no-op returning the zero value.
type Checker struct {
	err    error
	region string
}

// New returns a Checker; region is the default phone region (e.g. "TH")
func New(region string) *Checker {
	return &Checker{region: region}
}

// Err returns the first failure, or nil
func (c *Checker) Err() error {
	return c.err
}

func (c *Checker) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Require fails with missing_fields when any value is absent or blank
func (c *Checker) Require(values ...Flex) {
	if c.err != nil {
		return
	}
	for _, v := range values {
		if v.Blank() {
			c.fail(domain.ErrMissingFields)
			return
		}
	}
}

// RequireText is Require for plain string fields
func (c *Checker) RequireText(values ...string) {
	if c.err != nil {
		return
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			c.fail(domain.ErrMissingFields)
			return
		}
	}
}

// ID parses a positive integer identifier
func (c *Checker) ID(tag string, v Flex) uint {
	if c.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(v.String(), 10, 64)
	if err != nil || n == 0 || n > uint64(^uint32(0)) {
		c.fail(domain.InvalidField(tag))
		return 0
	}
	return uint(n)
}

// OptionalID returns nil for a blank value
func (c *Checker) OptionalID(tag string, v Flex) *uint {
	if c.err != nil || v.Blank() {
		return nil
	}
	id := c.ID(tag, v)
	if c.err != nil {
		return nil
	}
	return &id
}

// Money parses a currency formatted value and applies b
func (c *Checker) Money(tag string, v Flex, b Bounds) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	d, err := ParseMoney(v.Raw)
	if err != nil || !b.allows(d) {
		c.fail(domain.InvalidField(tag))
		return decimal.Zero
	}
	return d.Round(2)
}

// OptionalMoney returns nil for a blank value
func (c *Checker) OptionalMoney(tag string, v Flex, b Bounds) *decimal.Decimal {
	if c.err != nil || v.Blank() {
		return nil
	}
	d := c.Money(tag, v, b)
	if c.err != nil {
		return nil
	}
	return &d
}

// Rate parses a percentage in [0, 100]
func (c *Checker) Rate(tag string, v Flex) decimal.Decimal {
	return c.Money(tag, v, Percent)
}

// Date parses a date or timestamp; failures are tagged invalid_<tag>_date
func (c *Checker) Date(tag string, v Flex) time.Time {
	if c.err != nil {
		return time.Time{}
	}
	t, err := ParseDate(v.Raw)
	if err != nil {
		c.fail(domain.InvalidDate(tag))
		return time.Time{}
	}
	return t
}

// OptionalDate returns nil for a blank value
func (c *Checker) OptionalDate(tag string, v Flex) *time.Time {
	if c.err != nil || v.Blank() {
		return nil
	}
	t := c.Date(tag, v)
	if c.err != nil {
		return nil
	}
	return &t
}

// Enum upper-cases raw and requires membership in allowed; onFail is the
// error reported otherwise (e.g. domain.ErrInvalidStatus).
func (c *Checker) Enum(raw string, allowed []string, onFail *domain.Error) string {
	if c.err != nil {
		return ""
	}
	v, ok := NormalizeEnum(raw, allowed)
	if !ok {
		c.fail(onFail)
		return ""
	}
	return v
}

// OptionalEnum returns "" for a blank value
func (c *Checker) OptionalEnum(raw string, allowed []string, onFail *domain.Error) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return c.Enum(raw, allowed, onFail)
}

// Phone normalizes a phone number to E.164
func (c *Checker) Phone(tag, raw string) string {
	if c.err != nil {
		return ""
	}
	p, err := NormalizePhone(raw, c.region)
	if err != nil {
		c.fail(domain.InvalidField(tag))
		return ""
	}
	return p
}

// Struct runs validator tags on dto; the first failing field is reported
// as invalid_<snake_case json name>.
func (c *Checker) Struct(dto any) {
	if c.err != nil {
		return
	}
	err := structValidator().Struct(dto)
	if err == nil {
		return
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		c.fail(domain.InvalidField(snakeCase(verrs[0].Field())))
		return
	}
	c.fail(domain.ErrBadRequest)
}

// Check records err when cond is false
func (c *Checker) Check(cond bool, err *domain.Error) {
	if c.err == nil && !cond {
		c.fail(err)
	}
}

func (b Bounds) allows(d decimal.Decimal) bool {
	if b.Positive && !d.IsPositive() {
		return false
	}
	if b.Min != nil && d.LessThan(*b.Min) {
		return false
	}
	if b.Max != nil && d.GreaterThan(*b.Max) {
		return false
	}
	return true
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// snakeCase converts a camelCase json name ("nationalId") to "national_id"
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
