package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency value in cents. All arithmetic on prices and
// totals happens in integer cents so repeated sums stay exact.
type Amount int64

var ErrInvalidAmount = errors.New("invalid money amount")

const maxWholeDigits = 15

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse reads a decimal string with at most two fractional digits,
// e.g. "12.50", "9", "0.05".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}

	// strconv.ParseInt would accept an embedded sign ("1.-5"), so both
	// parts must be plain digit runs. The whole part is bounded to keep
	// units*100 inside int64.
	if whole == "" || len(whole) > maxWholeDigits || !isDigits(whole) {
		return 0, ErrInvalidAmount
	}
	if len(frac) > 2 || !isDigits(frac) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := int64(0)
	if frac != "" {
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		if len(frac) == 1 {
			c *= 10
		}
		cents = c
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// MustParse is for literals in tests and wiring code.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromCents wraps raw cents.
func FromCents(c int64) Amount {
	return Amount(c)
}

func (a Amount) Cents() int64 {
	return int64(a)
}

// Mul multiplies by a quantity.
func (a Amount) Mul(qty int) Amount {
	return a * Amount(qty)
}

// String formats with exactly two decimal places, e.g. "25.00".
func (a Amount) String() string {
	c := int64(a)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON emits the amount as a decimal string so wire clients
// never see a binary float.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Scan accepts NUMERIC(8,2) columns delivered as []byte or string.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = 0
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case int64:
		*a = Amount(v * 100)
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}

// Value stores the amount as its decimal string form.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// ApplyRate returns the amount increased by a percentage rate
// (e.g. rate=10 adds 10%), rounding half up on the cent. The rate is
// converted to basis points once; the price math itself stays in
// integers.
func (a Amount) ApplyRate(rate float64) Amount {
	if rate == 0 {
		return a
	}
	bp := int64(math.Round(rate * 100))
	n := int64(a) * (10000 + bp)
	if n >= 0 {
		return Amount((n + 5000) / 10000)
	}
	return Amount((n - 5000) / 10000)
}
