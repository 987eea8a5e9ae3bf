package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is a fixed-point currency amount with two decimal places.
// It is stored as an integer and rendered in JSON as a decimal number.
type Cents int64

var ErrInvalidAmount = errors.New("invalid amount")

// maxWhole keeps whole*100 inside int64.
const maxWhole = math.MaxInt64 / 100

// ParseCents converts a decimal string ("12.34", "12,34", "-3", "0.125") to
// cents. The third fractional digit rounds half-up; further digits are ignored.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > maxWhole {
		return 0, ErrInvalidAmount
	}

	var f int64
	if len(frac) > 0 {
		f = int64(frac[0]-'0') * 10
	}
	if len(frac) > 1 {
		f += int64(frac[1] - '0')
	}
	if len(frac) > 2 && frac[2] >= '5' {
		f++
	}

	c := w*100 + f
	if c < 0 {
		return 0, ErrInvalidAmount
	}
	if neg {
		c = -c
	}
	return Cents(c), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) Float64() float64 {
	return float64(c) / 100
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (c *Cents) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if strings.ContainsAny(s, "eE") {
		return ErrInvalidAmount
	}
	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Cents) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = 0
	case int64:
		*c = Cents(v)
	case float64:
		*c = Cents(math.Round(v))
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan cents %q: %w", v, err)
		}
		*c = Cents(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan cents %q: %w", v, err)
		}
		*c = Cents(n)
	default:
		return fmt.Errorf("scan cents: unsupported type %T", src)
	}
	return nil
}
