package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a non-negative decimal amount stored in hundredths (cents), so it
// round-trips exactly through the wire format.
type Price int64

var (
	ErrPriceNotNumeric = errors.New("price must be a number")
	ErrPriceNegative   = errors.New("price must not be negative")
	ErrPricePrecision  = errors.New("price must have at most two decimal places")
)

// PriceFromFloat converts a float amount, rounding to the nearest cent
func PriceFromFloat(f float64) Price {
	return Price(math.Round(f * 100))
}

// ParsePrice parses user or wire input such as "28", "28.5", "28,50" or
// "2.8e1". A comma is accepted as the decimal separator when no dot is
// present. Amounts must fit in cents and carry at most two decimals,
// whatever the notation.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrPriceNotNumeric
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.HasPrefix(s, "-") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f != 0 {
			return 0, ErrPriceNegative
		}
	}

	// Exponent input is rewritten in its shortest decimal form so the range
	// and precision rules below apply to it as well.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, ErrPriceNotNumeric
		}
		s = strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	}

	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrPriceNotNumeric
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrPriceNotNumeric
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > 2 {
		return 0, ErrPricePrecision
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, ErrPriceNotNumeric
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	return Price(units*100 + cents), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Float returns the amount as a float
func (p Price) Float() float64 {
	return float64(p) / 100
}

// String formats the amount with exactly two decimals, e.g. "28.00"
func (p Price) String() string {
	sign := ""
	v := uint64(p)
	if p < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Format returns the amount prefixed by a currency symbol, e.g. "R$ 28.00"
func (p Price) Format(symbol string) string {
	if symbol == "" {
		return p.String()
	}
	return symbol + " " + p.String()
}

// MarshalJSON encodes the price as a JSON number with two decimals
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return ErrPriceNotNumeric
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
