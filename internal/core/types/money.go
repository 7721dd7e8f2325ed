// Package types provides common value types shared across the domain.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; stored as
// NUMERIC(12,2) in PostgreSQL.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// Prefer NewMoneyFromString for values that must be exact.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns the zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// Cantidad is a fixed-point stock quantity with 3 decimal places
// (scale = 1e3). Enough for goods sold by weight, and it maps to a
// plain BIGINT column so balances never accumulate float error.
type Cantidad int64

// CantidadScale is the fixed-point scale factor.
const CantidadScale int64 = 1_000

// NewCantidadFromFloat64 converts a float quantity to fixed point.
func NewCantidadFromFloat64(v float64) Cantidad {
	return Cantidad(math.Round(v * float64(CantidadScale)))
}

// NewCantidadFromInt converts a whole-unit quantity to fixed point.
func NewCantidadFromInt(v int64) Cantidad {
	return Cantidad(v * CantidadScale)
}

// Int64Scaled returns the raw scaled value (for storage).
func (c Cantidad) Int64Scaled() int64 { return int64(c) }

// Float64 returns the quantity as a float (for display only).
func (c Cantidad) Float64() float64 { return float64(c) / float64(CantidadScale) }

// Decimal converts the quantity to a decimal for money arithmetic.
func (c Cantidad) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -3)
}

func (c Cantidad) IsZero() bool     { return c == 0 }
func (c Cantidad) IsPositive() bool { return c > 0 }
func (c Cantidad) IsNegative() bool { return c < 0 }
func (c Cantidad) Neg() Cantidad    { return -c }

// String returns a decimal string with 3 fractional digits.
func (c Cantidad) String() string {
	v := c
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%03d", sign, int64(v)/CantidadScale, int64(v)%CantidadScale)
}

// MarshalJSON encodes Cantidad as a JSON number with 3 digits.
func (c Cantidad) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or string and parses to fixed point.
func (c *Cantidad) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseCantidad(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	parsed, err := parseCantidad(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func parseCantidad(s string) (Cantidad, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cantidad")
	}

	// Exponent form goes through float parsing.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse cantidad: %w", err)
		}
		return NewCantidadFromFloat64(f), nil
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimPrefix(s, "-")
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 3 {
		fracPart = fracPart[:3]
	}
	for len(fracPart) < 3 {
		fracPart += "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cantidad: %w", err)
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cantidad: %w", err)
	}

	return Cantidad(sign * (whole*CantidadScale + frac)), nil
}
