// Package money carries currency amounts as integer cents.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Amount is a currency value in cents.
type Amount int64

// FromFloat rounds a decimal value to the nearest cent.
func FromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// Parse reads a decimal string such as "4.99" or "4.9900".
func Parse(s string) (Amount, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromFloat(f), nil
}

func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) Float64() float64 { return float64(a) / 100 }

// String renders two decimals, e.g. "4.99".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Div splits a into n parts rounded to the nearest cent; 0 when n is 0.
func (a Amount) Div(n int64) Amount {
	if n == 0 {
		return 0
	}
	return Amount(math.Round(float64(a) / float64(n)))
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both "4.99" and 4.99.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount must be a number or numeric string: %w", err)
	}
	*a = FromFloat(f)
	return nil
}

// Scan reads NUMERIC/DECIMAL columns; drivers hand these over as text or float.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	case float64:
		*a = FromFloat(v)
	case float32:
		*a = FromFloat(float64(v))
	case int64:
		*a = Amount(v * 100)
	default:
		return fmt.Errorf("cannot scan %T into money.Amount", src)
	}
	return nil
}

func (a *Amount) scanString(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value writes the decimal text form so NUMERIC columns keep exact cents.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}
