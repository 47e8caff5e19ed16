package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountMode says how a discount value is applied to its base amount.
type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent"
	DiscountAmount  DiscountMode = "amount"
)

var hundred = decimal.NewFromInt(100)

// Valid reports whether m is one of the known modes.
func (m DiscountMode) Valid() bool {
	return m == DiscountPercent || m == DiscountAmount
}

// ParseDiscountMode parses "percent" or "amount" (case-insensitive, "%" accepted for percent).
func ParseDiscountMode(s string) (DiscountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "%":
		return DiscountPercent, nil
	case "amount":
		return DiscountAmount, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDiscountMode, s)
}

// Discount is a value together with the mode it is expressed in.
// The zero value is a 0% discount.
type Discount struct {
	Value decimal.Decimal `json:"value"`
	Mode  DiscountMode    `json:"mode"`
}

// PercentOff returns a percent discount with v clamped to [0,100].
func PercentOff(v decimal.Decimal) Discount {
	d := Discount{Mode: DiscountPercent}
	d.SetValue(v)
	return d
}

// AmountOff returns a fixed-amount discount with v clamped to >= 0.
func AmountOff(v decimal.Decimal) Discount {
	d := Discount{Mode: DiscountAmount}
	d.SetValue(v)
	return d
}

func (d Discount) mode() DiscountMode {
	if d.Mode == DiscountAmount {
		return DiscountAmount
	}
	return DiscountPercent
}

// SetValue stores v clamped to the range of the current mode.
func (d *Discount) SetValue(v decimal.Decimal) {
	d.Mode = d.mode()
	if v.IsNegative() {
		v = decimal.Zero
	}
	if d.Mode == DiscountPercent && v.GreaterThan(hundred) {
		v = hundred
	}
	d.Value = v
}

// SetMode switches the mode. Changing mode resets the value to zero so that
// a "20" entered as 20% never turns into a 20 baht discount.
func (d *Discount) SetMode(m DiscountMode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDiscountMode, m)
	}
	if d.mode() == m {
		d.Mode = m
		return nil
	}
	d.Mode = m
	d.Value = decimal.Zero
	return nil
}

// Toggle flips between percent and amount, resetting the value.
func (d *Discount) Toggle() {
	if d.mode() == DiscountPercent {
		_ = d.SetMode(DiscountAmount)
		return
	}
	_ = d.SetMode(DiscountPercent)
}

// AmountOf returns the money taken off base. Not capped at base.
func (d Discount) AmountOf(base decimal.Decimal) decimal.Decimal {
	if d.mode() == DiscountAmount {
		return d.Value
	}
	return base.Mul(d.Value).Div(hundred)
}

// Normalized returns d with an explicit mode.
func (d Discount) Normalized() Discount {
	d.Mode = d.mode()
	return d
}
