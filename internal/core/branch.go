package core

import "github.com/shopspring/decimal"

// Branch is one shipping destination within an order and the items allocated to it.
type Branch struct {
	Address     ShippingAddress `json:"address"`
	Note        string          `json:"note"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Items       []*LineItem     `json:"items"`
}

// Name is the display name of the branch, taken from its address.
func (b *Branch) Name() string {
	return b.Address.DisplayName()
}

// SetShippingFee sets the flat per-branch delivery fee, clamped to at least 0.
func (b *Branch) SetShippingFee(fee decimal.Decimal) {
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	b.ShippingFee = fee
}

// Item returns the line for variationID, or nil.
func (b *Branch) Item(variationID int) *LineItem {
	for _, li := range b.Items {
		if li.VariationID == variationID {
			return li
		}
	}
	return nil
}

// ItemsTotal is the sum of line totals, excluding the shipping fee.
func (b *Branch) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range b.Items {
		sum = sum.Add(li.Total())
	}
	return sum
}

// Quantity is the total number of units on the branch.
func (b *Branch) Quantity() int {
	n := 0
	for _, li := range b.Items {
		n += li.Quantity
	}
	return n
}
