package core

import "github.com/shopspring/decimal"

// LineItem is one catalog variation on one branch. Product fields are copied from
// the catalog at the time of entry for display and audit.
type LineItem struct {
	VariationID int             `json:"variation_id"`
	ProductID   int             `json:"product_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	UnitSize    string          `json:"unit_size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    Discount        `json:"discount"`
}

func newLineItem(v ProductVariation, price ResolvedPrice) *LineItem {
	li := &LineItem{
		VariationID: v.ID,
		ProductID:   v.ProductID,
		Code:        v.Code,
		Name:        v.Name,
		UnitSize:    v.UnitSize,
		Quantity:    1,
		Discount:    price.Discount.Normalized(),
	}
	li.SetUnitPrice(price.UnitPrice)
	return li
}

// SetQuantity sets the quantity, clamped to at least 1.
func (li *LineItem) SetQuantity(q int) {
	if q < 1 {
		q = 1
	}
	li.Quantity = q
}

// SetUnitPrice sets the unit price, clamped to at least 0.
func (li *LineItem) SetUnitPrice(p decimal.Decimal) {
	if p.IsNegative() {
		p = decimal.Zero
	}
	li.UnitPrice = p
}

// SetDiscountValue sets the discount, clamped to [0,100] in percent mode and >= 0 in amount mode.
func (li *LineItem) SetDiscountValue(v decimal.Decimal) {
	li.Discount.SetValue(v)
}

// SetDiscountMode switches the discount mode; a change resets the value to zero.
func (li *LineItem) SetDiscountMode(m DiscountMode) error {
	return li.Discount.SetMode(m)
}

// ToggleDiscountMode flips percent/amount and resets the value to zero.
func (li *LineItem) ToggleDiscountMode() {
	li.Discount.Toggle()
}

// Subtotal is quantity × unit price.
func (li *LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DiscountAmount is the money taken off the subtotal.
func (li *LineItem) DiscountAmount() decimal.Decimal {
	return li.Discount.AmountOf(li.Subtotal())
}

// Total is subtotal minus discount. It is not floored at zero: an amount discount
// larger than the subtotal yields a negative total.
func (li *LineItem) Total() decimal.Decimal {
	return li.Subtotal().Sub(li.DiscountAmount())
}
