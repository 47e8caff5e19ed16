package core

import "github.com/shopspring/decimal"

// VATRate is the Thai VAT rate. Prices are VAT-inclusive.
var VATRate = decimal.NewFromFloat(0.07)

var vatDivisor = decimal.NewFromInt(1).Add(VATRate)

// Totals are the reported order figures, each rounded to 2 decimal places.
// Rounding is half away from zero: half-up for non-negative amounts, while a
// negative half rounds down (-0.005 becomes -0.01).
type Totals struct {
	ItemsTotal          decimal.Decimal   `json:"items_total"`
	ShippingTotal       decimal.Decimal   `json:"shipping_total"`
	OrderDiscountAmount decimal.Decimal   `json:"order_discount_amount"`
	GrandTotal          decimal.Decimal   `json:"grand_total"`
	PreVAT              decimal.Decimal   `json:"pre_vat"`
	VAT                 decimal.Decimal   `json:"vat"`
	BranchTotals        []decimal.Decimal `json:"branch_totals"`
}

// BranchTotal is the sum of item totals on b. The shipping fee is not included.
func BranchTotal(b *Branch) decimal.Decimal {
	return b.ItemsTotal()
}

// ExtractVAT splits a VAT-inclusive amount into its pre-VAT part and the VAT,
// so that preVAT + vat equals the 2dp-rounded grand total exactly.
func ExtractVAT(grand decimal.Decimal) (preVAT, vat decimal.Decimal) {
	grand = grand.Round(2)
	preVAT = grand.DivRound(vatDivisor, 2)
	return preVAT, grand.Sub(preVAT)
}

// ComputeTotals aggregates the draft. Intermediate sums are kept unrounded.
// Totals may go negative when a discount exceeds its base.
func ComputeTotals(d *Draft) Totals {
	items := decimal.Zero
	shipping := decimal.Zero
	branchTotals := make([]decimal.Decimal, 0, len(d.Branches))
	for _, b := range d.Branches {
		bt := BranchTotal(b)
		items = items.Add(bt)
		shipping = shipping.Add(b.ShippingFee)
		branchTotals = append(branchTotals, bt.Round(2))
	}
	orderDiscount := d.Discount.AmountOf(items)
	grand := items.Sub(orderDiscount).Add(shipping)
	preVAT, vat := ExtractVAT(grand)
	return Totals{
		ItemsTotal:          items.Round(2),
		ShippingTotal:       shipping.Round(2),
		OrderDiscountAmount: orderDiscount.Round(2),
		GrandTotal:          grand.Round(2),
		PreVAT:              preVAT,
		VAT:                 vat,
		BranchTotals:        branchTotals,
	}
}
