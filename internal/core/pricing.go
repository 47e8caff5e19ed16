package core

import "github.com/shopspring/decimal"

// ResolvedPrice is the starting unit price and discount for a newly added line.
type ResolvedPrice struct {
	UnitPrice decimal.Decimal
	Discount  Discount
	Source    PriceSource
}

// PriceSource records which rule produced a ResolvedPrice.
type PriceSource string

const (
	PriceFromMemory   PriceSource = "memory"
	PriceFromDiscount PriceSource = "discount_price"
	PriceFromDefault  PriceSource = "default_price"
)

// PricingResolver picks the initial price of a line from the customer's price memory
// and the catalog. It works on a snapshot and never fails.
type PricingResolver struct {
	Prices PriceMemory
}

// Resolve applies, in order: remembered price and percent; a positive catalog
// discount price with no discount; the default price with no discount.
func (r PricingResolver) Resolve(v ProductVariation) ResolvedPrice {
	if mem, ok := r.Prices[v.ID]; ok {
		price := mem.UnitPrice
		if price.IsNegative() {
			price = decimal.Zero
		}
		return ResolvedPrice{
			UnitPrice: price,
			Discount:  PercentOff(mem.DiscountPercent),
			Source:    PriceFromMemory,
		}
	}
	if v.DiscountPrice.IsPositive() {
		return ResolvedPrice{
			UnitPrice: v.DiscountPrice,
			Discount:  PercentOff(decimal.Zero),
			Source:    PriceFromDiscount,
		}
	}
	price := v.DefaultPrice
	if price.IsNegative() {
		price = decimal.Zero
	}
	return ResolvedPrice{
		UnitPrice: price,
		Discount:  PercentOff(decimal.Zero),
		Source:    PriceFromDefault,
	}
}

// RememberedPrices is the price memory an order leaves behind. When a variation is
// sold on different terms, the first item wins, which is the first branch carrying it.
// Amount-mode lines are remembered with no percent.
func RememberedPrices(w OrderWrite) PriceMemory {
	out := make(PriceMemory, len(w.Items))
	for _, it := range w.Items {
		if _, ok := out[it.VariationID]; ok {
			continue
		}
		percent := decimal.Zero
		if it.DiscountMode != DiscountAmount {
			percent = it.DiscountValue
		}
		out[it.VariationID] = RememberedPrice{UnitPrice: it.UnitPrice, DiscountPercent: percent}
	}
	return out
}
