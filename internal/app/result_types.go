package app

import (
	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
}

// AddressListResult is returned by ListAddresses, oldest address first.
type AddressListResult struct {
	CustomerID int                    `json:"customer_id"`
	Addresses  []core.ShippingAddress `json:"addresses"`
}

// CatalogResult is returned by ListCatalog.
type CatalogResult struct {
	Variations []core.ProductVariation `json:"variations"`
}

// QuoteLine is a variation priced for one customer.
type QuoteLine struct {
	Variation       core.ProductVariation `json:"variation"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	DiscountPercent decimal.Decimal       `json:"discount_percent"`
	Source          core.PriceSource      `json:"source"`
}

// QuoteResult is returned by QuoteCatalog.
type QuoteResult struct {
	Customer core.Customer `json:"customer"`
	Lines    []QuoteLine   `json:"lines"`
}

// ItemView is one line with its computed amounts.
type ItemView struct {
	VariationID    int               `json:"variation_id"`
	ProductID      int               `json:"product_id,omitempty"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	UnitSize       string            `json:"unit_size"`
	Quantity       int               `json:"quantity"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	DiscountValue  decimal.Decimal   `json:"discount_value"`
	DiscountMode   core.DiscountMode `json:"discount_mode"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Total          decimal.Decimal   `json:"total"`
}

// BranchView is one branch with its lines.
type BranchView struct {
	Index       int                  `json:"index"`
	Name        string               `json:"name"`
	Address     core.ShippingAddress `json:"address"`
	Note        string               `json:"note"`
	ShippingFee decimal.Decimal      `json:"shipping_fee"`
	Items       []ItemView           `json:"items"`
	Total       decimal.Decimal      `json:"total"`
	Active      bool                 `json:"active"`
}

// DraftResult is the full state of a draft after any operation.
type DraftResult struct {
	DraftID        string                 `json:"draft_id"`
	EditingOrderID int                    `json:"editing_order_id,omitempty"`
	OrderNumber    string                 `json:"order_number,omitempty"`
	Customer       core.Customer          `json:"customer"`
	Addresses      []core.ShippingAddress `json:"addresses"`
	DeliveryDate   string                 `json:"delivery_date"`
	Notes          string                 `json:"notes"`
	InternalNotes  string                 `json:"internal_notes"`
	OrderDiscount  core.Discount          `json:"order_discount"`
	ActiveBranch   int                    `json:"active_branch"`
	Branches       []BranchView           `json:"branches"`
	CanAddBranch   bool                   `json:"can_add_branch"`
	Totals         core.Totals            `json:"totals"`
	Mutability     core.Mutability        `json:"mutability"`
	Problems       []core.FieldError      `json:"problems,omitempty"`
	Submitting     bool                   `json:"submitting"`
}

// SubmitResult is returned by Submit.
type SubmitResult struct {
	Order  *core.PersistedOrder `json:"order"`
	Totals core.Totals          `json:"totals"`
}
