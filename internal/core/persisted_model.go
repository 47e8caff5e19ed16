package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentWrite allocates part of an order item to one shipping address.
// The branch fee and note are repeated on every shipment of that branch.
type ShipmentWrite struct {
	ShippingAddressID int             `json:"shipping_address_id" jsonschema:"minimum=1"`
	Quantity          int             `json:"quantity" jsonschema:"minimum=1"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	DeliveryNote      string          `json:"delivery_note,omitempty"`
}

// OrderItemWrite is one priced line of an order and its shipments.
type OrderItemWrite struct {
	VariationID   int             `json:"variation_id" jsonschema:"minimum=1"`
	ProductCode   string          `json:"product_code,omitempty"`
	ProductName   string          `json:"product_name,omitempty"`
	UnitSize      string          `json:"unit_size,omitempty"`
	Quantity      int             `json:"quantity" jsonschema:"minimum=1"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	DiscountMode  DiscountMode    `json:"discount_mode"`
	Shipments     []ShipmentWrite `json:"shipments" jsonschema:"minItems=1"`
}

// OrderWrite is the submit payload sent to the order store.
type OrderWrite struct {
	CustomerID          int              `json:"customer_id" jsonschema:"minimum=1"`
	DeliveryDate        string           `json:"delivery_date" jsonschema:"format=date"`
	Notes               string           `json:"notes"`
	InternalNotes       string           `json:"internal_notes"`
	OrderDiscountAmount decimal.Decimal  `json:"order_discount_amount"`
	OrderDiscountMode   DiscountMode     `json:"order_discount_mode"`
	Items               []OrderItemWrite `json:"items" jsonschema:"minItems=1"`
}

// PersistedItem is an order item as read back from the store. Rows written before
// discount_mode existed only carry the legacy discount fields.
type PersistedItem struct {
	ID int `json:"id"`
	OrderItemWrite
	DiscountType    string          `json:"discount_type,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PersistedOrder is an order as read back from the store.
type PersistedOrder struct {
	ID                  int             `json:"id"`
	OrderNumber         string          `json:"order_number"`
	CustomerID          int             `json:"customer_id"`
	DeliveryDate        string          `json:"delivery_date"`
	Notes               string          `json:"notes"`
	InternalNotes       string          `json:"internal_notes"`
	OrderDiscountAmount decimal.Decimal `json:"order_discount_amount"`
	OrderDiscountMode   DiscountMode    `json:"order_discount_mode"`
	OrderStatus         OrderStatus     `json:"order_status"`
	PaymentStatus       PaymentStatus   `json:"payment_status"`
	ItemsTotal          decimal.Decimal `json:"items_total"`
	ShippingTotal       decimal.Decimal `json:"shipping_total"`
	OrderDiscountTotal  decimal.Decimal `json:"order_discount_total"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	PreVATTotal         decimal.Decimal `json:"pre_vat_total"`
	VATTotal            decimal.Decimal `json:"vat_total"`
	CreatedAt           time.Time       `json:"created_at"`
	Items               []PersistedItem `json:"items"`
}

// Mutability applies the edit gate to the order's current statuses.
func (o *PersistedOrder) Mutability() Mutability {
	return CheckMutability(o.OrderStatus, o.PaymentStatus)
}
