package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a trade customer master record. Orders reference it; the engine never mutates it.
type Customer struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ShippingAddress is one delivery location of a customer.
// The earliest-created address is the default branch of a new draft.
type ShippingAddress struct {
	ID           int       `json:"id"`
	CustomerID   int       `json:"customer_id"`
	Label        string    `json:"label"`
	AddressLine  string    `json:"address_line"`
	District     string    `json:"district"`
	Province     string    `json:"province"`
	PostalCode   string    `json:"postal_code"`
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName is the label shown for a branch created from this address.
func (a ShippingAddress) DisplayName() string {
	if s := strings.TrimSpace(a.Label); s != "" {
		return s
	}
	if s := strings.TrimSpace(a.AddressLine); s != "" {
		return s
	}
	return fmt.Sprintf("Address #%d", a.ID)
}

// SortAddresses returns a copy of addrs in default-branch order: oldest first, ties by ID.
func SortAddresses(addrs []ShippingAddress) []ShippingAddress {
	out := make([]ShippingAddress, len(addrs))
	copy(out, addrs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ProductVariation is a sellable catalog variation (e.g. "Lager 330ml x 24").
// Stock is informational; the engine never enforces it.
type ProductVariation struct {
	ID            int             `json:"id"`
	ProductID     int             `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	UnitSize      string          `json:"unit_size"`
	DefaultPrice  decimal.Decimal `json:"default_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"` // zero means no discount price
	Stock         int             `json:"stock"`
}

// RememberedPrice is the last unit price and percent discount a customer was charged.
type RememberedPrice struct {
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PriceMemory maps variation ID to the remembered price for one customer.
type PriceMemory map[int]RememberedPrice

// OrderStatus is the fulfilment status owned by the order-lifecycle system.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment status owned by the order-lifecycle system.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)
