package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FromPersisted rebuilds a draft from a stored order. Shipments are grouped into one
// branch per shipping address in order of first appearance. Within a branch the first
// shipment of a variation wins and later ones are dropped. Addresses the customer no
// longer has are kept as placeholders so no shipment is lost.
func FromPersisted(order *PersistedOrder, customer Customer, addresses []ShippingAddress, prices PriceMemory) (*Draft, error) {
	d := &Draft{
		Customer:      customer,
		Addresses:     SortAddresses(addresses),
		DeliveryDate:  order.DeliveryDate,
		Notes:         order.Notes,
		InternalNotes: order.InternalNotes,
		Discount:      Discount{Value: order.OrderDiscountAmount, Mode: order.OrderDiscountMode}.Normalized(),
		pricing:       PricingResolver{Prices: prices},
	}

	byAddress := make(map[int]*Branch)
	for _, item := range order.Items {
		discount := persistedDiscount(item)
		for _, sh := range item.Shipments {
			b, ok := byAddress[sh.ShippingAddressID]
			if !ok {
				b = &Branch{
					Address:     d.addressOrPlaceholder(sh.ShippingAddressID, customer.ID),
					Note:        sh.DeliveryNote,
					ShippingFee: sh.ShippingFee,
				}
				byAddress[sh.ShippingAddressID] = b
				d.Branches = append(d.Branches, b)
			}
			if b.Item(item.VariationID) != nil {
				continue
			}
			li := &LineItem{
				VariationID: item.VariationID,
				Code:        item.ProductCode,
				Name:        item.ProductName,
				UnitSize:    item.UnitSize,
				UnitPrice:   item.UnitPrice,
				Discount:    discount,
			}
			li.SetQuantity(sh.Quantity)
			b.Items = append(b.Items, li)
		}
	}
	if len(d.Branches) == 0 {
		return nil, ErrEmptyResult
	}
	return d, nil
}

func (d *Draft) addressOrPlaceholder(id, customerID int) ShippingAddress {
	for _, a := range d.Addresses {
		if a.ID == id {
			return a
		}
	}
	a := ShippingAddress{ID: id, CustomerID: customerID, Label: fmt.Sprintf("Address #%d", id)}
	d.Addresses = append(d.Addresses, a)
	return a
}

// persistedDiscount reads the unified discount pair, falling back to the legacy
// discount_type/amount/percent columns for rows that predate it.
func persistedDiscount(item PersistedItem) Discount {
	if item.DiscountMode.Valid() {
		return clampDiscount(item.DiscountValue, item.DiscountMode)
	}
	switch strings.ToLower(strings.TrimSpace(item.DiscountType)) {
	case "amount", "fixed":
		return clampDiscount(item.DiscountAmount, DiscountAmount)
	default:
		return clampDiscount(item.DiscountPercent, DiscountPercent)
	}
}

func clampDiscount(v decimal.Decimal, m DiscountMode) Discount {
	d := Discount{Mode: m}
	d.SetValue(v)
	return d
}

// OrderReader reads persisted orders.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID int) (*PersistedOrder, error)
	GetLatestOrder(ctx context.Context, customerID int) (*PersistedOrder, error)
}

// CustomerReader reads customer master data.
type CustomerReader interface {
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
	GetShippingAddresses(ctx context.Context, customerID int) ([]ShippingAddress, error)
}

// PriceMemoryReader reads a customer's remembered prices.
type PriceMemoryReader interface {
	GetPriceMemory(ctx context.Context, customerID int) (PriceMemory, error)
}

// Reconstruction is a draft rebuilt from a stored order.
type Reconstruction struct {
	Draft      *Draft
	Source     *PersistedOrder
	Mutability Mutability
}

// Reconstructor loads stored orders and rebuilds them as drafts.
type Reconstructor struct {
	orders    OrderReader
	customers CustomerReader
	prices    PriceMemoryReader
}

func NewReconstructor(orders OrderReader, customers CustomerReader, prices PriceMemoryReader) *Reconstructor {
	return &Reconstructor{orders: orders, customers: customers, prices: prices}
}

// DuplicateLast copies the customer's most recent order into a new draft.
// The copy is a new order and therefore always editable.
func (r *Reconstructor) DuplicateLast(ctx context.Context, customerID int) (*Reconstruction, error) {
	order, err := r.orders.GetLatestOrder(ctx, customerID)
	if err != nil {
		return nil, err
	}
	rec, err := r.rebuild(ctx, order)
	if err != nil {
		return nil, err
	}
	rec.Mutability = Editable()
	return rec, nil
}

// LoadForEdit rebuilds an existing order together with its edit verdict.
func (r *Reconstructor) LoadForEdit(ctx context.Context, orderID int) (*Reconstruction, error) {
	order, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	rec, err := r.rebuild(ctx, order)
	if err != nil {
		return nil, err
	}
	rec.Mutability = order.Mutability()
	return rec, nil
}

func (r *Reconstructor) rebuild(ctx context.Context, order *PersistedOrder) (*Reconstruction, error) {
	customer, err := r.customers.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	addresses, err := r.customers.GetShippingAddresses(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	prices, err := r.prices.GetPriceMemory(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	d, err := FromPersisted(order, *customer, addresses, prices)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", order.ID, err)
	}
	return &Reconstruction{Draft: d, Source: order}, nil
}
