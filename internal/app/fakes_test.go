package app

import (
	"context"
	"sync"
	"time"

	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

var created = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeCustomers struct{}

func (fakeCustomers) GetCustomers(context.Context) ([]core.Customer, error) {
	return []core.Customer{{ID: 1, Code: "C0001", Name: "Baan Suan Cafe"}}, nil
}

func (fakeCustomers) GetCustomer(_ context.Context, id int) (*core.Customer, error) {
	if id != 1 {
		return nil, core.ErrNotFound
	}
	return &core.Customer{ID: 1, Code: "C0001", Name: "Baan Suan Cafe"}, nil
}

func (fakeCustomers) GetShippingAddresses(context.Context, int) ([]core.ShippingAddress, error) {
	return []core.ShippingAddress{
		{ID: 11, CustomerID: 1, Label: "Sukhumvit branch", CreatedAt: created},
		{ID: 12, CustomerID: 1, Label: "Ari branch", CreatedAt: created.Add(time.Hour)},
	}, nil
}

type fakeCatalog struct {
	mu          sync.Mutex
	invalidated []int
}

func (*fakeCatalog) GetVariations(context.Context) ([]core.ProductVariation, error) {
	return []core.ProductVariation{
		{ID: 101, Code: "COLD-1L", Name: "Cold Brew 1 L", DefaultPrice: decimal.NewFromInt(150)},
		{ID: 102, Code: "LIME-330", Name: "Sparkling Lime", DefaultPrice: decimal.NewFromInt(25), DiscountPrice: decimal.NewFromInt(22)},
	}, nil
}

func (*fakeCatalog) GetPriceMemory(context.Context, int) (core.PriceMemory, error) {
	return core.PriceMemory{101: {UnitPrice: decimal.NewFromInt(140), DiscountPercent: decimal.NewFromInt(5)}}, nil
}

func (c *fakeCatalog) InvalidatePriceMemory(_ context.Context, customerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, customerID)
}

// fakeOrders stores orders in memory. block, when set, is waited on inside every write.
type fakeOrders struct {
	mu      sync.Mutex
	orders  map[int]*core.PersistedOrder
	nextID  int
	writes  int
	fail    error
	entered chan struct{}
	block   chan struct{}
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[int]*core.PersistedOrder), nextID: 1}
}

func (f *fakeOrders) GetOrder(_ context.Context, id int) (*core.PersistedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) GetLatestOrder(_ context.Context, customerID int) (*core.PersistedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *core.PersistedOrder
	for _, o := range f.orders {
		if o.CustomerID == customerID && (latest == nil || o.ID > latest.ID) {
			latest = o
		}
	}
	if latest == nil {
		return nil, core.ErrNotFound
	}
	return latest, nil
}

func (f *fakeOrders) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeOrders) CreateOrder(_ context.Context, w core.OrderWrite, t core.Totals) (*core.PersistedOrder, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail != nil {
		return nil, f.fail
	}
	o := f.toOrder(f.nextID, w, t)
	f.nextID++
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, id int, w core.OrderWrite, t core.Totals) (*core.PersistedOrder, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail != nil {
		return nil, f.fail
	}
	prev, ok := f.orders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !prev.Mutability().Editable {
		return nil, core.ErrReadOnly
	}
	o := f.toOrder(id, w, t)
	f.orders[id] = o
	return o, nil
}

func (f *fakeOrders) toOrder(id int, w core.OrderWrite, t core.Totals) *core.PersistedOrder {
	o := &core.PersistedOrder{
		ID:                  id,
		OrderNumber:         "SO-TEST",
		CustomerID:          w.CustomerID,
		DeliveryDate:        w.DeliveryDate,
		Notes:               w.Notes,
		InternalNotes:       w.InternalNotes,
		OrderDiscountAmount: w.OrderDiscountAmount,
		OrderDiscountMode:   w.OrderDiscountMode,
		OrderStatus:         core.OrderStatusNew,
		PaymentStatus:       core.PaymentStatusPending,
		GrandTotal:          t.GrandTotal,
	}
	for i, it := range w.Items {
		o.Items = append(o.Items, core.PersistedItem{ID: i + 1, OrderItemWrite: it})
	}
	return o
}

func (f *fakeOrders) setStatus(id int, status core.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := *f.orders[id]
	o.OrderStatus = status
	f.orders[id] = &o
}
