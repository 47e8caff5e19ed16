package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-desk/internal/core"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, orders *fakeOrders) (ApplicationService, *fakeCatalog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	logger, _ := test.NewNullLogger()
	catalog := &fakeCatalog{}
	return NewAppService(ctx, fakeCustomers{}, catalog, orders, logger, time.Hour), catalog
}

func ptr[T any](v T) *T { return &v }

// readyDraft starts a draft for customer 1 with one cold brew and a delivery date.
func readyDraft(t *testing.T, svc ApplicationService) *DraftResult {
	t.Helper()
	ctx := context.Background()
	d, err := svc.StartDraft(ctx, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, d.DraftID, 0, 101)
	require.NoError(t, err)
	d, err = svc.UpdateHeader(ctx, d.DraftID, HeaderUpdateRequest{DeliveryDate: ptr("2026-11-02")})
	require.NoError(t, err)
	return d
}

func TestStartDraft(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())

	d, err := svc.StartDraft(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, d.DraftID)
	require.Len(t, d.Branches, 1)
	assert.Equal(t, 11, d.Branches[0].Address.ID)
	assert.True(t, d.CanAddBranch)
	assert.True(t, d.Mutability.Editable)
	assert.NotEmpty(t, d.Problems, "an empty draft is not submittable")

	_, err = svc.StartDraft(context.Background(), 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAddItem_UsesPriceMemoryAndCatalog(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()
	d, err := svc.StartDraft(ctx, 1)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, d.DraftID, 0, 101)
	require.NoError(t, err)
	d, err = svc.AddItem(ctx, d.DraftID, 0, 102)
	require.NoError(t, err)

	items := d.Branches[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "140", items[0].UnitPrice.String())
	assert.Equal(t, "5", items[0].DiscountValue.String())
	assert.Equal(t, "22", items[1].UnitPrice.String())

	_, err = svc.AddItem(ctx, d.DraftID, 0, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateItem_ModeAppliedBeforeValue(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()
	d := readyDraft(t, svc)

	d, err := svc.UpdateItem(ctx, d.DraftID, 0, 101, ItemUpdateRequest{
		DiscountMode:  ptr(core.DiscountAmount),
		DiscountValue: ptr(decimal.NewFromInt(30)),
		Quantity:      ptr(0),
	})
	require.NoError(t, err)
	item := d.Branches[0].Items[0]
	assert.Equal(t, core.DiscountAmount, item.DiscountMode)
	assert.Equal(t, "30", item.DiscountValue.String())
	assert.Equal(t, 1, item.Quantity, "quantity clamps to 1")

	d, err = svc.ToggleItemDiscountMode(ctx, d.DraftID, 0, 101)
	require.NoError(t, err)
	assert.Equal(t, core.DiscountPercent, d.Branches[0].Items[0].DiscountMode)
	assert.True(t, d.Branches[0].Items[0].DiscountValue.IsZero())
}

func TestBranches(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()
	d := readyDraft(t, svc)

	d, err := svc.AddBranch(ctx, d.DraftID)
	require.NoError(t, err)
	require.Len(t, d.Branches, 2)
	assert.Equal(t, 1, d.ActiveBranch)
	assert.False(t, d.CanAddBranch)

	_, err = svc.AddBranch(ctx, d.DraftID)
	assert.ErrorIs(t, err, core.ErrNoFreeAddress)

	_, err = svc.UpdateBranch(ctx, d.DraftID, 1, BranchUpdateRequest{AddressID: ptr(11)})
	assert.ErrorIs(t, err, core.ErrAddressInUse)

	d, err = svc.UpdateBranch(ctx, d.DraftID, 1, BranchUpdateRequest{
		Note:        ptr("side gate"),
		ShippingFee: ptr(decimal.NewFromInt(40)),
	})
	require.NoError(t, err)
	assert.Equal(t, "side gate", d.Branches[1].Note)
	assert.Equal(t, "40", d.Totals.ShippingTotal.String())

	d, err = svc.RemoveBranch(ctx, d.DraftID, 1)
	require.NoError(t, err)
	assert.Len(t, d.Branches, 1)
	assert.Equal(t, 0, d.ActiveBranch)

	_, err = svc.RemoveBranch(ctx, d.DraftID, 0)
	assert.ErrorIs(t, err, core.ErrLastBranch)
}

func TestSubmit_CreatesOrderAndClosesDraft(t *testing.T) {
	orders := newFakeOrders()
	svc, catalog := newTestService(t, orders)
	ctx := context.Background()
	d := readyDraft(t, svc)

	res, err := svc.Submit(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Order.ID)
	assert.Equal(t, "133.00", res.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, []int{1}, catalog.invalidated)

	_, err = svc.GetDraft(ctx, d.DraftID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSubmit_ValidationFailureKeepsDraft(t *testing.T) {
	orders := newFakeOrders()
	svc, _ := newTestService(t, orders)
	ctx := context.Background()
	d, err := svc.StartDraft(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, d.DraftID)
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("delivery_date"))
	assert.True(t, verr.HasField("branches[0].items"))
	assert.Zero(t, orders.writes)

	_, err = svc.GetDraft(ctx, d.DraftID)
	assert.NoError(t, err)
}

func TestSubmit_StoreFailureKeepsDraftForRetry(t *testing.T) {
	orders := newFakeOrders()
	orders.fail = errors.New("connection reset")
	svc, _ := newTestService(t, orders)
	ctx := context.Background()
	d := readyDraft(t, svc)

	_, err := svc.Submit(ctx, d.DraftID)
	require.ErrorIs(t, err, core.ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "connection reset")

	again, err := svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, d.Totals.GrandTotal.String(), again.Totals.GrandTotal.String())
	assert.False(t, again.Submitting)

	orders.mu.Lock()
	orders.fail = nil
	orders.mu.Unlock()
	_, err = svc.Submit(ctx, d.DraftID)
	assert.NoError(t, err)
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	orders := newFakeOrders()
	orders.entered = make(chan struct{})
	orders.block = make(chan struct{})
	svc, _ := newTestService(t, orders)
	ctx := context.Background()
	d := readyDraft(t, svc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, d.DraftID)
		done <- err
	}()
	<-orders.entered

	_, err := svc.Submit(ctx, d.DraftID)
	assert.ErrorIs(t, err, core.ErrSubmitInProgress)

	view, err := svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.True(t, view.Submitting)

	close(orders.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, orders.writes)
}

func TestSubmit_EditsRejectedWhileStoring(t *testing.T) {
	orders := newFakeOrders()
	orders.entered = make(chan struct{})
	orders.block = make(chan struct{})
	svc, _ := newTestService(t, orders)
	ctx := context.Background()
	d := readyDraft(t, svc)

	done := make(chan *SubmitResult, 1)
	go func() {
		res, err := svc.Submit(ctx, d.DraftID)
		assert.NoError(t, err)
		done <- res
	}()
	<-orders.entered

	_, err := svc.AddItem(ctx, d.DraftID, 0, 102)
	assert.ErrorIs(t, err, core.ErrSubmitInProgress)
	_, err = svc.UpdateHeader(ctx, d.DraftID, HeaderUpdateRequest{Notes: ptr("late note")})
	assert.ErrorIs(t, err, core.ErrSubmitInProgress)

	close(orders.block)
	res := <-done
	require.NotNil(t, res)
	assert.Len(t, res.Order.Items, 1)
	assert.Empty(t, res.Order.Notes)
}

func TestLoadOrderForEdit(t *testing.T) {
	orders := newFakeOrders()
	svc, _ := newTestService(t, orders)
	ctx := context.Background()

	res, err := svc.Submit(ctx, readyDraft(t, svc).DraftID)
	require.NoError(t, err)
	orderID := res.Order.ID

	d, err := svc.LoadOrderForEdit(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, d.EditingOrderID)
	assert.True(t, d.Mutability.Editable)

	d, err = svc.UpdateItem(ctx, d.DraftID, 0, 101, ItemUpdateRequest{Quantity: ptr(6)})
	require.NoError(t, err)
	updated, err := svc.Submit(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, orderID, updated.Order.ID)
	assert.Equal(t, 6, updated.Order.Items[0].Quantity)

	orders.setStatus(orderID, core.OrderStatusShipping)
	ro, err := svc.LoadOrderForEdit(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, ro.Mutability.Editable)
	assert.Equal(t, []string{"order status"}, ro.Mutability.Reasons)

	_, err = svc.AddItem(ctx, ro.DraftID, 0, 102)
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, err = svc.Submit(ctx, ro.DraftID)
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestSubmit_OrderLockedWhileEditing(t *testing.T) {
	orders := newFakeOrders()
	svc, _ := newTestService(t, orders)
	ctx := context.Background()

	res, err := svc.Submit(ctx, readyDraft(t, svc).DraftID)
	require.NoError(t, err)
	d, err := svc.LoadOrderForEdit(ctx, res.Order.ID)
	require.NoError(t, err)

	orders.setStatus(res.Order.ID, core.OrderStatusProcessing)
	_, err = svc.Submit(ctx, d.DraftID)
	require.ErrorIs(t, err, core.ErrSubmissionFailed)
	assert.ErrorIs(t, err, core.ErrReadOnly)

	view, err := svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.False(t, view.Mutability.Editable, "draft picks up the new status")
}

func TestDuplicateLastOrder(t *testing.T) {
	orders := newFakeOrders()
	svc, _ := newTestService(t, orders)
	ctx := context.Background()

	_, err := svc.DuplicateLastOrder(ctx, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Submit(ctx, readyDraft(t, svc).DraftID)
	require.NoError(t, err)
	orders.setStatus(1, core.OrderStatusDelivered)

	d, err := svc.DuplicateLastOrder(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, d.EditingOrderID)
	assert.True(t, d.Mutability.Editable)
	assert.Equal(t, "2026-11-02", d.DeliveryDate)
	require.Len(t, d.Branches, 1)
	assert.Equal(t, 101, d.Branches[0].Items[0].VariationID)
}

func TestQuoteCatalog(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	q, err := svc.QuoteCatalog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, core.PriceFromMemory, q.Lines[0].Source)
	assert.Equal(t, core.PriceFromDiscount, q.Lines[1].Source)
}

func TestDiscardDraft(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()
	d, err := svc.StartDraft(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DiscardDraft(ctx, d.DraftID))
	assert.ErrorIs(t, svc.DiscardDraft(ctx, d.DraftID), core.ErrNotFound)
}

func TestReferenceData(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers.Customers, 1)

	addrs, err := svc.ListAddresses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, addrs.Addresses, 2)
	assert.Equal(t, 11, addrs.Addresses[0].ID)

	_, err = svc.ListAddresses(ctx, 2)
	assert.ErrorIs(t, err, core.ErrNotFound)

	catalog, err := svc.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog.Variations, 2)
}

func TestFocusBranchAndRemoveItem(t *testing.T) {
	svc, _ := newTestService(t, newFakeOrders())
	ctx := context.Background()
	d := readyDraft(t, svc)

	d, err := svc.AddBranch(ctx, d.DraftID)
	require.NoError(t, err)
	d, err = svc.FocusBranch(ctx, d.DraftID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, d.ActiveBranch)
	assert.True(t, d.Branches[0].Active)

	_, err = svc.FocusBranch(ctx, d.DraftID, 5)
	assert.ErrorIs(t, err, core.ErrBranchNotFound)

	d, err = svc.RemoveItem(ctx, d.DraftID, 0, 101)
	require.NoError(t, err)
	assert.Empty(t, d.Branches[0].Items)
	assert.NotEmpty(t, d.Problems)
}
