package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/core"

	"github.com/sirupsen/logrus"
)

const maxPurgeInterval = 5 * time.Minute

// priceMemoryInvalidator is implemented by catalog services that cache price memory.
type priceMemoryInvalidator interface {
	InvalidatePriceMemory(ctx context.Context, customerID int)
}

type appService struct {
	customers     core.CustomerService
	catalog       core.CatalogService
	orders        core.OrderService
	reconstructor *core.Reconstructor
	sessions      *sessionStore
	logger        logrus.FieldLogger
}

// NewAppService constructs an appService that satisfies ApplicationService.
// Idle drafts are evicted after draftTTL until ctx is cancelled.
func NewAppService(
	ctx context.Context,
	customers core.CustomerService,
	catalog core.CatalogService,
	orders core.OrderService,
	logger logrus.FieldLogger,
	draftTTL time.Duration,
) ApplicationService {
	s := &appService{
		customers:     customers,
		catalog:       catalog,
		orders:        orders,
		reconstructor: core.NewReconstructor(orders, customers, catalog),
		sessions:      newSessionStore(draftTTL),
		logger:        logger,
	}
	interval := maxPurgeInterval
	if draftTTL > 0 && draftTTL < interval {
		interval = draftTTL
	}
	s.sessions.startPurge(ctx, interval, func(n int) {
		s.logger.WithField("count", n).Info("evicted idle drafts")
	})
	return s
}

// ── Reference data ───────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customers.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) ListAddresses(ctx context.Context, customerID int) (*AddressListResult, error) {
	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	addrs, err := s.customers.GetShippingAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &AddressListResult{CustomerID: customerID, Addresses: core.SortAddresses(addrs)}, nil
}

func (s *appService) ListCatalog(ctx context.Context) (*CatalogResult, error) {
	vs, err := s.catalog.GetVariations(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogResult{Variations: vs}, nil
}

func (s *appService) QuoteCatalog(ctx context.Context, customerID int) (*QuoteResult, error) {
	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	vs, err := s.catalog.GetVariations(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := s.catalog.GetPriceMemory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	resolver := core.PricingResolver{Prices: prices}
	res := &QuoteResult{Customer: *customer, Lines: make([]QuoteLine, 0, len(vs))}
	for _, v := range vs {
		p := resolver.Resolve(v)
		res.Lines = append(res.Lines, QuoteLine{
			Variation:       v,
			UnitPrice:       p.UnitPrice,
			DiscountPercent: p.Discount.Value,
			Source:          p.Source,
		})
	}
	return res, nil
}

// ── Opening drafts ───────────────────────────────────────────────────────────

func (s *appService) StartDraft(ctx context.Context, customerID int) (*DraftResult, error) {
	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	addrs, err := s.customers.GetShippingAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	prices, err := s.catalog.GetPriceMemory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, core.NewDraft(*customer, addrs, prices), nil, core.Editable())
}

func (s *appService) DuplicateLastOrder(ctx context.Context, customerID int) (*DraftResult, error) {
	rec, err := s.reconstructor.DuplicateLast(ctx, customerID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"customer_id": customerID, "error": err.Error()}).Warn("duplicate last order failed")
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"customer_id":  customerID,
		"source_order": rec.Source.ID,
		"branches":     len(rec.Draft.Branches),
	}).Info("duplicated last order")
	return s.open(ctx, rec.Draft, nil, rec.Mutability)
}

func (s *appService) LoadOrderForEdit(ctx context.Context, orderID int) (*DraftResult, error) {
	rec, err := s.reconstructor.LoadForEdit(ctx, orderID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"order_id": orderID, "error": err.Error()}).Warn("load order for edit failed")
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"editable": rec.Mutability.Editable,
		"branches": len(rec.Draft.Branches),
	}).Info("loaded order for edit")
	return s.open(ctx, rec.Draft, rec.Source, rec.Mutability)
}

func (s *appService) open(ctx context.Context, d *core.Draft, editing *core.PersistedOrder, m core.Mutability) (*DraftResult, error) {
	catalog, err := s.catalog.GetVariations(ctx)
	if err != nil {
		return nil, err
	}
	sess := newDraftSession(d, catalog)
	sess.editing = editing
	sess.mutability = m
	s.sessions.put(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildDraftResult(sess), nil
}

func (s *appService) session(draftID string) (*draftSession, error) {
	sess, ok := s.sessions.get(draftID)
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", draftID, core.ErrNotFound)
	}
	return sess, nil
}

func (s *appService) GetDraft(ctx context.Context, draftID string) (*DraftResult, error) {
	sess, err := s.session(draftID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildDraftResult(sess), nil
}

func (s *appService) DiscardDraft(ctx context.Context, draftID string) error {
	if _, err := s.session(draftID); err != nil {
		return err
	}
	s.sessions.delete(draftID)
	return nil
}

// ── Editing ──────────────────────────────────────────────────────────────────

// mutate applies fn to the draft under its lock. Read-only drafts and drafts being
// submitted reject every change.
func (s *appService) mutate(draftID string, fn func(sess *draftSession) error) (*DraftResult, error) {
	sess, err := s.session(draftID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.mutability.Editable {
		return nil, fmt.Errorf("draft %s: %w: %s", draftID, core.ErrReadOnly, sess.mutability.Message)
	}
	if sess.submitting.Load() {
		return nil, fmt.Errorf("draft %s: %w", draftID, core.ErrSubmitInProgress)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return buildDraftResult(sess), nil
}

func (s *appService) UpdateHeader(ctx context.Context, draftID string, req HeaderUpdateRequest) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		d := sess.draft
		if req.DiscountMode != nil {
			if err := d.SetOrderDiscountMode(*req.DiscountMode); err != nil {
				return err
			}
		}
		if req.DiscountValue != nil {
			d.SetOrderDiscountValue(*req.DiscountValue)
		}
		if req.DeliveryDate != nil {
			d.SetDeliveryDate(strings.TrimSpace(*req.DeliveryDate))
		}
		if req.Notes != nil {
			d.SetNotes(*req.Notes)
		}
		if req.InternalNotes != nil {
			d.SetInternalNotes(*req.InternalNotes)
		}
		return nil
	})
}

func (s *appService) AddBranch(ctx context.Context, draftID string) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		_, err := sess.draft.AddBranch()
		return err
	})
}

func (s *appService) RemoveBranch(ctx context.Context, draftID string, branch int) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		return sess.draft.RemoveBranch(branch)
	})
}

func (s *appService) UpdateBranch(ctx context.Context, draftID string, branch int, req BranchUpdateRequest) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		d := sess.draft
		if _, err := d.Branch(branch); err != nil {
			return err
		}
		if req.AddressID != nil {
			if err := d.SetBranchAddress(branch, *req.AddressID); err != nil {
				return err
			}
		}
		if req.Note != nil {
			if err := d.SetBranchNote(branch, *req.Note); err != nil {
				return err
			}
		}
		if req.ShippingFee != nil {
			if err := d.SetBranchShippingFee(branch, *req.ShippingFee); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *appService) FocusBranch(ctx context.Context, draftID string, branch int) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		return sess.draft.Focus(branch)
	})
}

func (s *appService) AddItem(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		v, ok := sess.catalog[variationID]
		if !ok {
			return fmt.Errorf("variation %d: %w", variationID, core.ErrNotFound)
		}
		_, err := sess.draft.AddItem(branch, v)
		return err
	})
}

func (s *appService) UpdateItem(ctx context.Context, draftID string, branch, variationID int, req ItemUpdateRequest) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		li, err := sess.draft.Item(branch, variationID)
		if err != nil {
			return err
		}
		if req.DiscountMode != nil {
			if err := li.SetDiscountMode(*req.DiscountMode); err != nil {
				return err
			}
		}
		if req.DiscountValue != nil {
			li.SetDiscountValue(*req.DiscountValue)
		}
		if req.Quantity != nil {
			li.SetQuantity(*req.Quantity)
		}
		if req.UnitPrice != nil {
			li.SetUnitPrice(*req.UnitPrice)
		}
		return nil
	})
}

func (s *appService) ToggleItemDiscountMode(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		li, err := sess.draft.Item(branch, variationID)
		if err != nil {
			return err
		}
		li.ToggleDiscountMode()
		return nil
	})
}

func (s *appService) RemoveItem(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error) {
	return s.mutate(draftID, func(sess *draftSession) error {
		return sess.draft.RemoveItem(branch, variationID)
	})
}

// ── Submission ───────────────────────────────────────────────────────────────

func (s *appService) Submit(ctx context.Context, draftID string) (*SubmitResult, error) {
	sess, err := s.session(draftID)
	if err != nil {
		return nil, err
	}
	if !sess.submitting.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("draft %s: %w", draftID, core.ErrSubmitInProgress)
	}
	defer sess.submitting.Store(false)

	// Snapshot under the lock; the store call below runs without it.
	sess.mu.Lock()
	if !sess.mutability.Editable {
		msg := sess.mutability.Message
		sess.mu.Unlock()
		return nil, fmt.Errorf("draft %s: %w: %s", draftID, core.ErrReadOnly, msg)
	}
	if err := sess.draft.Validate(); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	write := core.ToPersisted(sess.draft)
	totals := core.ComputeTotals(sess.draft)
	editing := sess.editing
	sess.mu.Unlock()

	// Submission is not cancellable once started.
	storeCtx := context.WithoutCancel(ctx)
	var order *core.PersistedOrder
	if editing != nil {
		order, err = s.orders.UpdateOrder(storeCtx, editing.ID, write, totals)
	} else {
		order, err = s.orders.CreateOrder(storeCtx, write, totals)
	}
	if err != nil {
		if errors.Is(err, core.ErrReadOnly) && editing != nil {
			s.refreshMutability(storeCtx, sess, editing.ID)
		}
		config.LogError(s.logger, "app", "Submit", "store order", logrus.Fields{
			"draft_id":    draftID,
			"customer_id": write.CustomerID,
			"items":       len(write.Items),
		}, err)
		return nil, fmt.Errorf("%w: %w", core.ErrSubmissionFailed, err)
	}

	if inv, ok := s.catalog.(priceMemoryInvalidator); ok {
		inv.InvalidatePriceMemory(storeCtx, write.CustomerID)
	}
	s.sessions.delete(draftID)

	s.logger.WithFields(logrus.Fields{
		"draft_id":     draftID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"grand_total":  totals.GrandTotal.StringFixed(2),
		"updated":      editing != nil,
	}).Info("order submitted")
	return &SubmitResult{Order: order, Totals: totals}, nil
}

// refreshMutability re-reads an order the store refused to update so the draft
// reports why it became read-only.
func (s *appService) refreshMutability(ctx context.Context, sess *draftSession, orderID int) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.editing = order
	sess.mutability = order.Mutability()
}

// buildDraftResult renders the session. Callers hold sess.mu.
func buildDraftResult(sess *draftSession) *DraftResult {
	d := sess.draft
	totals := core.ComputeTotals(d)
	res := &DraftResult{
		DraftID:       sess.id,
		Customer:      d.Customer,
		Addresses:     d.Addresses,
		DeliveryDate:  d.DeliveryDate,
		Notes:         d.Notes,
		InternalNotes: d.InternalNotes,
		OrderDiscount: d.Discount.Normalized(),
		ActiveBranch:  d.Active,
		Branches:      make([]BranchView, 0, len(d.Branches)),
		CanAddBranch:  d.CanAddBranch(),
		Totals:        totals,
		Mutability:    sess.mutability,
		Submitting:    sess.submitting.Load(),
	}
	if sess.editing != nil {
		res.EditingOrderID = sess.editing.ID
		res.OrderNumber = sess.editing.OrderNumber
	}
	for i, b := range d.Branches {
		bv := BranchView{
			Index:       i,
			Name:        b.Name(),
			Address:     b.Address,
			Note:        b.Note,
			ShippingFee: b.ShippingFee,
			Items:       make([]ItemView, 0, len(b.Items)),
			Total:       totals.BranchTotals[i],
			Active:      i == d.Active,
		}
		for _, li := range b.Items {
			disc := li.Discount.Normalized()
			bv.Items = append(bv.Items, ItemView{
				VariationID:    li.VariationID,
				ProductID:      li.ProductID,
				Code:           li.Code,
				Name:           li.Name,
				UnitSize:       li.UnitSize,
				Quantity:       li.Quantity,
				UnitPrice:      li.UnitPrice,
				DiscountValue:  disc.Value,
				DiscountMode:   disc.Mode,
				Subtotal:       li.Subtotal().Round(2),
				DiscountAmount: li.DiscountAmount().Round(2),
				Total:          li.Total().Round(2),
			})
		}
		res.Branches = append(res.Branches, bv)
	}
	var verr *core.ValidationError
	if err := d.Validate(); errors.As(err, &verr) {
		res.Problems = verr.Fields
	}
	return res
}
