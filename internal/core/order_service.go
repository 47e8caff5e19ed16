package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderService persists submitted orders and reads them back for edit and duplicate.
type OrderService interface {
	GetOrder(ctx context.Context, orderID int) (*PersistedOrder, error)
	// GetLatestOrder returns the customer's most recently created order.
	GetLatestOrder(ctx context.Context, customerID int) (*PersistedOrder, error)
	// CreateOrder stores a new order with the given totals and updates the customer's price memory.
	CreateOrder(ctx context.Context, w OrderWrite, t Totals) (*PersistedOrder, error)
	// UpdateOrder replaces the items of an editable order. It fails with ErrReadOnly once
	// the order has left new/pending.
	UpdateOrder(ctx context.Context, orderID int, w OrderWrite, t Totals) (*PersistedOrder, error)
}

type orderService struct {
	pool *pgxpool.Pool
}

// NewOrderService constructs an OrderService backed by PostgreSQL.
func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderColumns = `
	id, COALESCE(order_number, ''), customer_id, COALESCE(delivery_date::text, ''),
	notes, internal_notes, order_discount_amount, order_discount_mode,
	order_status, payment_status,
	items_total, shipping_total, order_discount_total, grand_total, pre_vat_total, vat_total,
	created_at`

func scanOrder(row pgx.Row) (*PersistedOrder, error) {
	var o PersistedOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.DeliveryDate,
		&o.Notes, &o.InternalNotes, &o.OrderDiscountAmount, &o.OrderDiscountMode,
		&o.OrderStatus, &o.PaymentStatus,
		&o.ItemsTotal, &o.ShippingTotal, &o.OrderDiscountTotal, &o.GrandTotal, &o.PreVATTotal, &o.VATTotal,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*PersistedOrder, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if o.Items, err = fetchOrderItems(ctx, s.pool, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) GetLatestOrder(ctx context.Context, customerID int) (*PersistedOrder, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no previous order for customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch latest order for customer %d: %w", customerID, err)
	}
	if o.Items, err = fetchOrderItems(ctx, s.pool, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func fetchOrderItems(ctx context.Context, q pgxQuerier, orderID int) ([]PersistedItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, variation_id, product_code, product_name, unit_size,
		       quantity, unit_price,
		       discount_value, COALESCE(discount_mode, ''),
		       COALESCE(discount_type, ''), discount_amount, discount_percent
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_number, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of order %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []PersistedItem
	index := make(map[int]int)
	var ids []int
	for rows.Next() {
		var it PersistedItem
		if err := rows.Scan(
			&it.ID, &it.VariationID, &it.ProductCode, &it.ProductName, &it.UnitSize,
			&it.Quantity, &it.UnitPrice,
			&it.DiscountValue, &it.DiscountMode,
			&it.DiscountType, &it.DiscountAmount, &it.DiscountPercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		index[it.ID] = len(items)
		ids = append(ids, it.ID)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items of order %d: %w", orderID, err)
	}
	if len(ids) == 0 {
		return items, nil
	}

	srows, err := q.Query(ctx, `
		SELECT order_item_id, shipping_address_id, quantity, shipping_fee, delivery_note
		FROM order_item_shipments
		WHERE order_item_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments of order %d: %w", orderID, err)
	}
	defer srows.Close()

	for srows.Next() {
		var itemID int
		var sh ShipmentWrite
		if err := srows.Scan(&itemID, &sh.ShippingAddressID, &sh.Quantity, &sh.ShippingFee, &sh.DeliveryNote); err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Shipments = append(items[i].Shipments, sh)
		}
	}
	return items, srows.Err()
}

// ── Writes ───────────────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, w OrderWrite, t Totals) (*PersistedOrder, error) {
	if len(w.Items) == 0 {
		return nil, fmt.Errorf("order must have at least one item")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, delivery_date, notes, internal_notes,
		                    order_discount_amount, order_discount_mode,
		                    items_total, shipping_total, order_discount_total, grand_total, pre_vat_total, vat_total)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		w.CustomerID, w.DeliveryDate, w.Notes, w.InternalNotes,
		w.OrderDiscountAmount, string(w.OrderDiscountMode),
		t.ItemsTotal, t.ShippingTotal, t.OrderDiscountAmount, t.GrandTotal, t.PreVAT, t.VAT,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET order_number = 'SO-' || to_char(created_at, 'YYYYMMDD') || '-' || lpad(id::text, 5, '0')
		WHERE id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	if err := insertOrderItems(ctx, tx, orderID, w); err != nil {
		return nil, err
	}
	if err := rememberPrices(ctx, tx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int, w OrderWrite, t Totals) (*PersistedOrder, error) {
	if len(w.Items) == 0 {
		return nil, fmt.Errorf("order must have at least one item")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID int
	var status OrderStatus
	var payment PaymentStatus
	err = tx.QueryRow(ctx, `
		SELECT customer_id, order_status, payment_status
		FROM orders
		WHERE id = $1
		FOR UPDATE`, orderID,
	).Scan(&customerID, &status, &payment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", orderID, err)
	}
	if m := CheckMutability(status, payment); !m.Editable {
		return nil, fmt.Errorf("order %d: %w: %s", orderID, ErrReadOnly, m.Message)
	}
	if customerID != w.CustomerID {
		return nil, fmt.Errorf("order %d belongs to customer %d, not %d", orderID, customerID, w.CustomerID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET delivery_date = $2::date, notes = $3, internal_notes = $4,
		    order_discount_amount = $5, order_discount_mode = $6,
		    items_total = $7, shipping_total = $8, order_discount_total = $9,
		    grand_total = $10, pre_vat_total = $11, vat_total = $12,
		    updated_at = NOW()
		WHERE id = $1`,
		orderID, w.DeliveryDate, w.Notes, w.InternalNotes,
		w.OrderDiscountAmount, string(w.OrderDiscountMode),
		t.ItemsTotal, t.ShippingTotal, t.OrderDiscountAmount, t.GrandTotal, t.PreVAT, t.VAT,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	// Shipments go with their items via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("failed to clear items of order %d: %w", orderID, err)
	}
	if err := insertOrderItems(ctx, tx, orderID, w); err != nil {
		return nil, err
	}
	if err := rememberPrices(ctx, tx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order %d update: %w", orderID, err)
	}
	return s.GetOrder(ctx, orderID)
}

func insertOrderItems(ctx context.Context, tx pgx.Tx, orderID int, w OrderWrite) error {
	for i, it := range w.Items {
		var itemID int
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, line_number, variation_id, product_code, product_name, unit_size,
			                         quantity, unit_price, discount_value, discount_mode)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			orderID, i+1, it.VariationID, it.ProductCode, it.ProductName, it.UnitSize,
			it.Quantity, it.UnitPrice, it.DiscountValue, string(it.DiscountMode),
		).Scan(&itemID)
		if err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", i+1, err)
		}
		for _, sh := range it.Shipments {
			_, err = tx.Exec(ctx, `
				INSERT INTO order_item_shipments (order_item_id, shipping_address_id, quantity, shipping_fee, delivery_note)
				VALUES ($1, $2, $3, $4, $5)`,
				itemID, sh.ShippingAddressID, sh.Quantity, sh.ShippingFee, sh.DeliveryNote,
			)
			if err != nil {
				return fmt.Errorf("failed to insert shipment of item %d to address %d: %w", i+1, sh.ShippingAddressID, err)
			}
		}
	}
	return nil
}

// rememberPrices upserts the order's price memory for its customer.
func rememberPrices(ctx context.Context, tx pgx.Tx, w OrderWrite) error {
	for variationID, p := range RememberedPrices(w) {
		_, err := tx.Exec(ctx, `
			INSERT INTO customer_price_memory (customer_id, variation_id, unit_price, discount_percent, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (customer_id, variation_id)
			DO UPDATE SET unit_price = EXCLUDED.unit_price,
			              discount_percent = EXCLUDED.discount_percent,
			              updated_at = NOW()`,
			w.CustomerID, variationID, p.UnitPrice, p.DiscountPercent,
		)
		if err != nil {
			return fmt.Errorf("failed to remember price of variation %d: %w", variationID, err)
		}
	}
	return nil
}
