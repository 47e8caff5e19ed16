package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"order-desk/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// setupTestDB recreates the order desk schema on TEST_DATABASE_URL and seeds one
// customer with two addresses and two variations.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_order_desk.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	_, err = pool.Exec(ctx, `
		DROP TABLE IF EXISTS order_item_shipments, order_items, orders, customer_price_memory,
		    product_variations, products, shipping_addresses, customers CASCADE;`)
	if err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO customers (id, code, name) VALUES (1, 'C0001', 'Baan Suan Cafe');
		INSERT INTO shipping_addresses (id, customer_id, label, address_line, created_at) VALUES
		(11, 1, 'Sukhumvit branch', '12 Sukhumvit Soi 31', '2026-01-01'),
		(12, 1, 'Ari branch',       '88 Phahonyothin 7',   '2026-01-02');
		INSERT INTO products (id, code, name) VALUES (10, 'COLD', 'Cold Brew Coffee'), (11, 'LIME', 'Sparkling Lime');
		INSERT INTO product_variations (id, product_id, code, name, unit_size, default_price, discount_price) VALUES
		(101, 10, 'COLD-1L',  '1 L bottle', '1 L',    150.00, 0),
		(102, 11, 'LIME-330', '330 ml can', '330 ml',  25.00, 0);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}

func TestOrderService_CreateEditCycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	customers := core.NewCustomerService(pool)
	catalog := core.NewCatalogService(pool)
	orders := core.NewOrderService(pool)

	customer, err := customers.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	addresses, err := customers.GetShippingAddresses(ctx, 1)
	if err != nil {
		t.Fatalf("GetShippingAddresses failed: %v", err)
	}
	variations, err := catalog.GetVariations(ctx)
	if err != nil {
		t.Fatalf("GetVariations failed: %v", err)
	}
	if len(variations) != 2 {
		t.Fatalf("Expected 2 variations, got %d", len(variations))
	}

	// 1. Two branches, cold brew on both, 10% off on the first branch.
	d := core.NewDraft(*customer, addresses, nil)
	d.SetDeliveryDate("2026-11-02")
	d.AddBranch()
	li, _ := d.AddItem(0, variations[0])
	li.SetQuantity(3)
	li.SetDiscountValue(dec("10"))
	d.AddItem(1, variations[0])
	d.AddItem(1, variations[1])
	d.SetBranchShippingFee(0, dec("20"))

	totals := core.ComputeTotals(d)
	created, err := orders.CreateOrder(ctx, core.ToPersisted(d), totals)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if created.OrderNumber == "" {
		t.Error("Expected an order number")
	}
	if !created.GrandTotal.Equal(totals.GrandTotal) {
		t.Errorf("Expected grand total %s, got %s", totals.GrandTotal, created.GrandTotal)
	}
	if len(created.Items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(created.Items))
	}

	// 2. Price memory now holds the last terms per variation.
	prices, err := catalog.GetPriceMemory(ctx, 1)
	if err != nil {
		t.Fatalf("GetPriceMemory failed: %v", err)
	}
	if _, ok := prices[101]; !ok {
		t.Error("Expected price memory for variation 101")
	}

	// 3. Reload into a draft and edit.
	latest, err := orders.GetLatestOrder(ctx, 1)
	if err != nil {
		t.Fatalf("GetLatestOrder failed: %v", err)
	}
	if latest.ID != created.ID {
		t.Errorf("Expected latest order %d, got %d", created.ID, latest.ID)
	}
	edit, err := core.FromPersisted(latest, *customer, addresses, prices)
	if err != nil {
		t.Fatalf("FromPersisted failed: %v", err)
	}
	if len(edit.Branches) != 2 {
		t.Fatalf("Expected 2 branches, got %d", len(edit.Branches))
	}
	if err := edit.RemoveItem(1, 102); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	updated, err := orders.UpdateOrder(ctx, created.ID, core.ToPersisted(edit), core.ComputeTotals(edit))
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Errorf("Expected 2 items after edit, got %d", len(updated.Items))
	}

	// 4. Once shipping, the order is read-only.
	if _, err := pool.Exec(ctx, `UPDATE orders SET order_status = 'shipping' WHERE id = $1`, created.ID); err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}
	_, err = orders.UpdateOrder(ctx, created.ID, core.ToPersisted(edit), core.ComputeTotals(edit))
	if !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}

	if _, err := orders.GetOrder(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOrderService_LegacyDiscountColumns(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO orders (id, customer_id, delivery_date) VALUES (500, 1, '2025-06-01');
		INSERT INTO order_items (id, order_id, line_number, variation_id, quantity, unit_price, discount_type, discount_amount)
		VALUES (900, 500, 1, 101, 2, 150.00, 'fixed', 30.00);
		INSERT INTO order_item_shipments (order_item_id, shipping_address_id, quantity) VALUES (900, 11, 2);
	`)
	if err != nil {
		t.Fatalf("Failed to seed legacy order: %v", err)
	}

	r := core.NewReconstructor(core.NewOrderService(pool), core.NewCustomerService(pool), core.NewCatalogService(pool))
	rec, err := r.LoadForEdit(ctx, 500)
	if err != nil {
		t.Fatalf("LoadForEdit failed: %v", err)
	}
	got := rec.Draft.Branches[0].Items[0].Discount
	if got.Mode != core.DiscountAmount || !got.Value.Equal(dec("30")) {
		t.Errorf("Expected 30 amount discount, got %s %s", got.Value, got.Mode)
	}
	if !rec.Mutability.Editable {
		t.Error("Expected new/pending order to be editable")
	}
}
