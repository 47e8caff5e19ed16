// restore-seed loads the demo customers, shipping addresses and beverage catalog.
// Existing seed rows are updated in place; orders are left untouched.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"

	"order-desk/internal/config"
	"order-desk/internal/db"

	"github.com/jackc/pgx/v5"
)

type seedStep struct {
	name string
	sql  string
}

var steps = []seedStep{
	{"customers", `
		INSERT INTO customers (code, name, phone, email)
		VALUES
		    ('C0001', 'Baan Suan Cafe',      '02-555-0101', 'orders@baansuan.example'),
		    ('C0002', 'Riverside Mini Mart', '02-555-0144', 'buyer@riverside.example'),
		    ('C0003', 'Hillside Hotel',      '053-555-0199', 'fnb@hillside.example')
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      phone = EXCLUDED.phone,
		      email = EXCLUDED.email,
		      is_active = true;
	`},
	{"shipping addresses", `
		INSERT INTO shipping_addresses (customer_id, label, address_line, district, province, postal_code, contact_name, contact_phone)
		SELECT c.id, a.label, a.address_line, a.district, a.province, a.postal_code, a.contact_name, a.contact_phone
		FROM customers c
		JOIN (VALUES
		    ('C0001', 'Sukhumvit branch', '12 Sukhumvit Soi 31', 'Watthana',      'Bangkok',    '10110', 'Nok',   '081-555-0001'),
		    ('C0001', 'Ari branch',       '88 Phahonyothin 7',   'Phaya Thai',    'Bangkok',    '10400', 'Ploy',  '081-555-0002'),
		    ('C0001', 'Central kitchen',  '5/1 Ramkhamhaeng 24', 'Hua Mak',       'Bangkok',    '10240', 'Chai',  '081-555-0003'),
		    ('C0002', '',                 '301 Charoen Krung',   'Bang Rak',      'Bangkok',    '10500', 'Somsak','089-555-0100'),
		    ('C0003', 'Main building',    '9 Huay Kaew Road',    'Mueang',        'Chiang Mai', '50200', 'Anan',  '086-555-0300'),
		    ('C0003', 'Pool bar',         '9 Huay Kaew Road',    'Mueang',        'Chiang Mai', '50200', 'Mali',  '086-555-0301')
		) AS a(customer_code, label, address_line, district, province, postal_code, contact_name, contact_phone)
		  ON a.customer_code = c.code
		WHERE NOT EXISTS (
		    SELECT 1 FROM shipping_addresses s
		    WHERE s.customer_id = c.id
		      AND s.address_line = a.address_line
		      AND COALESCE(s.label, '') = a.label
		);
	`},
	{"products", `
		INSERT INTO products (code, name, category)
		VALUES
		    ('COLD',  'Cold Brew Coffee',   'coffee'),
		    ('TEA',   'Thai Milk Tea Base', 'tea'),
		    ('LIME',  'Sparkling Lime',     'soda'),
		    ('WATER', 'Mineral Water',      'water')
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      category = EXCLUDED.category,
		      is_active = true;
	`},
	{"product variations", `
		INSERT INTO product_variations (product_id, code, name, unit_size, default_price, discount_price, stock)
		SELECT p.id, v.code, v.name, v.unit_size, v.default_price, v.discount_price, v.stock
		FROM products p
		JOIN (VALUES
		    ('COLD',  'COLD-250',  '250 ml bottle', '250 ml', 45.00,  0.00,   480),
		    ('COLD',  'COLD-1L',   '1 L bottle',    '1 L',    150.00, 135.00, 120),
		    ('TEA',   'TEA-1L',    '1 L concentrate', '1 L',  120.00, 0.00,   200),
		    ('TEA',   'TEA-5L',    '5 L bag-in-box',  '5 L',  520.00, 499.00, 40),
		    ('LIME',  'LIME-330',  '330 ml can',    '330 ml', 25.00,  0.00,   960),
		    ('WATER', 'WATER-600', '600 ml x 12',   '12 pack', 84.00, 0.00,   300)
		) AS v(product_code, code, name, unit_size, default_price, discount_price, stock)
		  ON v.product_code = p.code
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      unit_size = EXCLUDED.unit_size,
		      default_price = EXCLUDED.default_price,
		      discount_price = EXCLUDED.discount_price,
		      stock = EXCLUDED.stock,
		      is_active = true;
	`},
	{"price memory", `
		INSERT INTO customer_price_memory (customer_id, variation_id, unit_price, discount_percent)
		SELECT c.id, v.id, m.unit_price, m.discount_percent
		FROM (VALUES
		    ('C0001', 'COLD-1L',  140.00, 5.00),
		    ('C0001', 'TEA-1L',   110.00, 0.00),
		    ('C0003', 'WATER-600', 80.00, 2.50)
		) AS m(customer_code, variation_code, unit_price, discount_percent)
		JOIN customers c ON c.code = m.customer_code
		JOIN product_variations v ON v.code = m.variation_code
		ON CONFLICT (customer_id, variation_id) DO UPDATE
		  SET unit_price = EXCLUDED.unit_price,
		      discount_percent = EXCLUDED.discount_percent,
		      updated_at = NOW();
	`},
}

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect")
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	for _, step := range steps {
		n, err := exec(ctx, tx, step)
		if err != nil {
			logger.WithError(err).WithField("step", step.name).Fatal("seed failed")
		}
		logger.WithField("step", step.name).WithField("rows", n).Info("restored")
	}

	if err := tx.Commit(ctx); err != nil {
		logger.WithError(err).Fatal("failed to commit")
	}
	logger.Info("seed data restored")
}

func exec(ctx context.Context, tx pgx.Tx, step seedStep) (int64, error) {
	tag, err := tx.Exec(ctx, step.sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
