package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService reads the product catalog and per-customer price memory.
type CatalogService interface {
	// GetVariations returns every active variation ordered by product code.
	GetVariations(ctx context.Context) ([]ProductVariation, error)
	GetPriceMemory(ctx context.Context, customerID int) (PriceMemory, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

// NewCatalogService constructs a CatalogService backed by PostgreSQL.
func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) GetVariations(ctx context.Context) ([]ProductVariation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT v.id, v.product_id, v.code, p.name || ' ' || v.name, v.unit_size,
		       v.default_price, v.discount_price, v.stock
		FROM product_variations v
		JOIN products p ON p.id = v.product_id
		WHERE v.is_active = true AND p.is_active = true
		ORDER BY v.code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query variations: %w", err)
	}
	defer rows.Close()

	var out []ProductVariation
	for rows.Next() {
		var v ProductVariation
		if err := rows.Scan(
			&v.ID, &v.ProductID, &v.Code, &v.Name, &v.UnitSize,
			&v.DefaultPrice, &v.DiscountPrice, &v.Stock,
		); err != nil {
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *catalogService) GetPriceMemory(ctx context.Context, customerID int) (PriceMemory, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT variation_id, unit_price, discount_percent
		FROM customer_price_memory
		WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price memory for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	mem := PriceMemory{}
	for rows.Next() {
		var id int
		var p RememberedPrice
		if err := rows.Scan(&id, &p.UnitPrice, &p.DiscountPercent); err != nil {
			return nil, fmt.Errorf("failed to scan price memory: %w", err)
		}
		mem[id] = p
	}
	return mem, rows.Err()
}
