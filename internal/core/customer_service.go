package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService reads customer master data. Customers and addresses are owned by
// another system; this service never writes them.
type CustomerService interface {
	GetCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
	// GetShippingAddresses returns the customer's addresses oldest first.
	GetShippingAddresses(ctx context.Context, customerID int) ([]ShippingAddress, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) GetCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, COALESCE(phone, ''), COALESCE(email, ''), created_at
		FROM customers
		WHERE is_active = true
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, COALESCE(phone, ''), COALESCE(email, ''), created_at
		FROM customers
		WHERE id = $1`, customerID,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) GetShippingAddresses(ctx context.Context, customerID int) ([]ShippingAddress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, customer_id, COALESCE(label, ''), address_line,
		       COALESCE(district, ''), COALESCE(province, ''), COALESCE(postal_code, ''),
		       COALESCE(contact_name, ''), COALESCE(contact_phone, ''), created_at
		FROM shipping_addresses
		WHERE customer_id = $1
		ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping addresses for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var addrs []ShippingAddress
	for rows.Next() {
		var a ShippingAddress
		if err := rows.Scan(
			&a.ID, &a.CustomerID, &a.Label, &a.AddressLine,
			&a.District, &a.Province, &a.PostalCode,
			&a.ContactName, &a.ContactPhone, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shipping address: %w", err)
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}
