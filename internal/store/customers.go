// internal/store/customers.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ambit-engine/internal/models"
)

// PostgresCustomerStore is the customer repository over Postgres.
type PostgresCustomerStore struct {
	db *sql.DB
}

func NewPostgresCustomerStore(db *sql.DB) *PostgresCustomerStore {
	return &PostgresCustomerStore{db: db}
}

const customerColumns = `id, name, contact_email, industry, services, location,
	keywords, naics, is_active, subscription_status, stripe_customer_id, stripe_subscription_id`

// GetCustomerByID returns (nil, nil) when no record backs the id, so callers
// can distinguish not-found from a query failure.
func (s *PostgresCustomerStore) GetCustomerByID(ctx context.Context, id int64) (*models.CustomerProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	customer, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return customer, nil
}

// CreateCustomer inserts a signup record. New customers start gated: no
// active subscription until the billing webhook unlocks them.
func (s *PostgresCustomerStore) CreateCustomer(ctx context.Context, c *models.CustomerProfile) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO customers (name, contact_email, industry, services, location, keywords, naics, is_active, subscription_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		c.Name, c.ContactEmail, c.Industry, c.Services, c.Location,
		c.KeywordsCsv, c.NaicsCsv, c.IsActive, string(c.SubscriptionStatus.OrInactive()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

// UpdateProfile replaces the matching-relevant profile fields.
func (s *PostgresCustomerStore) UpdateProfile(ctx context.Context, id int64, industry, services, location, keywords, naics string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET industry = $1, services = $2, location = $3, keywords = $4, naics = $5 WHERE id = $6`,
		industry, services, location, keywords, naics, id)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", id, err)
	}
	return requireRow(res, id)
}

// UpdateSubscription records the billing state after a checkout completes,
// keyed by customer id.
func (s *PostgresCustomerStore) UpdateSubscription(ctx context.Context, id int64, stripeCustomerID, stripeSubscriptionID string, status models.SubscriptionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET stripe_customer_id = $1, stripe_subscription_id = $2, subscription_status = $3, is_active = $4 WHERE id = $5`,
		stripeCustomerID, stripeSubscriptionID, string(status), status.Active(), id)
	if err != nil {
		return fmt.Errorf("update subscription for customer %d: %w", id, err)
	}
	return requireRow(res, id)
}

// UpdateSubscriptionStatus applies a lifecycle transition reported for an
// existing subscription (renewal, past_due, cancellation).
func (s *PostgresCustomerStore) UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionID string, status models.SubscriptionStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE customers SET subscription_status = $1, is_active = $2 WHERE stripe_subscription_id = $3`,
		string(status), status.Active(), stripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("update subscription %s: %w", stripeSubscriptionID, err)
	}
	return nil
}

// ListCustomers returns all customers, newest first. Admin use only.
func (s *PostgresCustomerStore) ListCustomers(ctx context.Context) ([]models.CustomerProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []models.CustomerProfile
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*models.CustomerProfile, error) {
	var c models.CustomerProfile
	var industry, services, location, keywords, naics sql.NullString
	var status, stripeCustomer, stripeSubscription sql.NullString

	err := row.Scan(
		&c.ID, &c.Name, &c.ContactEmail,
		&industry, &services, &location, &keywords, &naics,
		&c.IsActive, &status, &stripeCustomer, &stripeSubscription,
	)
	if err != nil {
		return nil, err
	}

	c.Industry = industry.String
	c.Services = services.String
	c.Location = location.String
	c.KeywordsCsv = keywords.String
	c.NaicsCsv = naics.String
	c.SubscriptionStatus = models.SubscriptionStatus(status.String)
	c.StripeCustomerID = stripeCustomer.String
	c.StripeSubscriptionID = stripeSubscription.String
	return &c, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("customer %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("customer %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
