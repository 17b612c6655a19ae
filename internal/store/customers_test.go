// internal/store/customers_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambit-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var customerRowColumns = []string{
	"id", "name", "contact_email", "industry", "services", "location",
	"keywords", "naics", "is_active", "subscription_status",
	"stripe_customer_id", "stripe_subscription_id",
}

func customerRow() *sqlmock.Rows {
	return sqlmock.NewRows(customerRowColumns).AddRow(
		int64(1), "Lone Star Paving", "ops@lonestar.example",
		"paving", "asphalt repair", "Austin, Texas",
		"striping", "237310", true, "active",
		"cus_123", "sub_456",
	)
}

// ==========================
// Reads
// ==========================

func TestGetCustomerByID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM customers WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(customerRow())

	customer, err := store.GetCustomerByID(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Lone Star Paving", customer.Name)
	assert.Equal(t, "237310", customer.NaicsCsv)
	assert.Equal(t, models.SubscriptionActive, customer.SubscriptionStatus)
	assert.Equal(t, "sub_456", customer.StripeSubscriptionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByID_NotFoundIsNilNil(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM customers WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	customer, err := store.GetCustomerByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, customer)
}

func TestGetCustomerByID_NullProfileFields(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	rows := sqlmock.NewRows(customerRowColumns).AddRow(
		int64(2), "New Signup", "new@example.com",
		nil, nil, nil, nil, nil, false, nil, nil, nil,
	)
	mock.ExpectQuery(`SELECT (.+) FROM customers WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	customer, err := store.GetCustomerByID(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "", customer.Industry)
	assert.Equal(t, models.SubscriptionStatus(""), customer.SubscriptionStatus)
	assert.False(t, customer.IsActive)
}

func TestListCustomers(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM customers ORDER BY id DESC`).
		WillReturnRows(customerRow())

	customers, err := store.ListCustomers(context.Background())

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].ID)
}

// ==========================
// Writes
// ==========================

func TestCreateCustomer(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectQuery(`INSERT INTO customers (.+) RETURNING id`).
		WithArgs("Lone Star Paving", "ops@lonestar.example", "paving", "asphalt repair",
			"Austin, Texas", "striping", "237310", false, "inactive").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.CreateCustomer(context.Background(), &models.CustomerProfile{
		Name:         "Lone Star Paving",
		ContactEmail: "ops@lonestar.example",
		Industry:     "paving",
		Services:     "asphalt repair",
		Location:     "Austin, Texas",
		KeywordsCsv:  "striping",
		NaicsCsv:     "237310",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_RowsAffectedError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectExec(`UPDATE customers SET industry`).
		WithArgs("paving", "", "", "", "", int64(3)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("result unavailable")))

	err := store.UpdateProfile(context.Background(), 3, "paving", "", "", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_MissingCustomer(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectExec(`UPDATE customers SET industry`).
		WithArgs("paving", "", "", "", "", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateProfile(context.Background(), 99, "paving", "", "", "", "")

	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestUpdateSubscription(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	mock.ExpectExec(`UPDATE customers SET stripe_customer_id`).
		WithArgs("cus_123", "sub_456", "active", true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateSubscription(context.Background(), 1, "cus_123", "sub_456", models.SubscriptionActive)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubscriptionStatus_DerivesIsActive(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresCustomerStore(db)

	// A cancellation flips is_active off in the same statement.
	mock.ExpectExec(`UPDATE customers SET subscription_status`).
		WithArgs("canceled", false, "sub_456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateSubscriptionStatus(context.Background(), "sub_456", models.SubscriptionCanceled)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
