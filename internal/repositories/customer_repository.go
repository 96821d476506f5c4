package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// CustomerRepositoryInterface is the tenant-scoped customer store.
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, subscriptionID, id string) (*models.Customer, error)
	List(ctx context.Context, subscriptionID string) ([]*models.Customer, error)
	Update(ctx context.Context, subscriptionID string, customer *models.Customer) error
	Delete(ctx context.Context, subscriptionID, id string) error
}

type CustomerRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewCustomerRepository(log *logger.Logger, db *database.DB) *CustomerRepository {
	return &CustomerRepository{
		logger: log.WithComponent("customer_repository"),
		db:     db,
	}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
        INSERT INTO customers (id, subscription_id, name, email, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.SubscriptionID, customer.Name,
		customer.Email, customer.Phone, customer.Address)
	if err != nil {
		r.logger.Error("Failed to add customer", "error", err, "customer_id", customer.ID)
		return database.Classify(fmt.Errorf("failed to add customer: %w", err))
	}

	r.logger.Info("Added new customer", "customer_id", customer.ID, "name", customer.Name)
	return nil
}

// GetByID retrieves a single customer scoped to the subscription.
func (r *CustomerRepository) GetByID(ctx context.Context, subscriptionID, id string) (*models.Customer, error) {
	query := `
        SELECT id, subscription_id, name, email, phone, address, created_at
        FROM customers
        WHERE id = $1 AND subscription_id = $2
    `

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id, subscriptionID).Scan(
		&customer.ID, &customer.SubscriptionID, &customer.Name,
		&customer.Email, &customer.Phone, &customer.Address, &customer.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Customer not found", "customer_id", id)
			return nil, apperr.NotFound("customer", id)
		}
		r.logger.Error("Failed to retrieve customer", "error", err, "customer_id", id)
		return nil, database.Classify(fmt.Errorf("failed to retrieve customer: %w", err))
	}

	return customer, nil
}

// List retrieves all customers for the subscription ordered by name.
func (r *CustomerRepository) List(ctx context.Context, subscriptionID string) ([]*models.Customer, error) {
	query := `
        SELECT id, subscription_id, name, email, phone, address, created_at
        FROM customers
        WHERE subscription_id = $1
        ORDER BY name
    `

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to query customers", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to query customers: %w", err))
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.SubscriptionID, &customer.Name,
			&customer.Email, &customer.Phone, &customer.Address, &customer.CreatedAt); err != nil {
			r.logger.Error("Failed to scan customer", "error", err)
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	r.logger.Info("Retrieved customers", "count", len(customers))
	return customers, rows.Err()
}

// Update rewrites a customer's contact fields.
func (r *CustomerRepository) Update(ctx context.Context, subscriptionID string, customer *models.Customer) error {
	query := `
        UPDATE customers
        SET name = $1, email = $2, phone = $3, address = $4
        WHERE id = $5 AND subscription_id = $6
    `

	result, err := r.db.ExecContext(ctx, query,
		customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.ID, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to update customer", "error", err, "customer_id", customer.ID)
		return database.Classify(fmt.Errorf("failed to update customer: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update non-existent customer", "customer_id", customer.ID)
		return apperr.NotFound("customer", customer.ID)
	}

	r.logger.Info("Updated customer", "customer_id", customer.ID)
	return nil
}

// Delete removes a customer. Orders keep a NULL customer reference.
func (r *CustomerRepository) Delete(ctx context.Context, subscriptionID, id string) error {
	query := `DELETE FROM customers WHERE id = $1 AND subscription_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to delete customer", "error", err, "customer_id", id)
		return database.Classify(fmt.Errorf("failed to delete customer: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent customer", "customer_id", id)
		return apperr.NotFound("customer", id)
	}

	r.logger.Info("Deleted customer", "customer_id", id)
	return nil
}
