package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// OrderRepositoryInterface is the order store plus the unit-of-work surface
// the completion workflow runs on. Transact hands the callback an OrderTx
// whose writes commit together or not at all.
type OrderRepositoryInterface interface {
	Transact(ctx context.Context, fn func(OrderTx) error) error
	GetByID(ctx context.Context, subscriptionID, id string) (*models.Order, error)
	List(ctx context.Context, subscriptionID string, limit int) ([]*models.Order, error)
	UpdateTotal(ctx context.Context, orderID string, total decimal.Decimal) error
	UpdateChange(ctx context.Context, orderID string, change decimal.Decimal) error
}

// OrderTx exposes the primitives the completion transaction needs inside one
// database transaction. DecrementStock is the conditional write that keeps
// stock from going negative; it is the only sanctioned stock decrement.
type OrderTx interface {
	InsertOrder(order *models.Order) error
	InsertItem(item *models.OrderItem) error
	// ProductForUpdate loads the product row under a row-level lock held
	// until the transaction ends.
	ProductForUpdate(subscriptionID, productID string) (*models.Product, error)
	// DecrementStock runs UPDATE ... SET stock = stock - qty WHERE id = pid
	// AND stock >= qty, reporting whether a row was affected.
	DecrementStock(productID string, quantity int) (bool, error)
	ClampStockToZero(productID string) error
	// UpdateCompletion persists status, total and change_given together.
	UpdateCompletion(order *models.Order) error
}

type OrderRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewOrderRepository(log *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		logger: log.WithComponent("order_repository"),
		db:     db,
	}
}

// Transact runs fn inside one database transaction.
func (r *OrderRepository) Transact(ctx context.Context, fn func(OrderTx) error) error {
	return r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		return fn(&orderTx{ctx: ctx, tx: tx, logger: r.logger})
	})
}

// GetByID retrieves an order with its items, scoped to the subscription.
func (r *OrderRepository) GetByID(ctx context.Context, subscriptionID, id string) (*models.Order, error) {
	query := `
        SELECT id, subscription_id, user_id, customer_id, status, payment_method,
               tax_rate, discount, total, amount_paid, change_given, created_at, updated_at
        FROM orders
        WHERE id = $1 AND subscription_id = $2
    `

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, subscriptionID))
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Order not found", "order_id", id)
			return nil, apperr.NotFound("order", id)
		}
		r.logger.Error("Failed to retrieve order", "error", err, "order_id", id)
		return nil, database.Classify(fmt.Errorf("failed to retrieve order: %w", err))
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		r.logger.Error("Failed to load order items", "error", err, "order_id", id)
		return nil, err
	}
	order.Items = items

	return order, nil
}

// List retrieves recent orders for the subscription, newest first.
func (r *OrderRepository) List(ctx context.Context, subscriptionID string, limit int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT id, subscription_id, user_id, customer_id, status, payment_method,
               tax_rate, discount, total, amount_paid, change_given, created_at, updated_at
        FROM orders
        WHERE subscription_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, subscriptionID, limit)
	if err != nil {
		r.logger.Error("Failed to query orders", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to query orders: %w", err))
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrderRows(rows)
		if err != nil {
			r.logger.Error("Failed to scan order", "error", err)
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	r.logger.Info("Retrieved orders", "count", len(orders))
	return orders, nil
}

// UpdateTotal persists the total field only.
func (r *OrderRepository) UpdateTotal(ctx context.Context, orderID string, total decimal.Decimal) error {
	return r.updateField(ctx, orderID, "total", total)
}

// UpdateChange persists the change_given field only.
func (r *OrderRepository) UpdateChange(ctx context.Context, orderID string, change decimal.Decimal) error {
	return r.updateField(ctx, orderID, "change_given", change)
}

func (r *OrderRepository) updateField(ctx context.Context, orderID, column string, value decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE orders SET %s = $1, updated_at = now() WHERE id = $2`, column)

	result, err := r.db.ExecContext(ctx, query, value, orderID)
	if err != nil {
		r.logger.Error("Failed to update order field", "error", err, "order_id", orderID, "field", column)
		return database.Classify(fmt.Errorf("failed to update order %s: %w", column, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("order", orderID)
	}

	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
        SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = $1
        ORDER BY p.id
    `

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("failed to query order items: %w", err))
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// orderTx implements OrderTx over one *sql.Tx.
type orderTx struct {
	ctx    context.Context
	tx     *sql.Tx
	logger *logger.Logger
}

func (t *orderTx) InsertOrder(order *models.Order) error {
	query := `
        INSERT INTO orders (id, subscription_id, user_id, customer_id, status,
                            payment_method, tax_rate, discount, total, amount_paid, change_given)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	var customerID interface{}
	if order.CustomerID != nil {
		customerID = *order.CustomerID
	}

	_, err := t.tx.ExecContext(t.ctx, query,
		order.ID, order.SubscriptionID, nullableID(order.UserID), customerID,
		order.Status, order.PaymentMethod, order.TaxRate, order.Discount,
		order.Total, order.AmountPaid, order.ChangeGiven)
	if err != nil {
		return database.Classify(fmt.Errorf("failed to insert order: %w", err))
	}
	return nil
}

func (t *orderTx) InsertItem(item *models.OrderItem) error {
	query := `
        INSERT INTO order_items (id, order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := t.tx.ExecContext(t.ctx, query,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Validationf("duplicate product %s in order items", item.ProductID)
		}
		return database.Classify(fmt.Errorf("failed to insert order item: %w", err))
	}
	return nil
}

func (t *orderTx) ProductForUpdate(subscriptionID, productID string) (*models.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products
        WHERE id = $1 AND subscription_id = $2
        FOR UPDATE`

	product, err := scanProduct(t.tx.QueryRowContext(t.ctx, query, productID, subscriptionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, database.Classify(fmt.Errorf("failed to lock product row: %w", err))
	}
	return product, nil
}

func (t *orderTx) DecrementStock(productID string, quantity int) (bool, error) {
	query := `
        UPDATE products
        SET stock = stock - $1, updated_at = now()
        WHERE id = $2 AND stock >= $1
    `

	result, err := t.tx.ExecContext(t.ctx, query, quantity, productID)
	if err != nil {
		return false, database.Classify(fmt.Errorf("failed to decrement stock: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (t *orderTx) ClampStockToZero(productID string) error {
	query := `UPDATE products SET stock = 0, updated_at = now() WHERE id = $1`

	if _, err := t.tx.ExecContext(t.ctx, query, productID); err != nil {
		return database.Classify(fmt.Errorf("failed to clamp stock: %w", err))
	}
	return nil
}

func (t *orderTx) UpdateCompletion(order *models.Order) error {
	query := `
        UPDATE orders
        SET status = $1, total = $2, change_given = $3, updated_at = now()
        WHERE id = $4
    `

	result, err := t.tx.ExecContext(t.ctx, query,
		order.Status, order.Total, order.ChangeGiven, order.ID)
	if err != nil {
		return database.Classify(fmt.Errorf("failed to persist order completion: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("order", order.ID)
	}
	return nil
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	order := &models.Order{}
	var userID, customerID sql.NullString
	err := row.Scan(&order.ID, &order.SubscriptionID, &userID, &customerID,
		&order.Status, &order.PaymentMethod, &order.TaxRate, &order.Discount,
		&order.Total, &order.AmountPaid, &order.ChangeGiven,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		order.UserID = userID.String
	}
	if customerID.Valid {
		order.CustomerID = &customerID.String
	}
	return order, nil
}

func scanOrderRows(rows *sql.Rows) (*models.Order, error) {
	order := &models.Order{}
	var userID, customerID sql.NullString
	err := rows.Scan(&order.ID, &order.SubscriptionID, &userID, &customerID,
		&order.Status, &order.PaymentMethod, &order.TaxRate, &order.Discount,
		&order.Total, &order.AmountPaid, &order.ChangeGiven,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		order.UserID = userID.String
	}
	if customerID.Valid {
		order.CustomerID = &customerID.String
	}
	return order, nil
}
