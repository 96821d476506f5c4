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

// ProductRepositoryInterface is the tenant-scoped catalog store. Every query
// filters by subscription; rows owned by other tenants are invisible.
type ProductRepositoryInterface interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, subscriptionID, id string) (*models.Product, error)
	List(ctx context.Context, subscriptionID string, activeOnly bool) ([]*models.Product, error)
	Update(ctx context.Context, subscriptionID string, product *models.Product) error
	Delete(ctx context.Context, subscriptionID, id string) error
	Restock(ctx context.Context, subscriptionID string, entry *models.RestockEntry) error
	ListNeedingRestock(ctx context.Context, subscriptionID string) ([]*models.Product, error)
	ListRestockHistory(ctx context.Context, subscriptionID, productID string) ([]*models.RestockEntry, error)
}

type ProductRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewProductRepository(log *logger.Logger, db *database.DB) *ProductRepository {
	return &ProductRepository{
		logger: log.WithComponent("product_repository"),
		db:     db,
	}
}

const productColumns = `id, subscription_id, name, sku, description, price, cost_price,
       stock, reorder_level, is_active, created_by, created_at, updated_at`

// Create inserts a new catalog product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.logger.Debug("Adding new product", "name", product.Name, "sku", product.SKU)

	query := `
        INSERT INTO products (id, subscription_id, name, sku, description, price,
                              cost_price, stock, reorder_level, is_active, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.SubscriptionID, product.Name, product.SKU,
		product.Description, product.Price, product.CostPrice, product.Stock,
		product.ReorderLevel, product.IsActive, nullableID(product.CreatedBy))
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("Attempted to add duplicate product", "sku", product.SKU, "error", err)
			return apperr.Conflictf("product with SKU %s already exists", product.SKU)
		}
		r.logger.Error("Failed to add product", "error", err, "product_id", product.ID)
		return database.Classify(fmt.Errorf("failed to add product: %w", err))
	}

	r.logger.Info("Added new product", "product_id", product.ID, "name", product.Name)
	return nil
}

// GetByID retrieves a single product scoped to the subscription.
func (r *ProductRepository) GetByID(ctx context.Context, subscriptionID, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND subscription_id = $2`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, subscriptionID))
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Product not found", "product_id", id)
			return nil, apperr.NotFound("product", id)
		}
		r.logger.Error("Failed to retrieve product", "error", err, "product_id", id)
		return nil, database.Classify(fmt.Errorf("failed to retrieve product: %w", err))
	}

	return product, nil
}

// List retrieves products for the subscription ordered by name.
func (r *ProductRepository) List(ctx context.Context, subscriptionID string, activeOnly bool) ([]*models.Product, error) {
	r.logger.Debug("Retrieving products", "subscription_id", subscriptionID, "active_only", activeOnly)

	query := `SELECT ` + productColumns + ` FROM products WHERE subscription_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to query products", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to query products: %w", err))
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		r.logger.Error("Failed to scan products", "error", err)
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	r.logger.Info("Retrieved products", "count", len(products))
	return products, nil
}

// Update rewrites the mutable catalog fields of a product. Stock is not
// written here; it changes only through Restock and order completion.
func (r *ProductRepository) Update(ctx context.Context, subscriptionID string, product *models.Product) error {
	r.logger.Debug("Updating product", "product_id", product.ID)

	query := `
        UPDATE products
        SET name = $1, sku = $2, description = $3, price = $4, cost_price = $5,
            reorder_level = $6, is_active = $7, updated_at = now()
        WHERE id = $8 AND subscription_id = $9
    `

	result, err := r.db.ExecContext(ctx, query,
		product.Name, product.SKU, product.Description, product.Price,
		product.CostPrice, product.ReorderLevel, product.IsActive,
		product.ID, subscriptionID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflictf("product with SKU %s already exists", product.SKU)
		}
		r.logger.Error("Failed to update product", "error", err, "product_id", product.ID)
		return database.Classify(fmt.Errorf("failed to update product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "product_id", product.ID)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update non-existent product", "product_id", product.ID)
		return apperr.NotFound("product", product.ID)
	}

	r.logger.Info("Updated product", "product_id", product.ID, "name", product.Name)
	return nil
}

// Delete removes a product. Products referenced by sold order items are
// protected by the foreign key and surface a conflict.
func (r *ProductRepository) Delete(ctx context.Context, subscriptionID, id string) error {
	r.logger.Debug("Deleting product", "product_id", id)

	query := `DELETE FROM products WHERE id = $1 AND subscription_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, subscriptionID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			r.logger.Warn("Attempted to delete product referenced by orders", "product_id", id)
			return apperr.Conflictf("product %s is referenced by existing orders", id)
		}
		r.logger.Error("Failed to delete product", "error", err, "product_id", id)
		return database.Classify(fmt.Errorf("failed to delete product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "product_id", id)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent product", "product_id", id)
		return apperr.NotFound("product", id)
	}

	r.logger.Info("Deleted product", "product_id", id)
	return nil
}

// Restock increments stock and appends the restock history entry in one
// transaction.
func (r *ProductRepository) Restock(ctx context.Context, subscriptionID string, entry *models.RestockEntry) error {
	r.logger.Debug("Restocking product", "product_id", entry.ProductID, "quantity", entry.Quantity)

	err := r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
            UPDATE products
            SET stock = stock + $1, updated_at = now()
            WHERE id = $2 AND subscription_id = $3
        `, entry.Quantity, entry.ProductID, subscriptionID)
		if err != nil {
			return database.Classify(fmt.Errorf("failed to increment stock: %w", err))
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperr.NotFound("product", entry.ProductID)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO restock_history (id, product_id, quantity, restocked_by, note)
            VALUES ($1, $2, $3, $4, $5)
        `, entry.ID, entry.ProductID, entry.Quantity, nullableID(entry.RestockedBy), entry.Note)
		if err != nil {
			return database.Classify(fmt.Errorf("failed to record restock: %w", err))
		}

		return nil
	})
	if err != nil {
		r.logger.Error("Failed to restock product", "error", err, "product_id", entry.ProductID)
		return err
	}

	r.logger.Info("Restocked product", "product_id", entry.ProductID, "quantity", entry.Quantity)
	return nil
}

// ListNeedingRestock returns products at or below their reorder level.
func (r *ProductRepository) ListNeedingRestock(ctx context.Context, subscriptionID string) ([]*models.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE subscription_id = $1 AND is_active = TRUE AND stock <= reorder_level
        ORDER BY name
    `

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to query restock candidates", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to query restock candidates: %w", err))
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		r.logger.Error("Failed to scan restock candidates", "error", err)
		return nil, fmt.Errorf("failed to scan restock candidates: %w", err)
	}

	return products, nil
}

// ListRestockHistory returns the restock log for one product, newest first.
func (r *ProductRepository) ListRestockHistory(ctx context.Context, subscriptionID, productID string) ([]*models.RestockEntry, error) {
	query := `
        SELECT rh.id, rh.product_id, rh.quantity, COALESCE(rh.restocked_by::text, ''), rh.restocked_at, rh.note
        FROM restock_history rh
        JOIN products p ON p.id = rh.product_id
        WHERE rh.product_id = $1 AND p.subscription_id = $2
        ORDER BY rh.restocked_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, productID, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to query restock history", "error", err, "product_id", productID)
		return nil, database.Classify(fmt.Errorf("failed to query restock history: %w", err))
	}
	defer rows.Close()

	entries := []*models.RestockEntry{}
	for rows.Next() {
		entry := &models.RestockEntry{}
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Quantity,
			&entry.RestockedBy, &entry.RestockedAt, &entry.Note); err != nil {
			return nil, fmt.Errorf("failed to scan restock entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// nullableID maps an empty id string to SQL NULL for optional UUID columns.
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

func scanProduct(row *sql.Row) (*models.Product, error) {
	product := &models.Product{}
	var createdBy sql.NullString
	err := row.Scan(&product.ID, &product.SubscriptionID, &product.Name,
		&product.SKU, &product.Description, &product.Price, &product.CostPrice,
		&product.Stock, &product.ReorderLevel, &product.IsActive,
		&createdBy, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		product.CreatedBy = createdBy.String
	}
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		var createdBy sql.NullString
		err := rows.Scan(&product.ID, &product.SubscriptionID, &product.Name,
			&product.SKU, &product.Description, &product.Price, &product.CostPrice,
			&product.Stock, &product.ReorderLevel, &product.IsActive,
			&createdBy, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if createdBy.Valid {
			product.CreatedBy = createdBy.String
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
