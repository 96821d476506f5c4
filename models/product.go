package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item scoped to one subscription. Stock is
// the only cross-order shared mutable field; all decrements go through the
// conditional-update primitive in the order repository.
type Product struct {
	ID             string          `json:"id" db:"id"`
	SubscriptionID string          `json:"subscription_id" db:"subscription_id"`
	Name           string          `json:"name" db:"name"`
	SKU            string          `json:"sku" db:"sku"`
	Description    string          `json:"description" db:"description"`
	Price          decimal.Decimal `json:"price" db:"price"`
	CostPrice      decimal.Decimal `json:"cost_price" db:"cost_price"`
	Stock          int             `json:"stock" db:"stock"`
	ReorderLevel   int             `json:"reorder_level" db:"reorder_level"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// NeedsRestock is derived, never stored.
func (p *Product) NeedsRestock() bool {
	return p.Stock <= p.ReorderLevel
}

// RestockEntry records a single stock replenishment.
type RestockEntry struct {
	ID          string    `json:"id" db:"id"`
	ProductID   string    `json:"product_id" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	RestockedBy string    `json:"restocked_by" db:"restocked_by"`
	RestockedAt time.Time `json:"restocked_at" db:"restocked_at"`
	Note        string    `json:"note" db:"note"`
}
