package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle. Completed and canceled are terminal;
// there is no transition back to draft.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusCompleted OrderStatus = "completed"
	StatusCanceled  OrderStatus = "canceled"
)

// PaymentMethod is how a completed order was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentMobile   PaymentMethod = "mobile"
)

// Order is the sales aggregate. TaxRate and Discount are percentages; all
// money fields are fixed-point decimals. Once completed, the order and its
// items are append-only history.
type Order struct {
	ID             string          `json:"id" db:"id"`
	SubscriptionID string          `json:"subscription_id" db:"subscription_id"`
	UserID         string          `json:"user_id" db:"user_id"`
	CustomerID     *string         `json:"customer_id,omitempty" db:"customer_id"`
	Status         OrderStatus     `json:"status" db:"status"`
	PaymentMethod  PaymentMethod   `json:"payment_method" db:"payment_method"`
	TaxRate        decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	Discount       decimal.Decimal `json:"discount" db:"discount"`
	Total          decimal.Decimal `json:"total" db:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	ChangeGiven    decimal.Decimal `json:"change_given" db:"change_given"`
	Items          []OrderItem     `json:"items"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the order can still change state.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCanceled
}

// OrderItem is one line of an order. Price is a snapshot of the product
// price at the time of sale; later catalog price changes never alter it.
// At most one item per (order, product) pair.
type OrderItem struct {
	ID          string          `json:"id" db:"id"`
	OrderID     string          `json:"order_id" db:"order_id"`
	ProductID   string          `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// TotalPrice is derived on read, never stored.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
