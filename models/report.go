package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport is a persisted aggregation over completed orders for one
// subscription and date range. Report consumers never mutate order history.
type SalesReport struct {
	ID                string          `json:"id" db:"id"`
	SubscriptionID    string          `json:"subscription_id" db:"subscription_id"`
	ReportDate        time.Time       `json:"report_date" db:"report_date"`
	StartDate         time.Time       `json:"start_date" db:"start_date"`
	EndDate           time.Time       `json:"end_date" db:"end_date"`
	TotalSales        decimal.Decimal `json:"total_sales" db:"total_sales"`
	TotalOrders       int             `json:"total_orders" db:"total_orders"`
	TotalItemsSold    int             `json:"total_items_sold" db:"total_items_sold"`
	AverageOrderValue decimal.Decimal `json:"average_order_value" db:"average_order_value"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
