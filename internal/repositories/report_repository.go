package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// SalesTotals are the raw aggregates over completed orders in a date range.
type SalesTotals struct {
	TotalSales     decimal.Decimal
	TotalOrders    int
	TotalItemsSold int
}

// ReportRepositoryInterface aggregates completed orders and stores report
// rows. Reports only ever read order history.
type ReportRepositoryInterface interface {
	Aggregate(ctx context.Context, subscriptionID string, start, end time.Time) (*SalesTotals, error)
	Insert(ctx context.Context, report *models.SalesReport) error
	List(ctx context.Context, subscriptionID string) ([]*models.SalesReport, error)
}

type ReportRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewReportRepository(log *logger.Logger, db *database.DB) *ReportRepository {
	return &ReportRepository{
		logger: log.WithComponent("report_repository"),
		db:     db,
	}
}

// Aggregate sums completed orders for the subscription between start and end
// (inclusive dates).
func (r *ReportRepository) Aggregate(ctx context.Context, subscriptionID string, start, end time.Time) (*SalesTotals, error) {
	r.logger.Debug("Aggregating sales",
		"subscription_id", subscriptionID,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"))

	totals := &SalesTotals{}

	orderQuery := `
        SELECT COALESCE(SUM(total), 0), COUNT(id)
        FROM orders
        WHERE subscription_id = $1
          AND status = 'completed'
          AND created_at::date BETWEEN $2 AND $3
    `
	err := r.db.QueryRowContext(ctx, orderQuery, subscriptionID, start, end).
		Scan(&totals.TotalSales, &totals.TotalOrders)
	if err != nil {
		r.logger.Error("Failed to aggregate orders", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to aggregate orders: %w", err))
	}

	itemQuery := `
        SELECT COALESCE(SUM(oi.quantity), 0)
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.subscription_id = $1
          AND o.status = 'completed'
          AND o.created_at::date BETWEEN $2 AND $3
    `
	err = r.db.QueryRowContext(ctx, itemQuery, subscriptionID, start, end).
		Scan(&totals.TotalItemsSold)
	if err != nil {
		r.logger.Error("Failed to aggregate order items", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to aggregate order items: %w", err))
	}

	return totals, nil
}

// Insert stores a generated report row.
func (r *ReportRepository) Insert(ctx context.Context, report *models.SalesReport) error {
	query := `
        INSERT INTO sales_reports (id, subscription_id, start_date, end_date,
                                   total_sales, total_orders, total_items_sold, average_order_value)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.SubscriptionID, report.StartDate, report.EndDate,
		report.TotalSales, report.TotalOrders, report.TotalItemsSold,
		report.AverageOrderValue)
	if err != nil {
		r.logger.Error("Failed to insert sales report", "error", err, "report_id", report.ID)
		return database.Classify(fmt.Errorf("failed to insert sales report: %w", err))
	}

	r.logger.Info("Stored sales report",
		"report_id", report.ID,
		"total_sales", report.TotalSales,
		"total_orders", report.TotalOrders)
	return nil
}

// List returns the report history for the subscription, newest first.
func (r *ReportRepository) List(ctx context.Context, subscriptionID string) ([]*models.SalesReport, error) {
	query := `
        SELECT id, subscription_id, report_date, start_date, end_date,
               total_sales, total_orders, total_items_sold, average_order_value, created_at
        FROM sales_reports
        WHERE subscription_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		r.logger.Error("Failed to query sales reports", "error", err)
		return nil, database.Classify(fmt.Errorf("failed to query sales reports: %w", err))
	}
	defer rows.Close()

	reports := []*models.SalesReport{}
	for rows.Next() {
		report := &models.SalesReport{}
		if err := rows.Scan(&report.ID, &report.SubscriptionID, &report.ReportDate,
			&report.StartDate, &report.EndDate, &report.TotalSales,
			&report.TotalOrders, &report.TotalItemsSold,
			&report.AverageOrderValue, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sales report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}
