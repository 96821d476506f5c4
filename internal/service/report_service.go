package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// ReportServiceInterface generates and lists sales reports over completed
// orders. Generation reads order history and writes only report rows.
type ReportServiceInterface interface {
	GenerateDaily(ctx context.Context, actorID string) (*models.SalesReport, error)
	GenerateRange(ctx context.Context, actorID string, start, end time.Time) (*models.SalesReport, error)
	ListReports(ctx context.Context, actorID string) ([]*models.SalesReport, error)
}

type ReportService struct {
	reportRepo       repositories.ReportRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	logger           *logger.Logger
	now              func() time.Time
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:       reportRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           log.WithComponent("report_service"),
		now:              time.Now,
	}
}

// GenerateDaily builds and stores today's report for the actor's tenant.
func (s *ReportService) GenerateDaily(ctx context.Context, actorID string) (*models.SalesReport, error) {
	today := s.now().Truncate(24 * time.Hour)
	return s.GenerateRange(ctx, actorID, today, today)
}

// GenerateRange builds and stores a report for an arbitrary date range.
func (s *ReportService) GenerateRange(ctx context.Context, actorID string, start, end time.Time) (*models.SalesReport, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}

	if end.Before(start) {
		return nil, apperr.Validationf("end date must not be before start date")
	}

	totals, err := s.reportRepo.Aggregate(ctx, scope.ID, start, end)
	if err != nil {
		s.logger.Error("Failed to aggregate sales", "error", err, "subscription_id", scope.ID)
		return nil, err
	}

	average := decimal.Zero
	if totals.TotalOrders > 0 {
		average = totals.TotalSales.Div(decimal.NewFromInt(int64(totals.TotalOrders))).Round(2)
	}

	report := &models.SalesReport{
		ID:                uuid.NewString(),
		SubscriptionID:    scope.ID,
		StartDate:         start,
		EndDate:           end,
		TotalSales:        totals.TotalSales,
		TotalOrders:       totals.TotalOrders,
		TotalItemsSold:    totals.TotalItemsSold,
		AverageOrderValue: average,
	}

	if err := s.reportRepo.Insert(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Generated sales report",
		"report_id", report.ID,
		"subscription_id", scope.ID,
		"total_sales", report.TotalSales,
		"total_orders", report.TotalOrders)
	return report, nil
}

// ListReports returns the tenant's report history.
func (s *ReportService) ListReports(ctx context.Context, actorID string) ([]*models.SalesReport, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}
	return s.reportRepo.List(ctx, scope.ID)
}
