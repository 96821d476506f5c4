package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
	"github.com/Sima922/clouds-pos/pkg/money"
)

// ReceiptServiceInterface renders completed orders as plain-text receipts.
// Receipts are a read-only projection; nothing here mutates order history.
type ReceiptServiceInterface interface {
	Render(ctx context.Context, actorID, orderID string) (string, error)
}

type ReceiptService struct {
	orderRepo        repositories.OrderRepositoryInterface
	customerRepo     repositories.CustomerRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	formatter        *money.Formatter
	logger           *logger.Logger
}

func NewReceiptService(
	orderRepo repositories.OrderRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	displayConfig money.DisplayConfig,
	log *logger.Logger,
) *ReceiptService {
	return &ReceiptService{
		orderRepo:        orderRepo,
		customerRepo:     customerRepo,
		subscriptionRepo: subscriptionRepo,
		formatter:        money.NewFormatter(displayConfig),
		logger:           log.WithComponent("receipt_service"),
	}
}

// Render produces the receipt for an order owned by the actor's tenant.
func (s *ReceiptService) Render(ctx context.Context, actorID, orderID string) (string, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return "", err
	}
	if scope == nil {
		s.logger.Warn("Receipt rejected: no active subscription", "user_id", actorID)
		return "", apperr.ErrForbidden
	}

	order, err := s.orderRepo.GetByID(ctx, scope.ID, orderID)
	if err != nil {
		return "", err
	}

	customerName := "Walk-in"
	if order.CustomerID != nil {
		if customer, err := s.customerRepo.GetByID(ctx, scope.ID, *order.CustomerID); err == nil {
			customerName = customer.Name
		}
	}

	cashierName := "Unknown"
	if order.UserID != "" {
		if user, err := s.subscriptionRepo.GetUser(ctx, order.UserID); err == nil {
			cashierName = user.FullName()
		}
	}

	businessName := scope.BusinessName
	if businessName == "" {
		businessName = "CloudPOS"
	}

	receipt := s.render(order, businessName, customerName, cashierName)

	s.logger.Info("Rendered receipt", "order_id", order.ID)
	return receipt, nil
}

func (s *ReceiptService) render(order *models.Order, businessName, customerName, cashierName string) string {
	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	for i := range order.Items {
		subtotal = subtotal.Add(order.Items[i].TotalPrice())
	}
	discountAmount := subtotal.Mul(order.Discount.Div(hundred))
	taxAmount := subtotal.Sub(discountAmount).Mul(order.TaxRate.Div(hundred))

	lines := []string{
		businessName,
		fmt.Sprintf("RECEIPT #%s", order.ID),
		fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Customer: %s", customerName),
		fmt.Sprintf("Cashier: %s", cashierName),
		"",
		"ITEMS:",
	}

	for i := range order.Items {
		item := &order.Items[i]
		lines = append(lines, fmt.Sprintf("%d x %s @ %s = %s",
			item.Quantity, item.ProductName,
			s.formatter.Format(item.Price),
			s.formatter.Format(item.TotalPrice())))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Subtotal: %s", s.formatter.Format(subtotal)),
		fmt.Sprintf("Discount (%s%%): -%s", order.Discount.String(), s.formatter.Format(discountAmount)),
		fmt.Sprintf("Tax (%s%%): +%s", order.TaxRate.String(), s.formatter.Format(taxAmount)),
		"-----------------------",
		fmt.Sprintf("TOTAL: %s", s.formatter.Format(order.Total)),
		fmt.Sprintf("Amount Paid: %s", s.formatter.Format(order.AmountPaid)),
		fmt.Sprintf("Change: %s", s.formatter.Format(order.ChangeGiven)),
		fmt.Sprintf("Payment Method: %s", order.PaymentMethod),
		"",
		"Thank you for your purchase!",
	)

	return strings.Join(lines, "\n")
}
