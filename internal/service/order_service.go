package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
	"github.com/Sima922/clouds-pos/pkg/retry"
)

// CreateOrderRequest is a sale submitted from a register. TaxRate and
// Discount are percentages; nil means the register defaults (8 and 0).
type CreateOrderRequest struct {
	CustomerID    *string                  `json:"customer_id,omitempty"`
	Items         []CreateOrderItemRequest `json:"items"`
	PaymentMethod string                   `json:"payment_method"`
	TaxRate       *decimal.Decimal         `json:"tax_rate,omitempty"`
	Discount      *decimal.Decimal         `json:"discount,omitempty"`
	AmountPaid    decimal.Decimal          `json:"amount_paid"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

var defaultTaxRate = decimal.NewFromInt(8)

// OrderServiceInterface is the order-entry and completion workflow.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, actorID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, actorID string, limit int) ([]*models.Order, error)
	CalculateTotal(ctx context.Context, order *models.Order) (decimal.Decimal, error)
	CalculateChange(ctx context.Context, order *models.Order) (decimal.Decimal, error)
	UpdateInventory(ctx context.Context, order *models.Order) error
}

// OrderService owns the completion transaction: totals, change and the
// conditional inventory decrement.
type OrderService struct {
	orderRepo         repositories.OrderRepositoryInterface
	productRepo       repositories.ProductRepositoryInterface
	subscriptionRepo  repositories.SubscriptionRepositoryInterface
	logger            *logger.Logger
	completionTimeout time.Duration
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	productRepo repositories.ProductRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	log *logger.Logger,
	completionTimeout time.Duration,
) *OrderService {
	if completionTimeout <= 0 {
		completionTimeout = 10 * time.Second
	}
	return &OrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		subscriptionRepo:  subscriptionRepo,
		logger:            log.WithComponent("order_service"),
		completionTimeout: completionTimeout,
	}
}

// CreateOrder validates a sale, persists the draft with price snapshots,
// completes it and decrements inventory — all in one database transaction,
// so a failure at any point leaves no partial order behind. The whole unit
// is retried on transient contention and bounded by the completion timeout.
func (s *OrderService) CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		s.logger.Error("Failed to resolve subscription scope", "error", err, "user_id", actorID)
		return nil, err
	}
	if scope == nil {
		s.logger.Warn("Order rejected: no active subscription", "user_id", actorID)
		return nil, apperr.ErrForbidden
	}

	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn("Order rejected: invalid data", "error", err, "user_id", actorID)
		return nil, err
	}

	// Advisory pre-check against current stock. The conditional decrement
	// inside the transaction is the authoritative guard; this only gives the
	// register an early, friendly rejection.
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(ctx, scope.ID, item.ProductID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, apperr.Validationf("product %s not found", item.ProductID)
			}
			return nil, err
		}
		if item.Quantity > product.Stock {
			s.logger.Warn("Order rejected: insufficient stock",
				"product_id", product.ID,
				"product_name", product.Name,
				"requested", item.Quantity,
				"available", product.Stock)
			return nil, apperr.Validationf("insufficient stock for %s: available %d", product.Name, product.Stock)
		}
	}

	order := &models.Order{
		ID:             uuid.NewString(),
		SubscriptionID: scope.ID,
		UserID:         actorID,
		CustomerID:     req.CustomerID,
		Status:         models.StatusDraft,
		PaymentMethod:  paymentMethodOrDefault(req.PaymentMethod),
		TaxRate:        valueOrDefault(req.TaxRate, defaultTaxRate),
		Discount:       valueOrDefault(req.Discount, decimal.Zero),
		AmountPaid:     req.AmountPaid,
	}

	// Items are processed in product-id order everywhere stock is touched, so
	// two orders sharing products always take their row locks in the same
	// global sequence.
	items := make([]CreateOrderItemRequest, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	completionPolicy := retry.InventoryPolicy
	err = completionPolicy.Do(ctx, func() error {
		order.Items = order.Items[:0]
		return s.orderRepo.Transact(ctx, func(tx repositories.OrderTx) error {
			if err := tx.InsertOrder(order); err != nil {
				return err
			}

			for _, item := range items {
				product, err := tx.ProductForUpdate(scope.ID, item.ProductID)
				if err != nil {
					return err
				}

				orderItem := models.OrderItem{
					ID:          uuid.NewString(),
					OrderID:     order.ID,
					ProductID:   product.ID,
					ProductName: product.Name,
					Quantity:    item.Quantity,
					Price:       product.Price, // snapshot at time of sale
				}
				if err := tx.InsertItem(&orderItem); err != nil {
					return err
				}
				order.Items = append(order.Items, orderItem)

				if err := s.decrementOrClamp(tx, product, item.Quantity); err != nil {
					return err
				}
			}

			order.Status = models.StatusCompleted
			order.Total = computeTotal(order.Items, order.Discount, order.TaxRate)
			if order.AmountPaid.IsPositive() {
				order.ChangeGiven = computeChange(order.AmountPaid, order.Total)
			}

			return tx.UpdateCompletion(order)
		})
	})
	if err != nil {
		s.logger.Error("Order completion failed", "error", err, "order_id", order.ID)
		return nil, err
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	s.logger.Info("Order completed",
		"order_id", order.ID,
		"subscription_id", scope.ID,
		"total", order.Total,
		"change_given", order.ChangeGiven,
		"items", len(order.Items))
	return order, nil
}

// GetOrder retrieves one order within the actor's tenant scope.
func (s *OrderService) GetOrder(ctx context.Context, actorID, orderID string) (*models.Order, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}

	return s.orderRepo.GetByID(ctx, scope.ID, orderID)
}

// ListOrders retrieves recent orders within the actor's tenant scope.
func (s *OrderService) ListOrders(ctx context.Context, actorID string, limit int) ([]*models.Order, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}

	return s.orderRepo.List(ctx, scope.ID, limit)
}

// CalculateTotal recomputes the order total from its item snapshots and
// persists the total field only. Pure arithmetic; storage errors propagate
// without retry.
func (s *OrderService) CalculateTotal(ctx context.Context, order *models.Order) (decimal.Decimal, error) {
	total := computeTotal(order.Items, order.Discount, order.TaxRate)

	if err := s.orderRepo.UpdateTotal(ctx, order.ID, total); err != nil {
		s.logger.Error("Failed to persist order total", "error", err, "order_id", order.ID)
		return decimal.Zero, err
	}

	order.Total = total
	return total, nil
}

// CalculateChange computes change_given = max(0, amount_paid - total) and
// persists it, retrying up to 3 times on transient contention. A
// non-positive amount paid is a no-op returning the existing change.
func (s *OrderService) CalculateChange(ctx context.Context, order *models.Order) (decimal.Decimal, error) {
	if !order.AmountPaid.IsPositive() {
		return order.ChangeGiven, nil
	}

	change := computeChange(order.AmountPaid, order.Total)

	err := retry.ChangePolicy.Do(ctx, func() error {
		return s.orderRepo.UpdateChange(ctx, order.ID, change)
	})
	if err != nil {
		s.logger.Error("Change calculation failed", "error", err, "order_id", order.ID)
		return decimal.Zero, err
	}

	order.ChangeGiven = change
	return change, nil
}

// UpdateInventory decrements stock for each line item of a completed order,
// clamping to zero when a concurrent sale got there first. The whole pass
// runs in one transaction and is retried up to 5 times on transient
// contention. Orders that are not completed are a no-op.
func (s *OrderService) UpdateInventory(ctx context.Context, order *models.Order) error {
	if order.Status != models.StatusCompleted {
		return nil
	}

	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	err := retry.InventoryPolicy.Do(ctx, func() error {
		return s.orderRepo.Transact(ctx, func(tx repositories.OrderTx) error {
			for _, item := range items {
				product, err := tx.ProductForUpdate(order.SubscriptionID, item.ProductID)
				if err != nil {
					return err
				}
				if err := s.decrementOrClamp(tx, product, item.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		s.logger.Error("Inventory update failed", "error", err, "order_id", order.ID)
		return err
	}

	return nil
}

// decrementOrClamp applies the conditional decrement; when the condition
// fails (a concurrent sale drained the stock), stock is set to zero and the
// shortfall is recorded as a warning. An accepted order is never rolled back
// for a stock race; the catalog is corrected after the fact.
func (s *OrderService) decrementOrClamp(tx repositories.OrderTx, product *models.Product, quantity int) error {
	ok, err := tx.DecrementStock(product.ID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		if err := tx.ClampStockToZero(product.ID); err != nil {
			return err
		}
		s.logger.Warn("Insufficient stock at commit time; clamped to zero",
			"product_id", product.ID,
			"product_name", product.Name,
			"requested", quantity)
	}
	return nil
}

func validateOrderRequest(req CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validationf("order must have at least one item")
	}

	seen := make(map[string]struct{}, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == "" {
			return apperr.Validationf("item %d: product ID is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperr.Validationf("item %d: quantity must be positive", i+1)
		}
		if _, dup := seen[item.ProductID]; dup {
			return apperr.Validationf("duplicate product %s in order items", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}

	if req.AmountPaid.IsNegative() {
		return apperr.Validationf("amount paid cannot be negative")
	}
	if req.TaxRate != nil && req.TaxRate.IsNegative() {
		return apperr.Validationf("tax rate cannot be negative")
	}
	if req.Discount != nil && (req.Discount.IsNegative() || req.Discount.GreaterThan(decimal.NewFromInt(100))) {
		return apperr.Validationf("discount must be between 0 and 100")
	}

	switch models.PaymentMethod(req.PaymentMethod) {
	case "", models.PaymentCash, models.PaymentCard, models.PaymentTransfer, models.PaymentMobile:
	default:
		return apperr.Validationf("invalid payment method: %s", req.PaymentMethod)
	}

	return nil
}

// computeTotal applies the order's percentage discount to the item subtotal,
// then the percentage tax on the discounted amount. Fixed-point all the way.
func computeTotal(items []models.OrderItem, discount, taxRate decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].TotalPrice())
	}

	discountAmount := subtotal.Mul(discount.Div(hundred))
	taxAmount := subtotal.Sub(discountAmount).Mul(taxRate.Div(hundred))
	return subtotal.Sub(discountAmount).Add(taxAmount)
}

func computeChange(amountPaid, total decimal.Decimal) decimal.Decimal {
	change := amountPaid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

func paymentMethodOrDefault(method string) models.PaymentMethod {
	if method == "" {
		return models.PaymentCash
	}
	return models.PaymentMethod(method)
}

func valueOrDefault(value *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if value == nil {
		return fallback
	}
	return *value
}
