package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// CreateProductRequest carries the catalog fields for a new product.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorder_level"`
}

// UpdateProductRequest rewrites the mutable catalog fields. Stock changes
// only through restock and order completion, never through update.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ReorderLevel int             `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
}

// RestockRequest replenishes stock for one product.
type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// ProductServiceInterface is the tenant-scoped catalog workflow.
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, actorID, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, actorID string, activeOnly bool) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, actorID, productID string, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actorID, productID string) error
	Restock(ctx context.Context, actorID, productID string, req RestockRequest) (*models.Product, error)
	ListNeedingRestock(ctx context.Context, actorID string) ([]*models.Product, error)
	ListRestockHistory(ctx context.Context, actorID, productID string) ([]*models.RestockEntry, error)
}

type ProductService struct {
	productRepo      repositories.ProductRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	logger           *logger.Logger
}

func NewProductService(
	productRepo repositories.ProductRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	log *logger.Logger,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           log.WithComponent("product_service"),
	}
}

var minPrice = decimal.NewFromFloat(0.01)

// CreateProduct validates and adds a product to the actor's catalog.
func (s *ProductService) CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := validateProductFields(req.Name, req.SKU, req.Price, req.CostPrice, req.ReorderLevel); err != nil {
		s.logger.Warn("Create product failed: invalid data", "error", err)
		return nil, err
	}
	if req.Stock < 0 {
		return nil, apperr.Validationf("stock cannot be negative")
	}

	product := &models.Product{
		ID:             uuid.NewString(),
		SubscriptionID: scope.ID,
		Name:           req.Name,
		SKU:            req.SKU,
		Description:    req.Description,
		Price:          req.Price,
		CostPrice:      req.CostPrice,
		Stock:          req.Stock,
		ReorderLevel:   req.ReorderLevel,
		IsActive:       true,
		CreatedBy:      actorID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves one product within the actor's tenant scope.
func (s *ProductService) GetProduct(ctx context.Context, actorID, productID string) (*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, scope.ID, productID)
}

// ListProducts retrieves the actor's catalog.
func (s *ProductService) ListProducts(ctx context.Context, actorID string, activeOnly bool) ([]*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.List(ctx, scope.ID, activeOnly)
}

// UpdateProduct rewrites the catalog fields of one product.
func (s *ProductService) UpdateProduct(ctx context.Context, actorID, productID string, req UpdateProductRequest) (*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := validateProductFields(req.Name, req.SKU, req.Price, req.CostPrice, req.ReorderLevel); err != nil {
		s.logger.Warn("Update product failed: invalid data", "error", err, "product_id", productID)
		return nil, err
	}

	product := &models.Product{
		ID:           productID,
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		Price:        req.Price,
		CostPrice:    req.CostPrice,
		ReorderLevel: req.ReorderLevel,
		IsActive:     req.IsActive,
	}

	if err := s.productRepo.Update(ctx, scope.ID, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, scope.ID, productID)
}

// DeleteProduct removes a product unless sold orders still reference it.
func (s *ProductService) DeleteProduct(ctx context.Context, actorID, productID string) error {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, scope.ID, productID)
}

// Restock increments stock and records the replenishment.
func (s *ProductService) Restock(ctx context.Context, actorID, productID string, req RestockRequest) (*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		s.logger.Warn("Restock failed: invalid quantity", "quantity", req.Quantity, "product_id", productID)
		return nil, apperr.Validationf("restock quantity must be positive")
	}

	entry := &models.RestockEntry{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Quantity:    req.Quantity,
		RestockedBy: actorID,
		Note:        req.Note,
	}

	if err := s.productRepo.Restock(ctx, scope.ID, entry); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, scope.ID, productID)
}

// ListNeedingRestock returns products at or below their reorder level.
func (s *ProductService) ListNeedingRestock(ctx context.Context, actorID string) ([]*models.Product, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListNeedingRestock(ctx, scope.ID)
}

// ListRestockHistory returns the restock log for one product.
func (s *ProductService) ListRestockHistory(ctx context.Context, actorID, productID string) ([]*models.RestockEntry, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListRestockHistory(ctx, scope.ID, productID)
}

func (s *ProductService) resolveScope(ctx context.Context, actorID string) (*models.Subscription, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}
	return scope, nil
}

func validateProductFields(name, sku string, price, costPrice decimal.Decimal, reorderLevel int) error {
	if name == "" {
		return apperr.Validationf("product name is required")
	}
	if sku == "" {
		return apperr.Validationf("product SKU is required")
	}
	if price.LessThan(minPrice) {
		return apperr.Validationf("price must be at least %s", minPrice.String())
	}
	if costPrice.IsNegative() {
		return apperr.Validationf("cost price cannot be negative")
	}
	if reorderLevel < 0 {
		return apperr.Validationf("reorder level cannot be negative")
	}
	return nil
}
