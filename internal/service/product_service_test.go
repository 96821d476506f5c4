package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// catalogRepoFake is a map-backed ProductRepositoryInterface with working
// restock semantics, unlike the minimal fake the order tests use.
type catalogRepoFake struct {
	products map[string]*models.Product
	history  map[string][]*models.RestockEntry
}

func newCatalogRepoFake() *catalogRepoFake {
	return &catalogRepoFake{
		products: make(map[string]*models.Product),
		history:  make(map[string][]*models.RestockEntry),
	}
}

func (r *catalogRepoFake) Create(ctx context.Context, product *models.Product) error {
	for _, existing := range r.products {
		if existing.SubscriptionID == product.SubscriptionID && existing.SKU == product.SKU {
			return apperr.Conflictf("product with SKU %s already exists", product.SKU)
		}
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *catalogRepoFake) GetByID(ctx context.Context, subscriptionID, id string) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok || product.SubscriptionID != subscriptionID {
		return nil, apperr.NotFound("product", id)
	}
	cp := *product
	return &cp, nil
}

func (r *catalogRepoFake) List(ctx context.Context, subscriptionID string, activeOnly bool) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range r.products {
		if p.SubscriptionID != subscriptionID {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *catalogRepoFake) Update(ctx context.Context, subscriptionID string, product *models.Product) error {
	stored, ok := r.products[product.ID]
	if !ok || stored.SubscriptionID != subscriptionID {
		return apperr.NotFound("product", product.ID)
	}
	stored.Name = product.Name
	stored.SKU = product.SKU
	stored.Description = product.Description
	stored.Price = product.Price
	stored.CostPrice = product.CostPrice
	stored.ReorderLevel = product.ReorderLevel
	stored.IsActive = product.IsActive
	return nil
}

func (r *catalogRepoFake) Delete(ctx context.Context, subscriptionID, id string) error {
	stored, ok := r.products[id]
	if !ok || stored.SubscriptionID != subscriptionID {
		return apperr.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

func (r *catalogRepoFake) Restock(ctx context.Context, subscriptionID string, entry *models.RestockEntry) error {
	stored, ok := r.products[entry.ProductID]
	if !ok || stored.SubscriptionID != subscriptionID {
		return apperr.NotFound("product", entry.ProductID)
	}
	stored.Stock += entry.Quantity
	cp := *entry
	r.history[entry.ProductID] = append(r.history[entry.ProductID], &cp)
	return nil
}

func (r *catalogRepoFake) ListNeedingRestock(ctx context.Context, subscriptionID string) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range r.products {
		if p.SubscriptionID == subscriptionID && p.NeedsRestock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *catalogRepoFake) ListRestockHistory(ctx context.Context, subscriptionID, productID string) ([]*models.RestockEntry, error) {
	return r.history[productID], nil
}

func newTestProductService(repo *catalogRepoFake) *ProductService {
	subRepo := &fakeSubscriptionRepo{
		scope: &models.Subscription{
			ID:        testSubscriptionID,
			OwnerID:   testActorID,
			Tier:      models.TierBasic,
			Active:    true,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		},
	}
	log := logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"})
	return NewProductService(repo, subRepo, log)
}

func TestCreateProduct(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	product, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name:         "Latte",
		SKU:          "LAT-001",
		Price:        dec("4.50"),
		CostPrice:    dec("1.20"),
		Stock:        20,
		ReorderLevel: 5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, testSubscriptionID, product.SubscriptionID)
	assert.Equal(t, testActorID, product.CreatedBy)
	assert.True(t, product.IsActive)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestProductService(newCatalogRepoFake())

	cases := []struct {
		name string
		req  CreateProductRequest
	}{
		{"missing name", CreateProductRequest{SKU: "S", Price: dec("1.00")}},
		{"missing sku", CreateProductRequest{Name: "N", Price: dec("1.00")}},
		{"price below minimum", CreateProductRequest{Name: "N", SKU: "S", Price: dec("0.001")}},
		{"zero price", CreateProductRequest{Name: "N", SKU: "S"}},
		{"negative cost", CreateProductRequest{Name: "N", SKU: "S", Price: dec("1.00"), CostPrice: dec("-1")}},
		{"negative stock", CreateProductRequest{Name: "N", SKU: "S", Price: dec("1.00"), Stock: -1}},
		{"negative reorder level", CreateProductRequest{Name: "N", SKU: "S", Price: dec("1.00"), ReorderLevel: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), testActorID, tc.req)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestCreateProductMinimumPriceAccepted(t *testing.T) {
	svc := newTestProductService(newCatalogRepoFake())

	_, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name:  "Penny candy",
		SKU:   "PC-1",
		Price: dec("0.01"),
	})
	assert.NoError(t, err)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	req := CreateProductRequest{Name: "Latte", SKU: "LAT-001", Price: dec("4.50")}
	_, err := svc.CreateProduct(context.Background(), testActorID, req)
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), testActorID, req)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestRestockIncrementsStockAndRecordsHistory(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	created, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name: "Beans", SKU: "BN-1", Price: dec("12.00"), Stock: 2, ReorderLevel: 5,
	})
	require.NoError(t, err)

	product, err := svc.Restock(context.Background(), testActorID, created.ID, RestockRequest{
		Quantity: 10,
		Note:     "weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, product.Stock)

	history, err := svc.ListRestockHistory(context.Background(), testActorID, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].Quantity)
	assert.Equal(t, testActorID, history[0].RestockedBy)
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestProductService(newCatalogRepoFake())

	for _, qty := range []int{0, -5} {
		_, err := svc.Restock(context.Background(), testActorID, "p1", RestockRequest{Quantity: qty})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
}

func TestListNeedingRestock(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	low, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name: "Low", SKU: "L-1", Price: dec("1.00"), Stock: 3, ReorderLevel: 5,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name: "Plenty", SKU: "P-1", Price: dec("1.00"), Stock: 50, ReorderLevel: 5,
	})
	require.NoError(t, err)

	needing, err := svc.ListNeedingRestock(context.Background(), testActorID)
	require.NoError(t, err)
	require.Len(t, needing, 1)
	assert.Equal(t, low.ID, needing[0].ID)
}

func TestProductOperationsRequireSubscription(t *testing.T) {
	svc := newTestProductService(newCatalogRepoFake())
	svc.subscriptionRepo = &fakeSubscriptionRepo{scope: nil}

	_, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name: "N", SKU: "S", Price: dec("1.00"),
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.ListProducts(context.Background(), testActorID, false)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Restock(context.Background(), testActorID, "p1", RestockRequest{Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestProductTenantIsolation(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	// A product owned by a different tenant is invisible.
	repo.products["other"] = &models.Product{
		ID:             "other",
		SubscriptionID: "sub-2",
		Name:           "Foreign",
		SKU:            "F-1",
		Price:          dec("1.00"),
	}

	_, err := svc.GetProduct(context.Background(), testActorID, "other")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	list, err := svc.ListProducts(context.Background(), testActorID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateProductRewritesCatalogFields(t *testing.T) {
	repo := newCatalogRepoFake()
	svc := newTestProductService(repo)

	created, err := svc.CreateProduct(context.Background(), testActorID, CreateProductRequest{
		Name: "Latte", SKU: "LAT-001", Price: dec("4.50"), Stock: 20,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), testActorID, created.ID, UpdateProductRequest{
		Name:     "Latte Grande",
		SKU:      "LAT-001",
		Price:    dec("5.00"),
		IsActive: false,
	})
	require.NoError(t, err)

	assert.Equal(t, "Latte Grande", updated.Name)
	assert.True(t, updated.Price.Equal(dec("5.00")))
	assert.False(t, updated.IsActive)
	assert.Equal(t, 20, updated.Stock, "update must not touch stock")
}
