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
	"github.com/Sima922/clouds-pos/pkg/money"
)

type customerRepoFake struct {
	customers map[string]*models.Customer
}

func (r *customerRepoFake) Create(ctx context.Context, customer *models.Customer) error { return nil }

func (r *customerRepoFake) GetByID(ctx context.Context, subscriptionID, id string) (*models.Customer, error) {
	if c, ok := r.customers[id]; ok && c.SubscriptionID == subscriptionID {
		return c, nil
	}
	return nil, apperr.NotFound("customer", id)
}

func (r *customerRepoFake) List(ctx context.Context, subscriptionID string) ([]*models.Customer, error) {
	return nil, nil
}

func (r *customerRepoFake) Update(ctx context.Context, subscriptionID string, customer *models.Customer) error {
	return nil
}

func (r *customerRepoFake) Delete(ctx context.Context, subscriptionID, id string) error {
	return nil
}

func completedTestOrder(customerID *string) *models.Order {
	return &models.Order{
		ID:             "o1",
		SubscriptionID: testSubscriptionID,
		UserID:         testActorID,
		CustomerID:     customerID,
		Status:         models.StatusCompleted,
		PaymentMethod:  models.PaymentCash,
		TaxRate:        dec("8"),
		Discount:       dec("0"),
		Total:          dec("10.80"),
		AmountPaid:     dec("20.00"),
		ChangeGiven:    dec("9.20"),
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Latte", Quantity: 1, Price: dec("10.00")},
		},
		CreatedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func newTestReceiptService(store *memStore, customers *customerRepoFake, users map[string]*models.User) *ReceiptService {
	subRepo := &fakeSubscriptionRepo{
		scope: &models.Subscription{
			ID:           testSubscriptionID,
			OwnerID:      testActorID,
			BusinessName: "Almaty Beans",
			Tier:         models.TierBasic,
			Active:       true,
			ExpiresAt:    time.Now().Add(24 * time.Hour),
		},
		users: users,
	}
	log := logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"})
	return NewReceiptService(&fakeOrderRepo{store: store}, customers, subRepo, money.DefaultDisplayConfig(), log)
}

func TestRenderReceipt(t *testing.T) {
	customerID := "c1"
	store := newMemStore()
	store.orders["o1"] = completedTestOrder(&customerID)

	customers := &customerRepoFake{customers: map[string]*models.Customer{
		"c1": {ID: "c1", SubscriptionID: testSubscriptionID, Name: "Dana K."},
	}}
	users := map[string]*models.User{
		testActorID: {ID: testActorID, FirstName: "Aida", LastName: "Bekova"},
	}

	svc := newTestReceiptService(store, customers, users)

	receipt, err := svc.Render(context.Background(), testActorID, "o1")
	require.NoError(t, err)

	assert.Contains(t, receipt, "Almaty Beans")
	assert.Contains(t, receipt, "RECEIPT #o1")
	assert.Contains(t, receipt, "Customer: Dana K.")
	assert.Contains(t, receipt, "Cashier: Aida Bekova")
	assert.Contains(t, receipt, "1 x Latte @ $10.00 = $10.00")
	assert.Contains(t, receipt, "Subtotal: $10.00")
	assert.Contains(t, receipt, "TOTAL: $10.80")
	assert.Contains(t, receipt, "Amount Paid: $20.00")
	assert.Contains(t, receipt, "Change: $9.20")
	assert.Contains(t, receipt, "Payment Method: cash")
}

func TestRenderReceiptWalkInCustomer(t *testing.T) {
	store := newMemStore()
	store.orders["o1"] = completedTestOrder(nil)

	svc := newTestReceiptService(store, &customerRepoFake{}, nil)

	receipt, err := svc.Render(context.Background(), testActorID, "o1")
	require.NoError(t, err)

	assert.Contains(t, receipt, "Customer: Walk-in")
	assert.Contains(t, receipt, "Cashier: Unknown")
}

func TestRenderReceiptUnknownOrder(t *testing.T) {
	svc := newTestReceiptService(newMemStore(), &customerRepoFake{}, nil)

	_, err := svc.Render(context.Background(), testActorID, "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRenderReceiptRequiresSubscription(t *testing.T) {
	svc := newTestReceiptService(newMemStore(), &customerRepoFake{}, nil)
	svc.subscriptionRepo = &fakeSubscriptionRepo{scope: nil}

	_, err := svc.Render(context.Background(), testActorID, "o1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
