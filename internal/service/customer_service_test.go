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

type customerStoreFake struct {
	customers map[string]*models.Customer
}

func newCustomerStoreFake() *customerStoreFake {
	return &customerStoreFake{customers: make(map[string]*models.Customer)}
}

func (r *customerStoreFake) Create(ctx context.Context, customer *models.Customer) error {
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

func (r *customerStoreFake) GetByID(ctx context.Context, subscriptionID, id string) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.SubscriptionID != subscriptionID {
		return nil, apperr.NotFound("customer", id)
	}
	cp := *c
	return &cp, nil
}

func (r *customerStoreFake) List(ctx context.Context, subscriptionID string) ([]*models.Customer, error) {
	out := []*models.Customer{}
	for _, c := range r.customers {
		if c.SubscriptionID == subscriptionID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *customerStoreFake) Update(ctx context.Context, subscriptionID string, customer *models.Customer) error {
	stored, ok := r.customers[customer.ID]
	if !ok || stored.SubscriptionID != subscriptionID {
		return apperr.NotFound("customer", customer.ID)
	}
	stored.Name = customer.Name
	stored.Email = customer.Email
	stored.Phone = customer.Phone
	stored.Address = customer.Address
	return nil
}

func (r *customerStoreFake) Delete(ctx context.Context, subscriptionID, id string) error {
	stored, ok := r.customers[id]
	if !ok || stored.SubscriptionID != subscriptionID {
		return apperr.NotFound("customer", id)
	}
	delete(r.customers, id)
	return nil
}

func newTestCustomerService(repo *customerStoreFake) *CustomerService {
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
	return NewCustomerService(repo, subRepo, log)
}

func TestCustomerLifecycle(t *testing.T) {
	repo := newCustomerStoreFake()
	svc := newTestCustomerService(repo)

	created, err := svc.CreateCustomer(context.Background(), testActorID, CustomerRequest{
		Name:  "Dana K.",
		Email: "dana@example.kz",
	})
	require.NoError(t, err)
	assert.Equal(t, testSubscriptionID, created.SubscriptionID)

	updated, err := svc.UpdateCustomer(context.Background(), testActorID, created.ID, CustomerRequest{
		Name:  "Dana Kim",
		Phone: "+7 700 000 0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Kim", updated.Name)
	assert.Equal(t, "+7 700 000 0000", updated.Phone)

	require.NoError(t, svc.DeleteCustomer(context.Background(), testActorID, created.ID))

	_, err = svc.GetCustomer(context.Background(), testActorID, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCustomerNameRequired(t *testing.T) {
	svc := newTestCustomerService(newCustomerStoreFake())

	_, err := svc.CreateCustomer(context.Background(), testActorID, CustomerRequest{Email: "x@y.z"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.UpdateCustomer(context.Background(), testActorID, "c1", CustomerRequest{})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCustomerTenantIsolation(t *testing.T) {
	repo := newCustomerStoreFake()
	repo.customers["other"] = &models.Customer{ID: "other", SubscriptionID: "sub-2", Name: "Foreign"}
	svc := newTestCustomerService(repo)

	_, err := svc.GetCustomer(context.Background(), testActorID, "other")
	assert.True(t, apperr.IsNotFound(err))

	list, err := svc.ListCustomers(context.Background(), testActorID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCustomerOperationsRequireSubscription(t *testing.T) {
	svc := newTestCustomerService(newCustomerStoreFake())
	svc.subscriptionRepo = &fakeSubscriptionRepo{scope: nil}

	_, err := svc.CreateCustomer(context.Background(), testActorID, CustomerRequest{Name: "N"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
