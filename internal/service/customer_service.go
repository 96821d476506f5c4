package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// CustomerRequest carries customer contact fields for create and update.
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerServiceInterface is the tenant-scoped customer workflow.
type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, actorID string, req CustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, actorID, customerID string) (*models.Customer, error)
	ListCustomers(ctx context.Context, actorID string) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, actorID, customerID string, req CustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, actorID, customerID string) error
}

type CustomerService struct {
	customerRepo     repositories.CustomerRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	logger           *logger.Logger
}

func NewCustomerService(
	customerRepo repositories.CustomerRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	log *logger.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo:     customerRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           log.WithComponent("customer_service"),
	}
}

// CreateCustomer adds a customer to the actor's tenant.
func (s *CustomerService) CreateCustomer(ctx context.Context, actorID string, req CustomerRequest) (*models.Customer, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		s.logger.Warn("Create customer failed: name is required")
		return nil, apperr.Validationf("customer name is required")
	}

	customer := &models.Customer{
		ID:             uuid.NewString(),
		SubscriptionID: scope.ID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves one customer within the actor's tenant scope.
func (s *CustomerService) GetCustomer(ctx context.Context, actorID, customerID string) (*models.Customer, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.customerRepo.GetByID(ctx, scope.ID, customerID)
}

// ListCustomers retrieves the tenant's customers.
func (s *CustomerService) ListCustomers(ctx context.Context, actorID string) ([]*models.Customer, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.customerRepo.List(ctx, scope.ID)
}

// UpdateCustomer rewrites a customer's contact fields.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actorID, customerID string, req CustomerRequest) (*models.Customer, error) {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, apperr.Validationf("customer name is required")
	}

	customer := &models.Customer{
		ID:      customerID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.customerRepo.Update(ctx, scope.ID, customer); err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, scope.ID, customerID)
}

// DeleteCustomer removes a customer; their orders keep a NULL reference.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actorID, customerID string) error {
	scope, err := s.resolveScope(ctx, actorID)
	if err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, scope.ID, customerID)
}

func (s *CustomerService) resolveScope(ctx context.Context, actorID string) (*models.Subscription, error) {
	scope, err := s.subscriptionRepo.ResolveScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, apperr.ErrForbidden
	}
	return scope, nil
}
