package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sima922/clouds-pos/internal/service"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// CustomerHandler exposes the customer registry over HTTP.
type CustomerHandler struct {
	customerService service.CustomerServiceInterface
	logger          *logger.Logger
}

func NewCustomerHandler(customerService service.CustomerServiceInterface, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          log.WithComponent("customer_handler"),
	}
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRequest
	if err := parseBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for create customer", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(r.Context(), actorID(r), req)
	if err != nil {
		h.logger.Warn("Failed to create customer", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.ListCustomers(r.Context(), actorID(r))
	if err != nil {
		h.logger.Error("Failed to list customers", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, customers)
}

// GetCustomer handles GET /api/v1/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, err := h.customerService.GetCustomer(r.Context(), actorID(r), id)
	if err != nil {
		h.logger.Warn("Failed to get customer", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.CustomerRequest
	if err := parseBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for update customer", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(r.Context(), actorID(r), id, req)
	if err != nil {
		h.logger.Warn("Failed to update customer", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.customerService.DeleteCustomer(r.Context(), actorID(r), id); err != nil {
		h.logger.Warn("Failed to delete customer", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
