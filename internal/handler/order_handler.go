package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Sima922/clouds-pos/internal/service"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// OrderHandler exposes order entry, completion and receipts over HTTP.
type OrderHandler struct {
	orderService   service.OrderServiceInterface
	receiptService service.ReceiptServiceInterface
	logger         *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, receiptService service.ReceiptServiceInterface, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		receiptService: receiptService,
		logger:         log.WithComponent("order_handler"),
	}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateOrderRequest
	if err := parseBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create order", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), actorID(r), createReq)
	if err != nil {
		h.logger.Warn("Failed to create order", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, h.logger, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	orders, err := h.orderService.ListOrders(r.Context(), actorID(r), limit)
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orderService.GetOrder(r.Context(), actorID(r), id)
	if err != nil {
		h.logger.Warn("Failed to get order", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, order)
}

// GetReceipt handles GET /api/v1/orders/{id}/receipt
func (h *OrderHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	receipt, err := h.receiptService.Render(r.Context(), actorID(r), id)
	if err != nil {
		h.logger.Warn("Failed to render receipt", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(receipt)); err != nil {
		h.logger.Error("Failed to write receipt", "error", err)
	}
}
