package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sima922/clouds-pos/internal/service"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// ProductHandler exposes the product catalog and restock workflow over HTTP.
type ProductHandler struct {
	productService service.ProductServiceInterface
	logger         *logger.Logger
}

func NewProductHandler(productService service.ProductServiceInterface, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         log.WithComponent("product_handler"),
	}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateProductRequest
	if err := parseBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create product", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), actorID(r), createReq)
	if err != nil {
		h.logger.Warn("Failed to create product", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, product)
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	products, err := h.productService.ListProducts(r.Context(), actorID(r), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.productService.GetProduct(r.Context(), actorID(r), id)
	if err != nil {
		h.logger.Warn("Failed to get product", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updateReq service.UpdateProductRequest
	if err := parseBody(r, &updateReq); err != nil {
		h.logger.Warn("Invalid request body for update product", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), actorID(r), id, updateReq)
	if err != nil {
		h.logger.Warn("Failed to update product", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.productService.DeleteProduct(r.Context(), actorID(r), id); err != nil {
		h.logger.Warn("Failed to delete product", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestockProduct handles POST /api/v1/products/{id}/restock
func (h *ProductHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var restockReq service.RestockRequest
	if err := parseBody(r, &restockReq); err != nil {
		h.logger.Warn("Invalid request body for restock", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Restock(r.Context(), actorID(r), id, restockReq)
	if err != nil {
		h.logger.Warn("Failed to restock product", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, product)
}

// ListNeedingRestock handles GET /api/v1/products/needing-restock
func (h *ProductHandler) ListNeedingRestock(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListNeedingRestock(r.Context(), actorID(r))
	if err != nil {
		h.logger.Error("Failed to list products needing restock", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, products)
}

// ListRestockHistory handles GET /api/v1/products/{id}/restock-history
func (h *ProductHandler) ListRestockHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	history, err := h.productService.ListRestockHistory(r.Context(), actorID(r), id)
	if err != nil {
		h.logger.Warn("Failed to list restock history", "id", id, "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, history)
}
