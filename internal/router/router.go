package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sima922/clouds-pos/internal/handler"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Order    *handler.OrderHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Report   *handler.ReportHandler
}

// New builds the API router. Everything under /api/v1 requires a resolved
// user identity; /health does not.
func New(h Handlers, db *database.DB, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(log.HTTPMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.HealthCheck(); err != nil {
			log.Error("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handler.ActorMiddleware(log))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Order.CreateOrder)
			r.Get("/", h.Order.ListOrders)
			r.Get("/{id}", h.Order.GetOrder)
			r.Get("/{id}/receipt", h.Order.GetReceipt)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.Product.CreateProduct)
			r.Get("/", h.Product.ListProducts)
			r.Get("/needing-restock", h.Product.ListNeedingRestock)
			r.Get("/{id}", h.Product.GetProduct)
			r.Put("/{id}", h.Product.UpdateProduct)
			r.Delete("/{id}", h.Product.DeleteProduct)
			r.Post("/{id}/restock", h.Product.RestockProduct)
			r.Get("/{id}/restock-history", h.Product.ListRestockHistory)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.Customer.CreateCustomer)
			r.Get("/", h.Customer.ListCustomers)
			r.Get("/{id}", h.Customer.GetCustomer)
			r.Put("/{id}", h.Customer.UpdateCustomer)
			r.Delete("/{id}", h.Customer.DeleteCustomer)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/daily", h.Report.GenerateDaily)
			r.Post("/range", h.Report.GenerateRange)
			r.Get("/", h.Report.ListReports)
		})
	})

	return r
}
