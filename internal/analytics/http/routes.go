package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the dashboard endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/api/overview", h.handleOverview)
	r.Get("/api/customers", h.handleCustomers)
	r.Get("/api/products", h.handleProducts)
	r.Get("/api/sales", h.handleSales)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/api/customers/export.csv", h.handleCustomersCSV)
		gr.Get("/api/products/export.csv", h.handleProductsCSV)
		gr.Get("/api/sales/export.csv", h.handleSalesCSV)
	})
}
