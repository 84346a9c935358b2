// Package httpapi exposes the order service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/testworkflow/ordersvc/internal/service"
)

// NewRouter wires the order routes. The boundary owns input validation:
// malformed ids, unknown statuses and the offset/limit to page/size
// conversion are all handled here, so the service only sees clean input.
func NewRouter(orders *service.OrderService, logger *slog.Logger) http.Handler {
	h := &handler{orders: orders, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/status", h.updateOrderStatus)
	})
	return r
}
