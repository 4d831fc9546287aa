package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/platform/metrics"
	"storefront/internal/platform/middleware"
	"storefront/internal/remote"
	"storefront/internal/session"
	"storefront/internal/transport/http/shared"
)

// Handler is the console surface handed to the presentation layer: store
// routes for everyone, the order-management console for admins. It delegates
// to the stores and clients without embedding business logic.
type Handler struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sessions *session.Holder
	cart     *cart.Store
	checkout *checkout.Service
	auth     *remote.AuthClient
	products *remote.ProductClient
	orders   *remote.OrderClient
}

func NewHandler(
	logger *slog.Logger,
	m *metrics.Metrics,
	sessions *session.Holder,
	cartStore *cart.Store,
	checkoutSvc *checkout.Service,
	auth *remote.AuthClient,
	products *remote.ProductClient,
	orders *remote.OrderClient,
) *Handler {
	return &Handler{
		logger:   logger,
		metrics:  m,
		sessions: sessions,
		cart:     cartStore,
		checkout: checkoutSvc,
		auth:     auth,
		products: products,
		orders:   orders,
	}
}

// NewRouter wires the console surface.
func NewRouter(h *Handler, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Latency(h.metrics))

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/logout", h.handleLogout)
		r.Get("/auth/me", h.handleMe)
		r.With(middleware.RequireSession(h.sessions, h.logger)).Put("/auth/me", h.handleUpdateProfile)

		r.Get("/products", h.handleListProducts)
		r.Get("/products/{id}", h.handleGetProduct)
		r.Get("/categories", h.handleListCategories)

		r.Get("/cart", h.handleGetCart)
		r.Post("/cart/items", h.handleAddItem)
		r.Put("/cart/items/{productID}", h.handleUpdateQuantity)
		r.Delete("/cart/items/{productID}", h.handleRemoveItem)
		r.Delete("/cart", h.handleClearCart)

		r.Post("/checkout", h.handleCheckout)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.sessions, h.logger))
			r.Get("/dashboard", h.handleDashboard)
			r.Get("/orders", h.handleListOrders)
			r.Get("/orders/{id}", h.handleGetOrder)
			r.Put("/orders/{id}", h.handleUpdateOrder)
			r.Delete("/orders/{id}", h.handleDeleteOrder)
		})
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
