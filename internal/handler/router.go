package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/castleviz/castleviz/internal/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Root      *Handler
	Health    *HealthHandler
	Users     *UserHandler
	Payments  *PaymentHandler
	Bills     *BillHandler
	Expenses  *ExpenseHandler
	Dashboard *DashboardHandler
	// Metrics serves GET /metrics; nil leaves the route unregistered.
	Metrics http.Handler
}

// RouterOptions configures the middleware chain.
type RouterOptions struct {
	Logger             *slog.Logger
	CORS               middleware.CORSConfig
	Security           middleware.SecurityConfig
	MaxRequestBodySize int64
	RateLimit          middleware.RateLimitConfig
}

// NewRouter builds the chi router with the full middleware chain and routes.
// Static segments such as /payments/latest are registered next to /{id};
// chi prefers them regardless of order.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	if opts.RateLimit.Logger == nil {
		opts.RateLimit.Logger = opts.Logger
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	r.Use(middleware.CORS(opts.CORS))
	r.Use(middleware.Security(opts.Security))
	if opts.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(opts.MaxRequestBodySize))
	}
	r.Use(middleware.RateLimitIP(opts.RateLimit))

	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	r.Get("/", h.Root.Root)
	r.Get("/health", h.Health.Health)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Users.Create)
		r.Get("/", h.Users.List)
		r.Get("/by-email/{email}", h.Users.GetByEmail)
		r.Get("/{id}", h.Users.Get)
		r.Put("/{id}", h.Users.Update)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.Payments.Create)
		r.Get("/", h.Payments.List)
		r.Get("/latest", h.Payments.Latest)
		r.Get("/all", h.Payments.All)
		r.Get("/{id}", h.Payments.Get)
		r.Put("/{id}", h.Payments.Update)
		r.Delete("/{id}", h.Payments.Delete)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Post("/", h.Bills.Create)
		r.Get("/", h.Bills.List)
		r.Get("/all", h.Bills.All)
		r.Get("/{id}", h.Bills.Get)
		r.Put("/{id}", h.Bills.Update)
		r.Delete("/{id}", h.Bills.Delete)
	})

	r.Get("/dashboard/card-data", h.Dashboard.CardData)

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/filtered", h.Expenses.Filtered)
		r.Get("/pages", h.Expenses.Pages)
		r.Get("/by-month", h.Dashboard.ByMonth)
	})

	r.Get("/vendors", h.Dashboard.Vendors)
	r.Get("/vendors/", h.Dashboard.Vendors)
	r.Get("/categories", h.Dashboard.Categories)
	r.Get("/categories/", h.Dashboard.Categories)

	return r
}
