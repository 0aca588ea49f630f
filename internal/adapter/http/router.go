package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/totza/internal/adapter/http/handler"
	"github.com/iho/totza/internal/adapter/http/middleware"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	PersonalHandler    *handler.PersonalTransactionHandler
	CatalogueHandler   *handler.CatalogueHandler
	ProjectHandler     *handler.ProjectHandler
	ExpenseHandler     *handler.ExpenseHandler
	UserHandler        *handler.UserHandler
	ReportHandler      *handler.ReportHandler
	HealthHandler      *handler.HealthHandler

	// Authenticate resolves the acting user for /api/v1. It is either
	// Authenticator.Wrap or StaticActor.
	Authenticate     func(http.Handler) http.Handler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          middleware.HTTPRecorder
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	operator := middleware.RequireRole(domain.RoleOperator)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Authenticate != nil {
			r.Use(cfg.Authenticate)
		}

		// Idempotency runs after authentication so keys are scoped per user
		if cfg.IdempotencyStore != nil {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = usecase.IdempotencyKeyTTL
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl, cfg.Logger).Wrap)
		}

		r.Route("/company-transactions", func(r chi.Router) {
			r.With(operator).Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.With(operator).Post("/bulk", cfg.TransactionHandler.CreateBulk)
			r.Get("/recent", cfg.TransactionHandler.ListRecent)
			r.Get("/consistency", cfg.TransactionHandler.Consistency)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.With(operator).Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/personal-transactions", func(r chi.Router) {
			r.Get("/", cfg.PersonalHandler.List)
			r.With(operator).Post("/", cfg.PersonalHandler.Create)
			r.With(operator).Delete("/{id}", cfg.PersonalHandler.Delete)
		})

		r.Route("/account-categories", func(r chi.Router) {
			r.With(operator).Post("/", cfg.CatalogueHandler.CreateCategory)
			r.Get("/", cfg.CatalogueHandler.ListCategories)
			r.Get("/{id}", cfg.CatalogueHandler.GetCategory)
			r.With(operator).Delete("/{id}", cfg.CatalogueHandler.DeleteCategory)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.With(operator).Post("/", cfg.CatalogueHandler.CreateVendor)
			r.Get("/", cfg.CatalogueHandler.ListVendors)
			r.With(operator).Put("/{id}", cfg.CatalogueHandler.UpdateVendor)
			r.With(operator).Delete("/{id}", cfg.CatalogueHandler.DeleteVendor)
		})

		r.Route("/projects", func(r chi.Router) {
			r.With(operator).Post("/", cfg.ProjectHandler.Create)
			r.Get("/", cfg.ProjectHandler.List)
			r.Get("/{id}", cfg.ProjectHandler.Get)
			r.With(operator).Delete("/{id}", cfg.ProjectHandler.Delete)
			r.With(operator).Post("/{id}/collaborators", cfg.ProjectHandler.AddCollaborator)
			r.With(operator).Post("/{id}/expenses", cfg.ProjectHandler.AddExpense)
			r.Get("/{id}/expenses", cfg.ProjectHandler.ListExpenses)
			r.With(operator).Delete("/{id}/expenses/{expenseID}", cfg.ProjectHandler.DeleteExpense)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.With(operator).Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.With(operator).Put("/{id}", cfg.ExpenseHandler.Update)
			r.With(operator).Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(admin).Post("/", cfg.UserHandler.Register)
			r.Get("/me", cfg.UserHandler.Me)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(admin)
			r.Post("/sheets-sync", cfg.ReportHandler.SyncSheet)
			r.Post("/daily", cfg.ReportHandler.DailyReport)
		})
	})

	return r
}
