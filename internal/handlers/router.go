package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/flytire/backend/internal/metrics"
	"github.com/Lixing-Zhang/flytire/backend/internal/middleware"
)

// RouterConfig collects everything the HTTP router needs.
type RouterConfig struct {
	Health  *HealthHandler
	Orders  *OrderHandler
	Admin   *AdminHandler
	Static  http.Handler
	Auth    middleware.SessionVerifier
	Metrics *metrics.ServerMetrics
	Logger  *slog.Logger

	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router for the backend.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.Health.ServeHTTP)
		r.Get("/test", cfg.Orders.SendTest)
		r.Post("/order", cfg.Orders.CreateOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", cfg.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.SessionAuth(cfg.Auth))
				r.Get("/session", cfg.Admin.Session)
				r.Post("/logout", cfg.Admin.Logout)
			})
		})
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	if cfg.Static != nil {
		r.Method(http.MethodGet, "/*", cfg.Static)
	}

	return r
}
