package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/inventory/internal/cfg"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	maxRequestBody = 1 << 20
	requestTimeout = 30 * time.Second
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(cfg *cfg.HTTPConfig, graphql http.Handler, db HealthChecker) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(r.logger),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
			MaxAge:         300,
		}),
		middleware.RequestSize(maxRequestBody),
		middleware.Timeout(requestTimeout),
	)

	healthHandler := NewHealthHandler(db, r.logger)
	r.router.Get("/healthz", healthHandler.healthz)

	r.router.Method(http.MethodPost, "/graphql", graphql)
}
