package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DRSN-tech/inventory/pkg/logger"
)

// HealthChecker проверяет доступность зависимости.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     HealthChecker
	logger logger.Logger
}

func NewHealthHandler(db HealthChecker, logger logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

type healthResponse struct {
	Status string `json:"status"`
}

// healthz отвечает 200, если база доступна, иначе 503.
func (h *HealthHandler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warnf("healthz: database unavailable: %v", err)
		WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
