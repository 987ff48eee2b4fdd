package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/agripulse/internal/common"
)

// HealthHandler reports liveness and process uptime.
type HealthHandler struct {
	logger  *common.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler. Uptime is measured from
// this call.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, started: time.Now()}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
