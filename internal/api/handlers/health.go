package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rohits-web03/devfolio/internal/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status  string  `json:"status"`
	Uptime  float64 `json:"uptime"`
	Message string  `json:"message,omitempty"`
}

type HealthHandler struct {
	store   Pinger
	started time.Time
	timeout time.Duration
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, started: time.Now(), timeout: 2 * time.Second}
}

// Health godoc
// @Summary Liveness and store check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.started).Seconds()

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		utils.JSONResponse(w, http.StatusServiceUnavailable, HealthStatus{
			Status:  "DOWN",
			Uptime:  uptime,
			Message: "Store unavailable",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, HealthStatus{Status: "OK", Uptime: uptime})
}
