package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/services"
)

// StatsHandler serves aggregate usage statistics.
type StatsHandler struct {
	assistant services.AssistantService
	logger    *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(assistant services.AssistantService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{assistant: assistant, logger: logger}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", h.Get)
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.assistant.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute usage stats", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}
