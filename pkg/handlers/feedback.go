package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/apperrors"
	"github.com/neurovia/neurovia-engine/pkg/models"
	"github.com/neurovia/neurovia-engine/pkg/services"
)

// FeedbackRequest for POST /api/feedback.
type FeedbackRequest struct {
	LogID   string `json:"log_id"`
	Verdict string `json:"verdict"`
}

// FeedbackHandler handles answer-feedback HTTP requests.
type FeedbackHandler struct {
	assistant services.AssistantService
	logger    *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(assistant services.AssistantService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{assistant: assistant, logger: logger}
}

// RegisterRoutes registers the feedback handler's routes on the given mux.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/feedback", h.Submit)
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	logID, err := uuid.Parse(req.LogID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_log_id", "Invalid log_id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	verdict := models.FeedbackVerdict(req.Verdict)
	if verdict != models.FeedbackPositive && verdict != models.FeedbackNegative {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_verdict", "Verdict must be positive or negative"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.assistant.ProvideFeedback(r.Context(), logID, verdict); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "log_not_found", "Unknown log_id"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to record feedback", zap.String("log_id", req.LogID), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to record feedback"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "recorded"}); err != nil {
		h.logger.Error("Failed to encode feedback response", zap.Error(err))
	}
}
