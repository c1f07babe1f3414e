package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/models"
	"github.com/neurovia/neurovia-engine/pkg/services"
)

const defaultHistoryLimit = 50

// HistoryResponse for GET /api/conversations/{cid}/history.
type HistoryResponse struct {
	Entries []models.ChatLog `json:"entries"`
	Total   int              `json:"total"`
}

// HistoryHandler serves per-conversation chat history.
type HistoryHandler struct {
	assistant services.AssistantService
	logger    *zap.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(assistant services.AssistantService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{assistant: assistant, logger: logger}
}

// RegisterRoutes registers the history handler's routes on the given mux.
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/conversations/{cid}/history", h.List)
}

// List handles GET /api/conversations/{cid}/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := ParsePathUUID(w, r, "cid", h.logger)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "Limit must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		limit = parsed
	}

	entries, err := h.assistant.History(r.Context(), conversationID, limit)
	if err != nil {
		h.logger.Error("Failed to list history",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list history"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	resp := HistoryResponse{Entries: entries, Total: len(entries)}
	if resp.Entries == nil {
		resp.Entries = []models.ChatLog{}
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}
