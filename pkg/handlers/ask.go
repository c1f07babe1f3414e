package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/apperrors"
	"github.com/neurovia/neurovia-engine/pkg/conversation"
	"github.com/neurovia/neurovia-engine/pkg/models"
	"github.com/neurovia/neurovia-engine/pkg/services"
)

// AnswersRequest carries the user's replies to a clarification round.
type AnswersRequest struct {
	Currency           string `json:"currency,omitempty"`
	Country            string `json:"country,omitempty"`
	FromDate           int    `json:"from_date,omitempty"`
	ToDate             int    `json:"to_date,omitempty"`
	IncludeDistCenters bool   `json:"include_distribution_centers,omitempty"`
}

// AskRequest for POST /api/ask.
type AskRequest struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	Question       string          `json:"question,omitempty"`
	Answers        *AnswersRequest `json:"answers,omitempty"`
}

// AskResponse for POST /api/ask.
type AskResponse struct {
	ConversationID string                   `json:"conversation_id"`
	Status         models.OutcomeStatus     `json:"status"`
	Question       string                   `json:"question"`
	Query          string                   `json:"query,omitempty"`
	Results        []models.StatementResult `json:"results,omitempty"`
	Missing        []string                 `json:"missing,omitempty"`
	CacheHit       bool                     `json:"cache_hit"`
	Error          string                   `json:"error,omitempty"`
	LogID          string                   `json:"log_id,omitempty"`
}

// AskHandler handles question HTTP requests. It owns the in-memory
// conversation registry: each conversation's state lives for the life of
// the process, keyed by the id handed back to the client on first contact.
type AskHandler struct {
	assistant services.AssistantService
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*conversation.State
}

// NewAskHandler creates a new ask handler with an empty registry.
func NewAskHandler(assistant services.AssistantService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		assistant: assistant,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*conversation.State),
	}
}

// RegisterRoutes registers the ask handler's routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask", h.Ask)
	mux.HandleFunc("POST /api/conversations/{cid}/reset", h.Reset)
}

// Ask handles POST /api/ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Question == "" && req.Answers == nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Either question or answers is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	state, err := h.session(req.ConversationID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_conversation_id", "Invalid conversation_id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var answers *conversation.Answers
	if req.Answers != nil {
		answers = &conversation.Answers{
			Currency:           req.Answers.Currency,
			Country:            req.Answers.Country,
			FromDateKey:        req.Answers.FromDate,
			ToDateKey:          req.Answers.ToDate,
			IncludeDistCenters: req.Answers.IncludeDistCenters,
		}
	}

	outcome, err := h.assistant.HandleQuestion(r.Context(), state, req.Question, answers)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoPending) {
			if err := ErrorResponse(w, http.StatusConflict, "no_pending_question", "No clarification is pending for this conversation"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to handle question",
			zap.String("conversation_id", state.ID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to handle question"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	resp := AskResponse{
		ConversationID: state.ID.String(),
		Status:         outcome.Status,
		Question:       outcome.Question,
		Query:          outcome.Query,
		Results:        outcome.Results,
		Missing:        outcome.Missing,
		CacheHit:       outcome.CacheHit,
	}
	if outcome.Error != "" {
		resp.Error = outcome.Error
	}
	if outcome.LogID != uuid.Nil {
		resp.LogID = outcome.LogID.String()
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode ask response", zap.Error(err))
	}
}

// Reset handles POST /api/conversations/{cid}/reset. It clears the
// conversation's accumulated context without discarding the session.
func (h *AskHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := ParsePathUUID(w, r, "cid", h.logger)
	if !ok {
		return
	}

	h.mu.Lock()
	state, exists := h.sessions[id]
	h.mu.Unlock()
	if !exists {
		if err := ErrorResponse(w, http.StatusNotFound, "conversation_not_found", "Unknown conversation"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	state.Clear()
	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"}); err != nil {
		h.logger.Error("Failed to encode reset response", zap.Error(err))
	}
}

// session returns the state for the given conversation id, creating a
// fresh one when the id is empty or unknown.
func (h *AskHandler) session(rawID string) (*conversation.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rawID == "" {
		state := conversation.NewState()
		h.sessions[state.ID] = state
		return state, nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	if state, ok := h.sessions[id]; ok {
		return state, nil
	}

	// Unknown but well-formed ids get a fresh session under the same id,
	// so clients can pin their own conversation identifiers.
	state := conversation.NewStateWithID(id)
	h.sessions[id] = state
	return state, nil
}
