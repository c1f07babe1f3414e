package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/apperrors"
	"github.com/neurovia/neurovia-engine/pkg/models"
)

func newFeedbackServer(svc *mockAssistantService) *http.ServeMux {
	mux := http.NewServeMux()
	NewFeedbackHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestFeedbackRecorded(t *testing.T) {
	var gotID uuid.UUID
	var gotVerdict models.FeedbackVerdict
	svc := &mockAssistantService{
		ProvideFeedbackFunc: func(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error {
			gotID = logID
			gotVerdict = verdict
			return nil
		},
	}
	mux := newFeedbackServer(svc)

	id := uuid.New()
	rec := postJSON(t, mux, "/api/feedback", FeedbackRequest{
		LogID:   id.String(),
		Verdict: "positive",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gotID)
	assert.Equal(t, models.FeedbackPositive, gotVerdict)
}

func TestFeedbackUnknownLog(t *testing.T) {
	svc := &mockAssistantService{
		ProvideFeedbackFunc: func(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error {
			return apperrors.ErrNotFound
		},
	}
	mux := newFeedbackServer(svc)

	rec := postJSON(t, mux, "/api/feedback", FeedbackRequest{
		LogID:   uuid.NewString(),
		Verdict: "negative",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackInvalidVerdict(t *testing.T) {
	mux := newFeedbackServer(&mockAssistantService{})

	rec := postJSON(t, mux, "/api/feedback", FeedbackRequest{
		LogID:   uuid.NewString(),
		Verdict: "meh",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackInvalidLogID(t *testing.T) {
	mux := newFeedbackServer(&mockAssistantService{})

	rec := postJSON(t, mux, "/api/feedback", FeedbackRequest{
		LogID:   "nope",
		Verdict: "positive",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
