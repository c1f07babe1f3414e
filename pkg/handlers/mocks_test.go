package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/neurovia/neurovia-engine/pkg/conversation"
	"github.com/neurovia/neurovia-engine/pkg/models"
)

// mockAssistantService implements services.AssistantService for handler tests.
type mockAssistantService struct {
	HandleQuestionFunc  func(ctx context.Context, state *conversation.State, question string, answers *conversation.Answers) (*models.Outcome, error)
	ProvideFeedbackFunc func(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error
	HistoryFunc         func(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error)
	StatsFunc           func(ctx context.Context) (*models.UsageStats, error)
}

func (m *mockAssistantService) HandleQuestion(ctx context.Context, state *conversation.State, question string, answers *conversation.Answers) (*models.Outcome, error) {
	if m.HandleQuestionFunc != nil {
		return m.HandleQuestionFunc(ctx, state, question, answers)
	}
	return &models.Outcome{Status: models.StatusSuccess, Question: question}, nil
}

func (m *mockAssistantService) ProvideFeedback(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error {
	if m.ProvideFeedbackFunc != nil {
		return m.ProvideFeedbackFunc(ctx, logID, verdict)
	}
	return nil
}

func (m *mockAssistantService) History(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, conversationID, limit)
	}
	return nil, nil
}

func (m *mockAssistantService) Stats(ctx context.Context) (*models.UsageStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.UsageStats{}, nil
}
