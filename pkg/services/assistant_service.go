// Package services contains the assistant's orchestration layer: the
// question pipeline from lexical normalization through execution, plus
// feedback, history and usage statistics.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/adapters/datasource"
	"github.com/neurovia/neurovia-engine/pkg/apperrors"
	"github.com/neurovia/neurovia-engine/pkg/cache"
	"github.com/neurovia/neurovia-engine/pkg/conversation"
	"github.com/neurovia/neurovia-engine/pkg/llm"
	"github.com/neurovia/neurovia-engine/pkg/models"
	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/prompts"
	"github.com/neurovia/neurovia-engine/pkg/repositories"
	"github.com/neurovia/neurovia-engine/pkg/sqlfix"
)

// AssistantService runs questions through the full pipeline.
type AssistantService interface {
	// HandleQuestion processes one turn. When answers is non-nil the turn
	// resumes the conversation's pending clarification instead of starting
	// a new question.
	HandleQuestion(ctx context.Context, state *conversation.State, question string, answers *conversation.Answers) (*models.Outcome, error)

	// ProvideFeedback records the user's verdict on a logged answer.
	ProvideFeedback(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error

	// History returns recent exchanges for a conversation.
	History(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error)

	// Stats aggregates usage statistics across all conversations.
	Stats(ctx context.Context) (*models.UsageStats, error)
}

type assistantService struct {
	llmClient   llm.LLMClient
	cache       *cache.Cache
	chain       *sqlfix.Chain
	executor    datasource.SQLExecutor
	chatLogs    repositories.ChatLogRepository
	temperature float64
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssistantService wires the pipeline.
func NewAssistantService(
	llmClient llm.LLMClient,
	queryCache *cache.Cache,
	chain *sqlfix.Chain,
	executor datasource.SQLExecutor,
	chatLogs repositories.ChatLogRepository,
	temperature float64,
	logger *zap.Logger,
) AssistantService {
	return &assistantService{
		llmClient:   llmClient,
		cache:       queryCache,
		chain:       chain,
		executor:    executor,
		chatLogs:    chatLogs,
		temperature: temperature,
		logger:      logger.Named("assistant"),
		now:         time.Now,
	}
}

var _ AssistantService = (*assistantService)(nil)

func (s *assistantService) HandleQuestion(ctx context.Context, state *conversation.State, question string, answers *conversation.Answers) (*models.Outcome, error) {
	start := s.now()

	resolved, in, err := s.resolveTurn(state, question, answers)
	if err != nil {
		return nil, err
	}

	// Clarification: suspend when dimensions are missing; the whole set is
	// collected in one round trip.
	if missing := conversation.MissingDimensions(in); len(missing) > 0 {
		state.SetPending(&conversation.Pending{Question: resolved, Intent: in, Missing: missing})
		outcome := &models.Outcome{
			Status:   models.StatusNeedsInput,
			Question: resolved,
			Missing:  dimensionNames(missing),
		}
		s.record(ctx, state, question, outcome, start)
		return outcome, nil
	}

	sqlText, embedding, hit := s.cache.Lookup(ctx, resolved, in)
	if !hit {
		generated, err := s.generate(ctx, resolved, state)
		if err != nil {
			outcome := &models.Outcome{
				Status:   models.StatusFailed,
				Question: resolved,
				Error:    err.Error(),
			}
			s.record(ctx, state, question, outcome, start)
			return outcome, nil
		}
		sqlText = generated
	}

	corrected := s.chain.Apply(sqlText, in)

	if gate := sqlfix.CheckQuery(corrected); !gate.Allowed {
		s.logger.Warn("query blocked by safety gate",
			zap.String("token", gate.Token),
			zap.String("fingerprint", gate.Fingerprint))
		outcome := &models.Outcome{
			Status:   models.StatusBlocked,
			Question: resolved,
			Query:    corrected,
			Error:    apperrors.ErrQueryBlocked.Error(),
		}
		s.record(ctx, state, question, outcome, start)
		return outcome, nil
	}

	outcome := &models.Outcome{
		Status:   models.StatusSuccess,
		Question: resolved,
		Query:    corrected,
		CacheHit: hit,
	}

	// Statements execute independently: a failure in one is reported on
	// that statement, the rest still run. Failed queries are never retried
	// with a mutated text.
	for _, stmt := range sqlfix.SplitStatements(corrected) {
		result, err := s.executor.Execute(ctx, stmt)
		if err != nil {
			outcome.Status = models.StatusFailed
			outcome.Error = err.Error()
			outcome.Results = append(outcome.Results, models.StatementResult{
				SQL:   stmt,
				Error: err.Error(),
			})
			continue
		}
		outcome.Results = append(outcome.Results, models.StatementResult{
			SQL:     stmt,
			Columns: result.Columns,
			Rows:    result.Rows,
		})
		state.UpdateFromResult(result.Columns, result.Rows)
	}

	if outcome.Status == models.StatusSuccess {
		state.AddExchange(resolved, corrected)

		// Only proven question/SQL pairs enter the cache.
		if !hit {
			s.cache.Store(ctx, resolved, corrected, embedding)
		}
	}

	s.record(ctx, state, question, outcome, start)
	return outcome, nil
}

// resolveTurn produces the fully resolved question text and its intent,
// either from a fresh question or by resuming a pending clarification.
func (s *assistantService) resolveTurn(state *conversation.State, question string, answers *conversation.Answers) (string, nlp.Intent, error) {
	if answers != nil {
		pending := state.TakePending()
		if pending == nil {
			return "", nlp.Intent{}, apperrors.ErrNoPending
		}
		applied := conversation.ApplyAnswers(pending.Question, pending.Missing, *answers)
		// Re-run the lexical stages: the appended clauses are explicit
		// enough to satisfy the clarification flags on the second pass.
		norm, tags := nlp.Normalize(applied)
		in := nlp.DetectIntent(norm, tags)
		in.ResolvedField = pending.Intent.ResolvedField
		return norm, in, nil
	}

	norm, tags := nlp.Normalize(question)
	resolution := conversation.Resolve(norm, state)
	in := nlp.DetectIntent(resolution.Question, tags)
	in.ResolvedField = resolution.Field
	return resolution.Question, in, nil
}

// generate asks the LLM for SQL and strips markdown fences from the reply.
func (s *assistantService) generate(ctx context.Context, question string, state *conversation.State) (string, error) {
	prompt, err := prompts.BuildPrompt(question, state.History())
	if err != nil {
		return "", err
	}
	reply, err := s.llmClient.GenerateResponse(ctx, prompt, prompts.SystemMessage, s.temperature)
	if err != nil {
		return "", err
	}
	sqlText := stripFences(reply)
	if sqlText == "" {
		return "", fmt.Errorf("generator returned no SQL")
	}
	return sqlText, nil
}

func (s *assistantService) ProvideFeedback(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error {
	return s.chatLogs.SetFeedback(ctx, logID, verdict)
}

func (s *assistantService) History(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error) {
	return s.chatLogs.ListByConversation(ctx, conversationID, limit)
}

func (s *assistantService) Stats(ctx context.Context) (*models.UsageStats, error) {
	return s.chatLogs.Stats(ctx)
}

// record persists the exchange best-effort; logging failures never fail
// the question.
func (s *assistantService) record(ctx context.Context, state *conversation.State, rawQuestion string, outcome *models.Outcome, start time.Time) {
	if s.chatLogs == nil {
		return
	}
	rowCount := 0
	for _, r := range outcome.Results {
		rowCount += len(r.Rows)
	}
	entry := &models.ChatLog{
		ConversationID: state.ID,
		Question:       rawQuestion,
		ResolvedText:   outcome.Question,
		SQLQuery:       outcome.Query,
		Status:         outcome.Status,
		RowCount:       rowCount,
		CacheHit:       outcome.CacheHit,
		DurationMS:     s.now().Sub(start).Milliseconds(),
	}
	if err := s.chatLogs.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to persist chat log", zap.Error(err))
		return
	}
	outcome.LogID = entry.ID
}

func dimensionNames(dims []conversation.Dimension) []string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = string(d)
	}
	return names
}

// stripFences removes markdown code fences the model may wrap SQL in.
func stripFences(reply string) string {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```sql")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
