package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/neurovia/neurovia-engine/pkg/apperrors"
	"github.com/neurovia/neurovia-engine/pkg/database"
	"github.com/neurovia/neurovia-engine/pkg/models"
)

// ChatLogRepository persists question/answer exchanges.
type ChatLogRepository interface {
	Insert(ctx context.Context, log *models.ChatLog) error
	SetFeedback(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error)
	Stats(ctx context.Context) (*models.UsageStats, error)
}

type chatLogRepository struct {
	db *database.DB
}

// NewChatLogRepository creates a new ChatLogRepository.
func NewChatLogRepository(db *database.DB) ChatLogRepository {
	return &chatLogRepository{db: db}
}

var _ ChatLogRepository = (*chatLogRepository)(nil)

func (r *chatLogRepository) Insert(ctx context.Context, log *models.ChatLog) error {
	query := `
		INSERT INTO chat_logs (
			conversation_id, question, resolved_text, sql_query,
			status, row_count, cache_hit, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		log.ConversationID,
		log.Question,
		log.ResolvedText,
		log.SQLQuery,
		string(log.Status),
		log.RowCount,
		log.CacheHit,
		log.DurationMS,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat log: %w", err)
	}
	return nil
}

func (r *chatLogRepository) SetFeedback(ctx context.Context, logID uuid.UUID, verdict models.FeedbackVerdict) error {
	query := `UPDATE chat_logs SET feedback = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, logID, string(verdict))
	if err != nil {
		return fmt.Errorf("failed to set feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *chatLogRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, conversation_id, question, resolved_text, sql_query,
		       status, row_count, cache_hit, duration_ms, feedback, created_at
		FROM chat_logs
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ChatLog
	for rows.Next() {
		var l models.ChatLog
		var status string
		var feedback *string
		if err := rows.Scan(&l.ID, &l.ConversationID, &l.Question, &l.ResolvedText,
			&l.SQLQuery, &status, &l.RowCount, &l.CacheHit, &l.DurationMS,
			&feedback, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat log: %w", err)
		}
		l.Status = models.OutcomeStatus(status)
		if feedback != nil {
			v := models.FeedbackVerdict(*feedback)
			l.Feedback = &v
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat logs: %w", err)
	}
	return logs, nil
}

// Stats aggregates the chat log for the usage endpoint. The SQL verb
// breakdown classifies executed queries by their first keyword.
func (r *chatLogRepository) Stats(ctx context.Context) (*models.UsageStats, error) {
	stats := &models.UsageStats{ByVerb: make(map[string]int)}

	summary := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'blocked'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE cache_hit),
			COUNT(*) FILTER (WHERE feedback = 'positive'),
			COUNT(*) FILTER (WHERE feedback = 'negative')
		FROM chat_logs`

	err := r.db.QueryRow(ctx, summary).Scan(
		&stats.TotalQuestions,
		&stats.SuccessCount,
		&stats.BlockedCount,
		&stats.FailedCount,
		&stats.CacheHits,
		&stats.PositiveVotes,
		&stats.NegativeVotes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate chat logs: %w", err)
	}

	verbs := `
		SELECT UPPER(SPLIT_PART(TRIM(sql_query), ' ', 1)), COUNT(*)
		FROM chat_logs
		WHERE sql_query <> ''
		GROUP BY 1`

	rows, err := r.db.Query(ctx, verbs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate query verbs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var verb string
		var count int
		if err := rows.Scan(&verb, &count); err != nil {
			return nil, fmt.Errorf("failed to scan verb count: %w", err)
		}
		stats.ByVerb[strings.TrimSpace(verb)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate verb counts: %w", err)
	}
	return stats, nil
}
