package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackVerdict is the user's judgement of an answer.
type FeedbackVerdict string

const (
	FeedbackPositive FeedbackVerdict = "positive"
	FeedbackNegative FeedbackVerdict = "negative"
)

// ChatLog records one question/answer exchange for audit and usage stats.
type ChatLog struct {
	ID             uuid.UUID        `json:"id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Question       string           `json:"question"`
	ResolvedText   string           `json:"resolved_text"`
	SQLQuery       string           `json:"sql_query"`
	Status         OutcomeStatus    `json:"status"`
	RowCount       int              `json:"row_count"`
	CacheHit       bool             `json:"cache_hit"`
	DurationMS     int64            `json:"duration_ms"`
	Feedback       *FeedbackVerdict `json:"feedback,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// UsageStats aggregates chat log activity for the stats endpoint.
type UsageStats struct {
	TotalQuestions int            `json:"total_questions"`
	SuccessCount   int            `json:"success_count"`
	BlockedCount   int            `json:"blocked_count"`
	FailedCount    int            `json:"failed_count"`
	CacheHits      int            `json:"cache_hits"`
	ByVerb         map[string]int `json:"by_verb"` // leading SQL verb of executed queries
	PositiveVotes  int            `json:"positive_votes"`
	NegativeVotes  int            `json:"negative_votes"`
}
