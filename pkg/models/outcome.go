// Package models defines the data structures shared across the service,
// repository and handler layers.
package models

import "github.com/google/uuid"

// OutcomeStatus is the terminal state of one question through the pipeline.
type OutcomeStatus string

const (
	// StatusSuccess means SQL was produced, executed and results returned.
	StatusSuccess OutcomeStatus = "success"
	// StatusNeedsInput means the question is suspended on clarification;
	// Missing lists the dimensions the user must fill in.
	StatusNeedsInput OutcomeStatus = "needs_input"
	// StatusBlocked means the safety gate rejected the generated SQL.
	StatusBlocked OutcomeStatus = "blocked"
	// StatusFailed means generation or execution failed.
	StatusFailed OutcomeStatus = "failed"
)

// StatementResult holds the rows of one executed statement. Statements in
// a batch execute independently; a failure in one is reported on that
// statement without skipping the rest.
type StatementResult struct {
	SQL     string           `json:"sql"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Outcome is the assistant's answer to one question.
type Outcome struct {
	Status   OutcomeStatus     `json:"status"`
	Question string            `json:"question"` // fully resolved question text
	Query    string            `json:"query,omitempty"`
	Results  []StatementResult `json:"results,omitempty"`
	Missing  []string          `json:"missing,omitempty"` // clarification dimensions
	CacheHit bool              `json:"cache_hit"`
	Error    string            `json:"error,omitempty"`
	LogID    uuid.UUID         `json:"log_id,omitempty"` // chat log entry, for feedback
}
