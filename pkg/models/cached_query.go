package models

import (
	"time"

	"github.com/google/uuid"
)

// CachedQuery is one semantic cache entry: a resolved question, its
// embedding and the SQL that answered it.
type CachedQuery struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"` // fully resolved text
	Embedding []float32 `json:"embedding"`
	SQLQuery  string    `json:"sql_query"`
	HitCount  int       `json:"hit_count"`
	CreatedAt time.Time `json:"created_at"`
	LastHitAt time.Time `json:"last_hit_at"`
}
