// Package repositories provides Postgres data access for the engine
// store: semantic cache entries and chat logs.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neurovia/neurovia-engine/pkg/database"
	"github.com/neurovia/neurovia-engine/pkg/models"
)

// CacheRepository persists semantic cache entries.
type CacheRepository interface {
	ListAll(ctx context.Context) ([]models.CachedQuery, error)
	Insert(ctx context.Context, entry *models.CachedQuery) error
	RecordHit(ctx context.Context, entry *models.CachedQuery) error
}

type cacheRepository struct {
	db *database.DB
}

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(db *database.DB) CacheRepository {
	return &cacheRepository{db: db}
}

var _ CacheRepository = (*cacheRepository)(nil)

// ListAll returns every cache entry. The cache is scanned in full on
// each lookup; similarity scoring happens in the service layer.
func (r *cacheRepository) ListAll(ctx context.Context) ([]models.CachedQuery, error) {
	query := `
		SELECT id, question, embedding, sql_query, hit_count, created_at, last_hit_at
		FROM semantic_cache
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CachedQuery
	for rows.Next() {
		var entry models.CachedQuery
		var embedding []byte
		if err := rows.Scan(&entry.ID, &entry.Question, &embedding, &entry.SQLQuery,
			&entry.HitCount, &entry.CreatedAt, &entry.LastHitAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		if err := json.Unmarshal(embedding, &entry.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache entries: %w", err)
	}
	return entries, nil
}

// Insert stores a new cache entry.
func (r *cacheRepository) Insert(ctx context.Context, entry *models.CachedQuery) error {
	embedding, err := json.Marshal(entry.Embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	query := `
		INSERT INTO semantic_cache (question, embedding, sql_query)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, last_hit_at`

	err = r.db.QueryRow(ctx, query, entry.Question, embedding, entry.SQLQuery).
		Scan(&entry.ID, &entry.CreatedAt, &entry.LastHitAt)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// RecordHit bumps the hit counter and last-hit timestamp.
func (r *cacheRepository) RecordHit(ctx context.Context, entry *models.CachedQuery) error {
	query := `
		UPDATE semantic_cache
		SET hit_count = hit_count + 1, last_hit_at = $2
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, entry.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to record cache hit: %w", err)
	}
	return nil
}
