// Package cache implements the semantic query cache: resolved questions
// are embedded, and a new question reuses a stored SQL query when its
// embedding is close enough and the stored query is structurally
// compatible with the question's intent.
package cache

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/llm"
	"github.com/neurovia/neurovia-engine/pkg/models"
	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// DefaultThreshold is the minimum cosine similarity for a cache hit.
const DefaultThreshold = 0.95

// Repository is the persistence surface the cache needs.
type Repository interface {
	ListAll(ctx context.Context) ([]models.CachedQuery, error)
	Insert(ctx context.Context, entry *models.CachedQuery) error
	RecordHit(ctx context.Context, entry *models.CachedQuery) error
}

// Cache is the semantic cache service. Every failure path degrades to a
// cache miss; the cache must never take the pipeline down.
type Cache struct {
	repo           Repository
	embedder       llm.LLMClient
	embeddingModel string
	threshold      float64
	logger         *zap.Logger
}

// New creates a semantic cache. A threshold of 0 selects DefaultThreshold.
func New(repo Repository, embedder llm.LLMClient, embeddingModel string, threshold float64, logger *zap.Logger) *Cache {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Cache{
		repo:           repo,
		embedder:       embedder,
		embeddingModel: embeddingModel,
		threshold:      threshold,
		logger:         logger.Named("cache"),
	}
}

// Lookup searches for a stored query answering the resolved question.
// On a hit it returns the SQL and the question's embedding; on a miss the
// embedding (when available) is returned so the caller can Store without
// re-embedding.
func (c *Cache) Lookup(ctx context.Context, question string, in nlp.Intent) (sql string, embedding []float32, hit bool) {
	embedding, err := c.embedder.CreateEmbedding(ctx, question, c.embeddingModel)
	if err != nil {
		c.logger.Warn("embedding failed, treating as cache miss", zap.Error(err))
		return "", nil, false
	}

	entries, err := c.repo.ListAll(ctx)
	if err != nil {
		c.logger.Warn("cache scan failed, treating as cache miss", zap.Error(err))
		return "", embedding, false
	}

	var best *models.CachedQuery
	bestSim := 0.0
	for i := range entries {
		sim := cosine(embedding, entries[i].Embedding)
		if sim > bestSim {
			bestSim = sim
			best = &entries[i]
		}
	}

	if best == nil || bestSim < c.threshold {
		return "", embedding, false
	}
	if !Compatible(in, best.SQLQuery) {
		c.logger.Debug("cache candidate rejected as incompatible",
			zap.Float64("similarity", bestSim),
			zap.String("cached_question", best.Question))
		return "", embedding, false
	}

	if err := c.repo.RecordHit(ctx, best); err != nil {
		c.logger.Warn("cache hit bookkeeping failed", zap.Error(err))
	}
	c.logger.Info("semantic cache hit",
		zap.Float64("similarity", bestSim),
		zap.String("cached_question", best.Question))
	return best.SQLQuery, embedding, true
}

// Store saves a question/SQL pair after successful generation and
// execution. Failures are logged and swallowed.
func (c *Cache) Store(ctx context.Context, question, sql string, embedding []float32) {
	if len(embedding) == 0 {
		var err error
		embedding, err = c.embedder.CreateEmbedding(ctx, question, c.embeddingModel)
		if err != nil {
			c.logger.Warn("embedding failed, skipping cache store", zap.Error(err))
			return
		}
	}
	entry := &models.CachedQuery{
		Question:  question,
		Embedding: embedding,
		SQLQuery:  sql,
	}
	if err := c.repo.Insert(ctx, entry); err != nil {
		c.logger.Warn("cache store failed", zap.Error(err))
	}
}

// cosine computes cosine similarity in float64. Mismatched or empty
// vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
