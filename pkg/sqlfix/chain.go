package sqlfix

import (
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// Pass is one corrector rule. Every pass must be idempotent
// (Apply(Apply(s)) == Apply(s)), total over arbitrary input text, and must
// not alter string literal contents except where the rule explicitly
// targets literal normalization.
type Pass interface {
	Name() string
	Apply(sqlText string, in nlp.Intent) string
}

// Chain applies the corrector passes in their required relative order.
// Later passes assume earlier normalization has occurred, but each pass
// is total over whatever text it receives.
type Chain struct {
	passes []Pass
	logger *zap.Logger
}

// NewChain builds the standard corrector chain.
func NewChain(logger *zap.Logger) *Chain {
	return &Chain{
		logger: logger.Named("corrector"),
		passes: []Pass{
			identifierPass{},
			metricsPass{},
			typeFamilyPass{},
			merchandisePass{},
			distCenterPass{},
			brandPass{},
			genderPass{},
			currencyPass{},
			returnsPass{},
			distinctPass{},
			separatorPass{},
			aggregationPass{},
		},
	}
}

// Passes returns the configured passes in order.
func (c *Chain) Passes() []Pass {
	return c.passes
}

// Apply runs the full chain over the draft query.
func (c *Chain) Apply(sqlText string, in nlp.Intent) string {
	for _, p := range c.passes {
		before := sqlText
		sqlText = p.Apply(sqlText, in)
		if sqlText != before {
			c.logger.Debug("corrector pass rewrote query",
				zap.String("pass", p.Name()),
				zap.Int("len_before", len(before)),
				zap.Int("len_after", len(sqlText)))
		}
	}
	return sqlText
}

// mapFactStatements applies fn to every statement that parses as a SELECT
// over the fact table, leaving everything else untouched. fn reports
// whether it modified the statement; unmodified statements keep their
// original text byte for byte.
func mapFactStatements(sqlText string, fn func(*Statement) bool) string {
	return mapStatements(sqlText, func(stmt string) string {
		st, ok := ParseStatement(stmt)
		if !ok || !st.FromFactTable() {
			return stmt
		}
		if !fn(st) {
			return stmt
		}
		return st.String()
	})
}
