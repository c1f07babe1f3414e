package sqlfix

import (
	"regexp"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// aggregationPass fixes the counted-what confusion. Questions about how
// much was bought ask for units moved, but the generator tends to count
// rows or documents instead, which undercounts multi-unit lines. When the
// question explicitly asks for transactions the counts stand as written.
type aggregationPass struct{}

func (aggregationPass) Name() string { return "aggregation-target" }

var reRowCount = regexp.MustCompile(`(?i)\bCOUNT\s*\(\s*(?:\*|(?:DISTINCT\s+)?NUMERO_DOCUMENTO)\s*\)`)

func (aggregationPass) Apply(sqlText string, in nlp.Intent) string {
	if !in.BuyerVolume || in.TransactionCount {
		return sqlText
	}
	return mapCode(sqlText, func(code string) string {
		return reRowCount.ReplaceAllString(code, "SUM(UNIDADES)")
	})
}
