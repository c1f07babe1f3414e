package sqlfix

import (
	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// returnsPass excludes return rows from sales-volume questions. VENTAS
// records returns as negative UNIDADES, so a "most sold" ranking without
// the filter lets a heavily returned article sink below articles it
// outsold. Skipped when the query itself reasons about UNIDADES signs,
// which happens for explicit return questions.
type returnsPass struct{}

func (returnsPass) Name() string { return "returns-exclusion" }

func (returnsPass) Apply(sqlText string, in nlp.Intent) string {
	if !in.SalesVolume {
		return sqlText
	}
	return mapFactStatements(sqlText, func(st *Statement) bool {
		for _, p := range st.Where {
			if codeContains(p, "UNIDADES") {
				return false
			}
		}
		return st.AddPredicate("UNIDADES > 0")
	})
}
