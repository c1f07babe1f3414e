package sqlfix

import (
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// distCenterPass injects the distribution-center exclusion into every
// fact-table query that does not already carry it. Distribution centers
// share the store description column but must never count as stores,
// unless the question explicitly asked to include them.
type distCenterPass struct{}

func (distCenterPass) Name() string { return "distribution-center-exclusion" }

func (distCenterPass) Apply(sqlText string, in nlp.Intent) string {
	if in.IncludeDistCenters {
		return sqlText
	}

	return mapFactStatements(sqlText, func(st *Statement) bool {
		changed := false
		whereUpper := strings.ToUpper(st.WhereText())

		for _, pred := range schema.DistributionCenterExclusions {
			// The quoted value identifies the predicate when the draft
			// already carries it.
			marker := pred[strings.Index(pred, "'"):]
			if strings.Contains(whereUpper, marker) {
				continue
			}
			if st.AddPredicate(pred) {
				changed = true
			}
		}
		return changed
	})
}
