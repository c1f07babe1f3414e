package sqlfix

import (
	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// distinctPass deduplicates membership-style answers. "Which stores sell
// brand X" over a denormalized fact table yields one row per sale line;
// a plain SELECT returns the same store thousands of times. Aggregated or
// grouped statements already collapse rows and are left alone.
type distinctPass struct{}

func (distinctPass) Name() string { return "distinct-membership" }

func (distinctPass) Apply(sqlText string, in nlp.Intent) string {
	if !in.Belonging {
		return sqlText
	}
	return mapFactStatements(sqlText, func(st *Statement) bool {
		if st.Distinct || st.GroupBy != "" || HasAggregateProjection(st.SelectList) {
			return false
		}
		st.Distinct = true
		return true
	})
}
