package sqlfix

import (
	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// currencyPass drops MONEDA filters from statements that project no
// monetary column. Unit counts and rankings are currency independent,
// and a leftover currency filter silently discards rows recorded in the
// other countries' currencies.
type currencyPass struct{}

func (currencyPass) Name() string { return "currency-relevance" }

func (currencyPass) Apply(sqlText string, in nlp.Intent) string {
	return mapFactStatements(sqlText, func(st *Statement) bool {
		if projectsMonetary(st) {
			return false
		}
		return st.RemovePredicates(func(p string) bool {
			return codeContains(p, "MONEDA")
		})
	})
}

func projectsMonetary(st *Statement) bool {
	for _, expr := range splitExprList(st.SelectList) {
		for _, col := range schema.Columns {
			if col.Tag == schema.TagMonetary && codeContains(expr, col.Name) {
				return true
			}
		}
	}
	return false
}
