package sqlfix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// brandPass enforces that brand mentions filter the brand column. The
// generator sometimes satisfies a brand mention through store or type
// name matching; those misapplied filters are removed and a proper
// DESC_MARCA filter is guaranteed.
type brandPass struct{}

func (brandPass) Name() string { return "brand-enforcement" }

// columns the generator misdirects brand filters onto.
var brandMisappliedCols = []string{"DESC_TIENDA", "DESC_TIPO_ARTICULO", "DESC_ARTICULO", "DESC_LINEA"}

var reNotLike = regexp.MustCompile(`(?i)\bNOT\s+LIKE\b`)

func (brandPass) Apply(sqlText string, in nlp.Intent) string {
	if in.Brand == "" {
		return sqlText
	}
	brand := strings.ToUpper(in.Brand)

	return mapFactStatements(sqlText, func(st *Statement) bool {
		changed := false

		if st.RemovePredicates(func(p string) bool {
			if codeContains(p, "DESC_MARCA") || reNotLike.MatchString(p) {
				return false
			}
			onMisapplied := false
			for _, col := range brandMisappliedCols {
				if codeContains(p, col) {
					onMisapplied = true
					break
				}
			}
			if !onMisapplied {
				return false
			}
			for _, v := range literalValues(p) {
				if strings.Contains(strings.ToUpper(nlp.FoldAccents(v)), brand) {
					return true
				}
			}
			return false
		}) {
			changed = true
		}

		hasBrandFilter := false
		for _, p := range st.Where {
			if codeContains(p, "DESC_MARCA") {
				hasBrandFilter = true
				break
			}
		}
		if !hasBrandFilter {
			if st.AddPredicate(fmt.Sprintf("DESC_MARCA = '%s'", in.Brand)) {
				changed = true
			}
		}
		return changed
	})
}
