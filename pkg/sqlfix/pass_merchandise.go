package sqlfix

import (
	"fmt"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// merchandisePass scopes product/article questions to merchandise rows.
// Services and packaging share the fact table and must not count as
// articles unless the user explicitly asked about them.
type merchandisePass struct{}

func (merchandisePass) Name() string { return "merchandise-scoping" }

func (merchandisePass) Apply(sqlText string, in nlp.Intent) string {
	if !in.ArticleIntent || in.ExplicitServiceAsk {
		return sqlText
	}

	return mapFactStatements(sqlText, func(st *Statement) bool {
		changed := false
		whereUpper := strings.ToUpper(st.WhereText())

		// Respect an explicit category filter of any kind.
		if !strings.Contains(whereUpper, "COD_CATEGORIA") {
			if st.AddPredicate(fmt.Sprintf("COD_CATEGORIA = '%s'", schema.CategoryMerchandise)) {
				changed = true
			}
		}

		for _, pattern := range schema.ServiceDescriptionPatterns {
			if strings.Contains(whereUpper, "%"+pattern+"%") {
				continue
			}
			if st.AddPredicate(fmt.Sprintf("DESC_ARTICULO NOT LIKE '%%%s%%'", pattern)) {
				changed = true
			}
		}
		return changed
	})
}
