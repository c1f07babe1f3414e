package sqlfix

import (
	"regexp"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// typeFamilyPass moves garment-type filters that landed on the
// family/line column (or family filters that landed on the type column)
// onto the correct descriptive column. When the question resolved an
// article reference, a stray garment-type filter alongside an explicit
// article filter is dropped instead of moved, so article and type
// semantics do not conflict.
type typeFamilyPass struct{}

func (typeFamilyPass) Name() string { return "type-family-disambiguation" }

// reDescFilter matches a single-column text filter like
// DESC_LINEA = 'Jeans' or DESC_TIPO_ARTICULO LIKE '%JEANS%'.
var reDescFilter = regexp.MustCompile(`(?i)^\s*(DESC_LINEA|DESC_TIPO_ARTICULO)\s*(=|LIKE)\s*('(?:[^']|'')*')\s*$`)

func (typeFamilyPass) Apply(sqlText string, in nlp.Intent) string {
	lex := schema.MustLexicon()

	return mapFactStatements(sqlText, func(st *Statement) bool {
		changed := false

		if in.ResolvedField == schema.FieldArticle {
			hasArticleFilter := false
			for _, p := range st.Where {
				if codeContains(p, "DESC_ARTICULO") {
					hasArticleFilter = true
					break
				}
			}
			if hasArticleFilter {
				if st.RemovePredicates(func(p string) bool {
					m := reDescFilter.FindStringSubmatch(p)
					return m != nil && strings.EqualFold(m[1], "DESC_TIPO_ARTICULO") &&
						lex.IsGarmentType(filterValue(m[3]))
				}) {
					changed = true
				}
				return changed
			}
		}

		for i, p := range st.Where {
			m := reDescFilter.FindStringSubmatch(p)
			if m == nil {
				continue
			}
			col, op, lit := strings.ToUpper(m[1]), m[2], m[3]
			value := filterValue(lit)

			switch {
			case col == "DESC_LINEA" && lex.IsGarmentType(value):
				st.Where[i] = "DESC_TIPO_ARTICULO " + op + " " + lit
				changed = true
			case col == "DESC_TIPO_ARTICULO" && lex.IsFamilyValue(value):
				st.Where[i] = "DESC_LINEA " + op + " " + lit
				changed = true
			}
		}
		return changed
	})
}

// filterValue extracts the comparable canonical form of a filter literal:
// quotes and LIKE wildcards stripped, accents folded, uppercased.
func filterValue(lit string) string {
	v := strings.Trim(lit, "'")
	v = strings.ReplaceAll(v, "''", "'")
	v = strings.Trim(v, "%")
	return strings.ToUpper(nlp.FoldAccents(strings.TrimSpace(v)))
}
