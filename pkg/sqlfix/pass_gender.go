package sqlfix

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// genderPass enforces a resolved gender on the gender column. A known
// generator bug class filters gender words against article or type text
// instead; those predicates are removed. This is the one pass allowed to
// normalize literal contents: an existing DESC_GENERO filter is rewritten
// to the canonical value.
type genderPass struct{}

func (genderPass) Name() string { return "gender-enforcement" }

var (
	genderWordsOnce sync.Once
	genderWords     []string
)

// genderVocabulary returns every gender word, canonical values included,
// uppercased and accent-folded.
func genderVocabulary() []string {
	genderWordsOnce.Do(func() {
		lex := schema.MustLexicon()
		for canonical, syns := range lex.Genders {
			genderWords = append(genderWords, strings.ToUpper(nlp.FoldAccents(canonical)))
			for _, s := range syns {
				genderWords = append(genderWords, strings.ToUpper(nlp.FoldAccents(s)))
			}
		}
	})
	return genderWords
}

var reGenderFilter = regexp.MustCompile(`(?i)^\s*DESC_GENERO\s*(=|LIKE)\s*('(?:[^']|'')*')\s*$`)

// columns the generator misapplies gender words onto.
var genderMisappliedCols = []string{"DESC_ARTICULO", "DESC_TIPO_ARTICULO", "DESC_LINEA"}

func (genderPass) Apply(sqlText string, in nlp.Intent) string {
	if in.Gender == "" {
		return sqlText
	}

	return mapFactStatements(sqlText, func(st *Statement) bool {
		changed := false

		if st.RemovePredicates(func(p string) bool {
			if codeContains(p, "DESC_GENERO") || reNotLike.MatchString(p) {
				return false
			}
			onMisapplied := false
			for _, col := range genderMisappliedCols {
				if codeContains(p, col) {
					onMisapplied = true
					break
				}
			}
			if !onMisapplied {
				return false
			}
			for _, v := range literalValues(p) {
				folded := strings.ToUpper(nlp.FoldAccents(v))
				for _, w := range genderVocabulary() {
					if containsToken(folded, w) {
						return true
					}
				}
			}
			return false
		}) {
			changed = true
		}

		hasGenderFilter := false
		for i, p := range st.Where {
			if m := reGenderFilter.FindStringSubmatch(p); m != nil {
				hasGenderFilter = true
				canonical := fmt.Sprintf("DESC_GENERO = '%s'", in.Gender)
				if normalizePredicate(p) != normalizePredicate(canonical) {
					st.Where[i] = canonical
					changed = true
				}
			} else if codeContains(p, "DESC_GENERO") {
				hasGenderFilter = true
			}
		}
		if !hasGenderFilter {
			if st.AddPredicate(fmt.Sprintf("DESC_GENERO = '%s'", in.Gender)) {
				changed = true
			}
		}
		return changed
	})
}
