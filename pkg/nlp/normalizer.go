// Package nlp provides the lexical analysis layer of the pipeline: synonym
// normalization onto canonical schema vocabulary, rule-based intent
// detection, and date-key helpers for the fact table's YYYYMMDD encoding.
package nlp

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Tags holds the canonical values detected while normalizing a question.
type Tags struct {
	Gender      string // canonical DESC_GENERO value, empty if none
	Brand       string // canonical DESC_MARCA value
	GarmentType string // canonical DESC_TIPO_ARTICULO value
	Country     string // ENTIDAD code
	Currency    string // MONEDA code
}

// replacement is one synonym pattern with its canonical substitute.
type replacement struct {
	re        *regexp.Regexp
	canonical string // substituted into the text; empty means detect-only
	tag       func(*Tags, string)
}

var (
	replOnce     sync.Once
	replacements []replacement
)

// Normalize maps domain synonyms in the question onto canonical schema
// vocabulary and returns the rewritten text plus detected tags. It is a
// pure function and idempotent: canonical tokens normalize to themselves.
func Normalize(question string) (string, Tags) {
	replOnce.Do(buildReplacements)

	text := FoldAccents(question)
	var tags Tags
	for _, r := range replacements {
		if !r.re.MatchString(text) {
			continue
		}
		if r.tag != nil {
			r.tag(&tags, r.canonical)
		}
		if r.canonical != "" {
			text = r.re.ReplaceAllString(text, r.canonical)
		}
	}
	return text, tags
}

// buildReplacements compiles word-boundary-safe matchers from the lexicon.
// Longer synonyms are compiled first so multiword aliases win over their
// component words.
func buildReplacements() {
	lex := schema.MustLexicon()

	add := func(canonical string, synonyms []string, tag func(*Tags, string)) {
		for _, syn := range synonyms {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(syn) + `\b`)
			replacements = append(replacements, replacement{re: re, canonical: canonical, tag: tag})
		}
	}

	for canonical, syns := range lex.Types {
		add(canonical, syns, func(t *Tags, c string) {
			if t.GarmentType == "" {
				t.GarmentType = c
			}
		})
	}
	for canonical, syns := range lex.Brands {
		add(canonical, syns, func(t *Tags, c string) {
			if t.Brand == "" {
				t.Brand = c
			}
		})
	}
	for canonical, syns := range lex.Genders {
		add(canonical, syns, func(t *Tags, c string) {
			if t.Gender == "" {
				t.Gender = c
			}
		})
	}
	for code, syns := range lex.Countries {
		name := schema.CountryNames[code]
		// Country synonyms are rewritten to the display name, not the code;
		// the code is carried in the tags.
		for _, syn := range syns {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(syn) + `\b`)
			c := code
			replacements = append(replacements, replacement{
				re:        re,
				canonical: name,
				tag: func(t *Tags, _ string) {
					if t.Country == "" {
						t.Country = c
					}
				},
			})
		}
	}
	for code, syns := range lex.Currencies {
		// Detect-only: currency words stay as typed.
		for _, syn := range syns {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(syn) + `\b`)
			c := code
			replacements = append(replacements, replacement{
				re: re,
				tag: func(t *Tags, _ string) {
					if t.Currency == "" {
						t.Currency = c
					}
				},
			})
		}
	}

	// Longest synonym first, then lexicographic for determinism.
	sort.SliceStable(replacements, func(i, j int) bool {
		si, sj := replacements[i].re.String(), replacements[j].re.String()
		if len(si) != len(sj) {
			return len(si) > len(sj)
		}
		return si < sj
	})
}

var accentFold = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U",
	"ñ", "n", "Ñ", "N",
)

// FoldAccents strips Spanish diacritics so matching is accent-insensitive.
func FoldAccents(s string) string {
	return accentFold.Replace(s)
}
