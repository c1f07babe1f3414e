package conversation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Resolution is the outcome of anaphora resolution: the rewritten question
// plus which canonical field (if any) was the resolution target. The target
// is consumed downstream to suppress conflicting type-vs-article
// enforcement.
type Resolution struct {
	Question string
	Field    schema.Field
	Value    string
}

// Demonstrative phrases for the explicitly named dimensions. Plural store
// and article forms are handled separately because they resolve against
// the store list and the last top-row tuple.
var singularRefs = []struct {
	re    *regexp.Regexp
	field schema.Field
}{
	{regexp.MustCompile(`(?i)\b(esa|esta|dicha)\s+(tienda|sucursal)\b|\b(ese|este|dicho)\s+local\b`), schema.FieldStore},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+canal\b`), schema.FieldChannel},
	{regexp.MustCompile(`(?i)\b(esa|esta|dicha)\s+marca\b`), schema.FieldBrand},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+(articulo|producto)\b`), schema.FieldArticle},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+tipo\b`), schema.FieldType},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+genero\b`), schema.FieldGender},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+pais\b`), schema.FieldCountry},
	{regexp.MustCompile(`(?i)\b(ese|este|dicho)\s+cliente\b`), schema.FieldCustomer},
}

var (
	rePluralStores   = regexp.MustCompile(`(?i)\b(esas|estas|dichas)\s+(tiendas|sucursales)\b|\b(esos|estos|dichos)\s+locales\b`)
	rePluralArticles = regexp.MustCompile(`(?i)\b(esos|estos|dichos)\s+(articulos|productos)\b`)
	// Fallback demonstrative + noun for pronouns that name neither a known
	// dimension nor a plural referent ("ese pin").
	reGenericRef = regexp.MustCompile(`(?i)\b(ese|esa|este|esta)\s+([a-z]+)\b`)
)

var knownHeads = map[string]bool{
	"tienda": true, "sucursal": true, "local": true, "canal": true,
	"marca": true, "articulo": true, "producto": true, "tipo": true,
	"genero": true, "pais": true, "cliente": true,
}

// Resolve rewrites anaphoric phrases in the normalized question into
// concrete, SQL-escaped values from the context store, appending a
// machine-readable filter annotation for each substitution. Unresolvable
// references are left untouched for the generator to interpret.
func Resolve(question string, state *State) Resolution {
	res := Resolution{Question: question}

	// Plural referents rewrite to an explicit inclusion set rather than a
	// literal substitution, to avoid recreating multi-way ambiguity.
	if rePluralStores.MatchString(res.Question) {
		if stores := state.StoreList(); len(stores) > 0 {
			quoted := make([]string, len(stores))
			for i, s := range stores {
				quoted[i] = "'" + escape(s) + "'"
			}
			annotation := fmt.Sprintf("[filtro: %s IN (%s)]",
				schema.FieldColumn(schema.FieldStore), strings.Join(quoted, ", "))
			res.Question = rePluralStores.ReplaceAllString(res.Question, "las tiendas indicadas")
			res.Question = appendAnnotation(res.Question, annotation)
			res.Field = schema.FieldStore
		}
	}

	if rePluralArticles.MatchString(res.Question) {
		if top, ok := state.LastTop(); ok {
			annotation := fmt.Sprintf("[filtro: FECHA = %d AND %s = '%s']",
				top.DateKey, schema.FieldColumn(schema.FieldStore), escape(top.Store))
			res.Question = rePluralArticles.ReplaceAllString(res.Question, "los articulos indicados")
			res.Question = appendAnnotation(res.Question, annotation)
			res.Field = schema.FieldArticle
		}
	}

	for _, ref := range singularRefs {
		if !ref.re.MatchString(res.Question) {
			continue
		}
		value, ok := state.Get(ref.field)
		if !ok {
			continue
		}
		res.Question = substitute(res.Question, ref.re, ref.field, value)
		res.Field = ref.field
		res.Value = value
	}

	// Ambiguous demonstrative ("ese pin"): article resolution takes
	// precedence over type resolution.
	if res.Field == "" {
		if m := reGenericRef.FindStringSubmatch(res.Question); m != nil && !knownHeads[strings.ToLower(m[2])] {
			if value, ok := state.Get(schema.FieldArticle); ok {
				res.Question = substitute(res.Question, reGenericRef, schema.FieldArticle, value)
				res.Field = schema.FieldArticle
				res.Value = value
			} else if value, ok := state.Get(schema.FieldType); ok {
				res.Question = substitute(res.Question, reGenericRef, schema.FieldType, value)
				res.Field = schema.FieldType
				res.Value = value
			}
		}
	}

	return res
}

// substitute replaces the anaphoric phrase with the quoted concrete value
// and appends the filter annotation guiding downstream generation.
func substitute(question string, re *regexp.Regexp, field schema.Field, value string) string {
	quoted := "'" + escape(value) + "'"
	question = re.ReplaceAllString(question, quoted)
	annotation := fmt.Sprintf("[filtro: %s = %s]", schema.FieldColumn(field), quoted)
	return appendAnnotation(question, annotation)
}

// appendAnnotation appends an annotation once; re-resolving an already
// annotated question must not duplicate it.
func appendAnnotation(question, annotation string) string {
	if strings.Contains(question, annotation) {
		return question
	}
	return strings.TrimSpace(question) + " " + annotation
}

// escape doubles single quotes for safe SQL literal embedding.
func escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
