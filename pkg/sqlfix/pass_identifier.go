package sqlfix

import (
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// identifierPass fixes known singular/plural and typo'd column-name
// confusions against the column whitelist. SQL keywords, function names
// and alias definitions are never touched; the similarity fallback is
// deliberately conservative.
type identifierPass struct{}

func (identifierPass) Name() string { return "identifier-correction" }

// identifierConfusions are the known wrong spellings the generator
// produces, mapped to the true column names.
var identifierConfusions = map[string]string{
	"INGRESO":        "INGRESOS",
	"COSTO":          "COSTOS",
	"UNIDAD":         "UNIDADES",
	"FECHAS":         "FECHA",
	"FECHA_VENTA":    "FECHA",
	"DESC_TIENDAS":   "DESC_TIENDA",
	"DESC_ARTICULOS": "DESC_ARTICULO",
	"DESC_GENERICO":  "DESC_LINEA",
	"DESC_TIPO":      "DESC_TIPO_ARTICULO",
	"TIPO_ARTICULO":  "DESC_TIPO_ARTICULO",
	"GENERO":         "DESC_GENERO",
	"MONEDAS":        "MONEDA",
	"ENTIDADES":      "ENTIDAD",
}

// sqlWords are keywords and function names exempt from correction.
var sqlWords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"ORDER": true, "HAVING": true, "LIMIT": true, "OFFSET": true,
	"AND": true, "OR": true, "NOT": true, "IN": true, "IS": true,
	"NULL": true, "LIKE": true, "BETWEEN": true, "AS": true, "ON": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "OUTER": true,
	"DISTINCT": true, "UNION": true, "ALL": true, "ASC": true, "DESC": true,
	"CASE": true, "WHEN": true, "THEN": true, "ELSE": true, "END": true,
	"SUM": true, "COUNT": true, "AVG": true, "MIN": true, "MAX": true,
	"ROUND": true, "ABS": true, "COALESCE": true, "NULLIF": true,
	"CONCAT": true, "SUBSTRING": true, "UPPER": true, "LOWER": true,
	"TRUE": true, "FALSE": true, "EXISTS": true,
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func (identifierPass) Apply(sqlText string, _ nlp.Intent) string {
	return mapCode(sqlText, fixIdentifiers)
}

func fixIdentifiers(code string) string {
	var b strings.Builder
	last := 0
	prevWord := ""
	for _, loc := range identRe.FindAllStringIndex(code, -1) {
		token := code[loc[0]:loc[1]]
		b.WriteString(code[last:loc[0]])

		// Tokens after AS are alias definitions, not column references.
		if strings.EqualFold(prevWord, "AS") {
			b.WriteString(token)
		} else {
			b.WriteString(correctIdentifier(token))
		}
		prevWord = token
		last = loc[1]
	}
	b.WriteString(code[last:])
	return b.String()
}

// correctIdentifier maps one token to its corrected form, or returns it
// unchanged.
func correctIdentifier(token string) string {
	upper := strings.ToUpper(token)

	if sqlWords[upper] || schema.IsColumn(upper) || upper == schema.FactTable {
		return token
	}
	if fixed, ok := identifierConfusions[upper]; ok {
		return fixed
	}
	if len(upper) < 4 {
		return token
	}

	// Singular/plural inflection against the whitelist.
	if plural := strings.ToUpper(inflection.Plural(strings.ToLower(upper))); schema.IsColumn(plural) {
		return plural
	}
	if singular := strings.ToUpper(inflection.Singular(strings.ToLower(upper))); schema.IsColumn(singular) {
		return singular
	}

	// Very-high-threshold similarity fallback: a single near-identical
	// column sharing the first character.
	best, count := "", 0
	for _, col := range schema.ColumnNames() {
		if col[0] != upper[0] {
			continue
		}
		if similarityRatio(upper, col) >= 0.9 {
			best = col
			count++
		}
	}
	if count == 1 {
		return best
	}
	return token
}

// similarityRatio is 1 - levenshtein/maxLen over ASCII identifiers.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
