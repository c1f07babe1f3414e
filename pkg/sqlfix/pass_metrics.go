package sqlfix

import (
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// metricsPass replaces references to derived columns that do not exist in
// the fact table with their canonical computed expressions. Margin is
// revenue minus cost; percentage margin divides safely; "monto" and
// "importe" are revenue surrogates. Alias definitions and references to
// aliases the statement itself defines are left alone: a draft that
// already computes the metric under that name is correct as written.
type metricsPass struct{}

func (metricsPass) Name() string { return "derived-metric-substitution" }

const (
	marginExpr    = "(INGRESOS - COSTOS)"
	marginPctExpr = "((INGRESOS - COSTOS) / NULLIF(INGRESOS, 0) * 100)"
)

var metricSubstitutions = map[string]string{
	"MARGEN_PORCENTUAL": marginPctExpr,
	"MARGEN_PORCENTAJE": marginPctExpr,
	"PORCENTAJE_MARGEN": marginPctExpr,
	"PCT_MARGEN":        marginPctExpr,
	"MARGEN":            marginExpr,
	"MONTO":             "INGRESOS",
	"IMPORTE":           "INGRESOS",
}

func (metricsPass) Apply(sqlText string, _ nlp.Intent) string {
	return mapCode(sqlText, substituteMetrics)
}

func substituteMetrics(code string) string {
	aliases := definedAliases(code)

	var b strings.Builder
	last := 0
	prevWord := ""
	for _, loc := range identRe.FindAllStringIndex(code, -1) {
		token := code[loc[0]:loc[1]]
		b.WriteString(code[last:loc[0]])

		upper := strings.ToUpper(token)
		expr, derived := metricSubstitutions[upper]
		if derived && !strings.EqualFold(prevWord, "AS") && !aliases[upper] {
			b.WriteString(expr)
		} else {
			b.WriteString(token)
		}
		prevWord = token
		last = loc[1]
	}
	b.WriteString(code[last:])
	return b.String()
}

// definedAliases collects the upper-cased tokens that follow AS in the
// statement.
func definedAliases(code string) map[string]bool {
	aliases := make(map[string]bool)
	prevWord := ""
	for _, loc := range identRe.FindAllStringIndex(code, -1) {
		token := code[loc[0]:loc[1]]
		if strings.EqualFold(prevWord, "AS") {
			aliases[strings.ToUpper(token)] = true
		}
		prevWord = token
	}
	return aliases
}
