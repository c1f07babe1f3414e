package sqlfix

import (
	"regexp"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// separatorPass repairs statement separators the generator misplaces.
// The common failure is a semicolon dropped mid-statement before a
// continuation clause, which splits one SELECT into a valid statement
// plus an unparseable fragment. This pass works on raw code text because
// the damaged input does not survive the clause parser.
type separatorPass struct{}

func (separatorPass) Name() string { return "separator-repair" }

var (
	// `; AND`, `; GROUP BY`, ... glue the clause back onto its statement.
	reDanglingClause = regexp.MustCompile(`(?i);[\s\n]*(AND|OR|WHERE|GROUP\s+BY|ORDER\s+BY|HAVING|LIMIT)\b`)
	reDoubledSemis   = regexp.MustCompile(`;[\s\n]*;`)
	reTrailingSemi   = regexp.MustCompile(`;[\s\n]*$`)
)

func (separatorPass) Apply(sqlText string, in nlp.Intent) string {
	out := mapCode(sqlText, func(code string) string {
		for {
			fixed := reDanglingClause.ReplaceAllString(code, " $1")
			fixed = reDoubledSemis.ReplaceAllString(fixed, ";")
			if fixed == code {
				return code
			}
			code = fixed
		}
	})
	// The final terminator is redundant for single statements and trips
	// the per-statement splitter into emitting an empty tail.
	if loc := reTrailingSemi.FindStringIndex(out); loc != nil {
		out = strings.TrimRight(out[:loc[0]], " \t\n")
	}
	return out
}
