package sqlfix

import (
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Projection analysis for corrector passes and the semantic cache's
// structural compatibility check. Regex-free: works on the clause model
// and the code/literal split.

// ProjectionExprs returns the top-level SELECT-list expressions of the
// first SELECT statement in the text. Returns nil when the text is not a
// parseable SELECT.
func ProjectionExprs(sqlText string) []string {
	stmts := SplitStatements(sqlText)
	if len(stmts) == 0 {
		return nil
	}
	st, ok := ParseStatement(stmts[0])
	if !ok {
		return nil
	}
	return splitExprList(st.SelectList)
}

// splitExprList splits a comma-separated expression list at paren depth
// zero, outside literals.
func splitExprList(list string) []string {
	var exprs []string
	last := 0
	scanTopLevel(list, func(_ string, i int) {
		if list[i] == ',' && i >= last {
			if e := strings.TrimSpace(list[last:i]); e != "" {
				exprs = append(exprs, e)
			}
			last = i + 1
		}
	})
	if e := strings.TrimSpace(list[last:]); e != "" {
		exprs = append(exprs, e)
	}
	return exprs
}

// HasMonetaryProjection reports whether any projected expression involves
// a monetary column per the static schema tags. Derived metrics count,
// since they expand to INGRESOS/COSTOS arithmetic.
func HasMonetaryProjection(sqlText string) bool {
	for _, expr := range ProjectionExprs(sqlText) {
		for _, col := range schema.Columns {
			if col.Tag == schema.TagMonetary && codeContains(expr, col.Name) {
				return true
			}
		}
	}
	return false
}

// HasAggregateProjection reports whether the SELECT list applies an
// aggregate function.
func HasAggregateProjection(selectList string) bool {
	for _, fn := range []string{"SUM", "COUNT", "AVG", "MIN", "MAX"} {
		if containsToken(selectList, fn) {
			return true
		}
	}
	return false
}

// ReferencesColumn reports whether the SQL's code (not its literals)
// references the given column.
func ReferencesColumn(sqlText, column string) bool {
	return codeContains(sqlText, column)
}

// HasGroupBy reports whether any statement in the text carries a GROUP BY.
func HasGroupBy(sqlText string) bool {
	for _, stmt := range SplitStatements(sqlText) {
		if st, ok := ParseStatement(stmt); ok && st.GroupBy != "" {
			return true
		}
		// Fall back to a token scan for shapes the model rejects.
		if codeContains(stmt, "GROUP") && codeContains(stmt, "BY") {
			return true
		}
	}
	return false
}
