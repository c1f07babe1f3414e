package sqlfix

import (
	"regexp"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Statement is a minimal clause-aware model of a single SELECT statement.
// Corrector passes operate on clauses and predicates instead of raw text,
// which makes predicate injection and removal idempotent by construction.
type Statement struct {
	Distinct   bool
	SelectList string
	From       string
	Where      []string // top-level AND-connected predicates
	GroupBy    string
	Having     string
	OrderBy    string
	Limit      string
}

// clause keywords in the order they may appear after the select list.
var clauseKeywords = []string{"FROM", "WHERE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT"}

// ParseStatement parses a single SELECT statement into its clause model.
// Returns ok=false for anything it cannot faithfully rebuild (non-SELECT
// text, subquery-only FROM edge cases it does not model); passes must
// treat that as "leave input unchanged".
func ParseStatement(sql string) (st *Statement, ok bool) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if !hasPrefixToken(text, "SELECT") {
		return nil, false
	}
	rest := strings.TrimSpace(text[len("SELECT"):])

	st = &Statement{}
	if hasPrefixToken(rest, "DISTINCT") {
		st.Distinct = true
		rest = strings.TrimSpace(rest[len("DISTINCT"):])
	}

	// Locate top-level clause keyword positions (outside literals/parens).
	positions := make(map[string]int)
	order := make([]string, 0, len(clauseKeywords))
	scanTopLevel(rest, func(upper string, i int) {
		for _, kw := range clauseKeywords {
			if _, seen := positions[kw]; seen {
				continue
			}
			if matchKeywordAt(upper, i, kw) {
				positions[kw] = i
				order = append(order, kw)
			}
		}
	})
	if _, hasFrom := positions["FROM"]; !hasFrom {
		return nil, false
	}

	// Clause text runs from its keyword to the next keyword present.
	clauseText := func(kw string) string {
		start, present := positions[kw]
		if !present {
			return ""
		}
		end := len(rest)
		for _, other := range clauseKeywords {
			if p, seen := positions[other]; seen && p > start && p < end {
				end = p
			}
		}
		return strings.TrimSpace(rest[start+len(kw) : end])
	}

	st.SelectList = strings.TrimSpace(rest[:positions["FROM"]])
	st.From = clauseText("FROM")
	st.GroupBy = clauseText("GROUP BY")
	st.Having = clauseText("HAVING")
	st.OrderBy = clauseText("ORDER BY")
	st.Limit = clauseText("LIMIT")

	if whereText := clauseText("WHERE"); whereText != "" {
		st.Where = splitPredicates(whereText)
	}

	if st.SelectList == "" || st.From == "" {
		return nil, false
	}
	return st, true
}

// String rebuilds the statement deterministically. Reparsing the output
// yields the same model, which is what keeps statement-level passes
// idempotent.
func (st *Statement) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if st.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(st.SelectList)
	b.WriteString(" FROM ")
	b.WriteString(st.From)
	if len(st.Where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(st.Where, " AND "))
	}
	if st.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(st.GroupBy)
	}
	if st.Having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(st.Having)
	}
	if st.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(st.OrderBy)
	}
	if st.Limit != "" {
		b.WriteString(" LIMIT ")
		b.WriteString(st.Limit)
	}
	return b.String()
}

// FromFactTable reports whether the statement selects from the fact table
// (directly or with an alias).
func (st *Statement) FromFactTable() bool {
	return containsToken(st.From, schema.FactTable)
}

// HasPredicate reports whether a predicate equivalent to p (whitespace and
// case-insensitive outside literals) is already present.
func (st *Statement) HasPredicate(p string) bool {
	want := normalizePredicate(p)
	for _, existing := range st.Where {
		if normalizePredicate(existing) == want {
			return true
		}
	}
	return false
}

// AddPredicate appends a predicate unless an equivalent one exists.
// Reports whether the statement changed.
func (st *Statement) AddPredicate(p string) bool {
	if st.HasPredicate(p) {
		return false
	}
	st.Where = append(st.Where, p)
	return true
}

// RemovePredicates drops every predicate for which match returns true.
// Reports whether the statement changed.
func (st *Statement) RemovePredicates(match func(string) bool) bool {
	kept := st.Where[:0]
	changed := false
	for _, p := range st.Where {
		if match(p) {
			changed = true
			continue
		}
		kept = append(kept, p)
	}
	st.Where = kept
	return changed
}

// WhereText returns the reassembled WHERE clause, empty if none.
func (st *Statement) WhereText() string {
	return strings.Join(st.Where, " AND ")
}

// splitPredicates splits a WHERE clause on top-level ANDs. A top-level OR
// makes the whole clause one opaque predicate, since splitting would
// change semantics.
func splitPredicates(whereText string) []string {
	topOR := false
	scanTopLevel(whereText, func(upper string, i int) {
		if matchKeywordAt(upper, i, "OR") {
			topOR = true
		}
	})
	if topOR {
		return []string{strings.TrimSpace(whereText)}
	}

	var preds []string
	last := 0
	scanTopLevel(whereText, func(upper string, i int) {
		if matchKeywordAt(upper, i, "AND") && i >= last {
			if p := strings.TrimSpace(whereText[last:i]); p != "" {
				preds = append(preds, p)
			}
			last = i + len("AND")
		}
	})
	if p := strings.TrimSpace(whereText[last:]); p != "" {
		preds = append(preds, p)
	}
	return preds
}

// scanTopLevel invokes fn(upperText, i) for every index at paren depth
// zero outside string literals.
func scanTopLevel(s string, fn func(upper string, i int)) {
	upper := strings.ToUpper(s)
	depth := 0
	inLiteral := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inLiteral {
			if ch == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
					continue
				}
				inLiteral = false
			}
			continue
		}
		switch ch {
		case '\'':
			inLiteral = true
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 {
				fn(upper, i)
			}
		}
	}
}

// matchKeywordAt reports whether the keyword starts at i on a word
// boundary. Multiword keywords ("GROUP BY") tolerate any run of spaces.
func matchKeywordAt(upper string, i int, keyword string) bool {
	if i > 0 && isWordByte(upper[i-1]) {
		return false
	}
	words := strings.Fields(keyword)
	pos := i
	for w, word := range words {
		if !strings.HasPrefix(upper[pos:], word) {
			return false
		}
		pos += len(word)
		if w < len(words)-1 {
			j := pos
			for j < len(upper) && (upper[j] == ' ' || upper[j] == '\t' || upper[j] == '\n') {
				j++
			}
			if j == pos {
				return false
			}
			pos = j
		}
	}
	return pos >= len(upper) || !isWordByte(upper[pos])
}

func hasPrefixToken(s, token string) bool {
	if len(s) < len(token) || !strings.EqualFold(s[:len(token)], token) {
		return false
	}
	return len(s) == len(token) || !isWordByte(s[len(token)])
}

var wsCollapse = regexp.MustCompile(`\s+`)

// normalizePredicate canonicalizes a predicate for comparison: code
// uppercased, whitespace collapsed, literals untouched.
func normalizePredicate(p string) string {
	p = mapCode(p, func(code string) string {
		return strings.ToUpper(code)
	})
	return strings.TrimSpace(wsCollapse.ReplaceAllString(p, " "))
}

// SplitStatements splits SQL text on top-level semicolons. Empty segments
// are dropped.
func SplitStatements(text string) []string {
	var stmts []string
	var cur strings.Builder
	inLiteral := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inLiteral {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(text) && text[i+1] == '\'' {
					cur.WriteByte(text[i+1])
					i++
					continue
				}
				inLiteral = false
			}
			continue
		}
		switch ch {
		case '\'':
			inLiteral = true
			cur.WriteByte(ch)
		case ';':
			if s := strings.TrimSpace(cur.String()); s != "" {
				stmts = append(stmts, s)
			}
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// mapStatements applies fn to each top-level statement and rejoins them.
// If no statement changed, the original text is returned byte for byte.
func mapStatements(text string, fn func(string) string) string {
	stmts := SplitStatements(text)
	changed := false
	for i, s := range stmts {
		out := fn(s)
		if out != s {
			changed = true
		}
		stmts[i] = out
	}
	if !changed {
		return text
	}
	return strings.Join(stmts, ";\n")
}
