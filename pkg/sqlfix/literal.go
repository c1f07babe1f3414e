// Package sqlfix contains the deterministic SQL correction layer: a
// clause-aware statement model, an ordered chain of idempotent corrector
// passes that patch generated queries into compliance with the domain's
// business invariants, and the pre-execution safety gate.
package sqlfix

import "strings"

// segment is a run of SQL text that is either code or a single-quoted
// string literal (quotes included). Splitting first lets passes rewrite
// code without ever touching literal contents.
type segment struct {
	text    string
	literal bool
}

// splitLiterals partitions SQL text into code and literal segments.
// SQL-standard doubled quotes ('') inside literals are handled.
func splitLiterals(s string) []segment {
	var segs []segment
	var cur strings.Builder
	inLiteral := false

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if !inLiteral {
			if ch == '\'' {
				if cur.Len() > 0 {
					segs = append(segs, segment{text: cur.String()})
					cur.Reset()
				}
				inLiteral = true
			}
			cur.WriteRune(ch)
			continue
		}
		cur.WriteRune(ch)
		if ch == '\'' {
			// Doubled quote stays inside the literal.
			if i+1 < len(runes) && runes[i+1] == '\'' {
				cur.WriteRune(runes[i+1])
				i++
				continue
			}
			segs = append(segs, segment{text: cur.String(), literal: true})
			cur.Reset()
			inLiteral = false
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, segment{text: cur.String(), literal: inLiteral})
	}
	return segs
}

// joinSegments reassembles segments into SQL text.
func joinSegments(segs []segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.text)
	}
	return b.String()
}

// mapCode applies fn to every code segment, leaving literals untouched.
// This is the non-interference guarantee for text-level passes.
func mapCode(s string, fn func(string) string) string {
	segs := splitLiterals(s)
	for i := range segs {
		if !segs[i].literal {
			segs[i].text = fn(segs[i].text)
		}
	}
	return joinSegments(segs)
}

// literalValues returns the unquoted contents of every string literal.
func literalValues(s string) []string {
	var values []string
	for _, seg := range splitLiterals(s) {
		if seg.literal {
			v := strings.Trim(seg.text, "'")
			values = append(values, strings.ReplaceAll(v, "''", "'"))
		}
	}
	return values
}

// codeContains reports whether the code segments (not literals) contain
// the token, case-insensitively and word-boundary-safe.
func codeContains(s, token string) bool {
	found := false
	mapCode(s, func(code string) string {
		if containsToken(code, token) {
			found = true
		}
		return code
	})
	return found
}

// containsToken reports a word-boundary-safe, case-insensitive token match.
func containsToken(code, token string) bool {
	upper := strings.ToUpper(code)
	token = strings.ToUpper(token)
	for idx := 0; ; {
		i := strings.Index(upper[idx:], token)
		if i < 0 {
			return false
		}
		i += idx
		before := byte(' ')
		if i > 0 {
			before = upper[i-1]
		}
		after := byte(' ')
		if i+len(token) < len(upper) {
			after = upper[i+len(token)]
		}
		if !isWordByte(before) && !isWordByte(after) {
			return true
		}
		idx = i + len(token)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
