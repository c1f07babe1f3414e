package sqlfix

import (
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// The safety gate is a defense-in-depth backstop, not the primary safety
// boundary: the generator is instructed to produce read-only SQL, and this
// gate statically rejects anything that slipped through.

// denyTokens are the mutating/DDL keywords rejected before execution.
var denyTokens = []string{
	"drop", "delete", "truncate", "alter", "update", "insert", "grant", "revoke",
}

// denyFragments are injection-prone character sequences rejected anywhere
// in the query text.
var denyFragments = []string{"--", "/*"}

// GateResult reports the safety gate's verdict on a query.
type GateResult struct {
	Allowed     bool
	Token       string // denylist hit, if any
	Fingerprint string // libinjection fingerprint when a literal looks injected
}

// CheckQuery scans a query (case-insensitively) for denylisted keywords
// and comment markers, then fingerprints every string literal with
// libinjection. Deny tokens match whole words so column or value text
// containing e.g. "updated_at" is not a false positive; comment markers
// match as substrings.
func CheckQuery(sqlText string) GateResult {
	lower := strings.ToLower(sqlText)

	for _, frag := range denyFragments {
		if strings.Contains(lower, frag) {
			return GateResult{Token: frag}
		}
	}
	for _, token := range denyTokens {
		if containsToken(lower, token) {
			return GateResult{Token: token}
		}
	}

	for _, value := range literalValues(sqlText) {
		if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
			return GateResult{Fingerprint: string(fingerprint)}
		}
	}

	return GateResult{Allowed: true}
}
