package logging

import (
	"regexp"
)

const (
	// MaxSQLLogLength caps generated SQL in log lines. Full statements are
	// persisted in chat logs, so log lines only need enough for triage.
	MaxSQLLogLength = 300
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx in key/value connection strings
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@tcp(host:port) in go-sql-driver MySQL DSNs
	mysqlDSNPattern = regexp.MustCompile(`[^:@\s]+:[^@]+@tcp\(`)

	// user:pass@host in URL-style connection strings (postgres://...)
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)

	// LLM provider keys: sk-... style tokens and api_key=... pairs
	providerKeyPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9-_]{16,}`)
	apiKeyPattern      = regexp.MustCompile(`(?i)(api[_-]?key|apikey)=[A-Za-z0-9-_]{8,}`)

	// Authorization header values echoed back in provider errors
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)
)

// SanitizeDSN removes credentials from a connection string before logging.
// Handles both MySQL DSNs (user:pass@tcp(host)/db) and URL-style strings.
func SanitizeDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(dsn, "${1}="+RedactedText)
	sanitized = mysqlDSNPattern.ReplaceAllString(sanitized, RedactedText+"@tcp(")
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
	return sanitized
}

// SanitizeError scrubs credentials and provider keys from an error message
// before logging. Driver and provider errors can echo back the DSN or the
// Authorization header that produced them.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = mysqlDSNPattern.ReplaceAllString(sanitized, RedactedText+"@tcp(")
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = providerKeyPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	return sanitized
}

// SanitizeSQL truncates a generated SQL statement for logging.
func SanitizeSQL(query string) string {
	return TruncateString(query, MaxSQLLogLength)
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
