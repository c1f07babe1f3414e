// Package apperrors defines sentinel errors shared across layers so
// handlers can map them to HTTP status codes without importing
// repository internals.
package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConversationEnd = errors.New("conversation not found or expired")
	ErrQueryBlocked    = errors.New("query blocked by safety gate")
	ErrNoPending       = errors.New("no clarification pending for this conversation")
)
