package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{name: "unauthorized", err: errors.New("status code 401 Unauthorized"), wantType: ErrorTypeAuth, retryable: false},
		{name: "model missing", err: errors.New("model gpt-9 does not exist"), wantType: ErrorTypeModel, retryable: false},
		{name: "not found", err: errors.New("404 page not found"), wantType: ErrorTypeEndpoint, retryable: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantType: ErrorTypeEndpoint, retryable: true},
		{name: "timeout", err: errors.New("context deadline exceeded"), wantType: ErrorTypeEndpoint, retryable: true},
		{name: "rate limited", err: errors.New("429 Too Many Requests"), wantType: ErrorTypeUnknown, retryable: true},
		{name: "server error", err: errors.New("503 Service Unavailable"), wantType: ErrorTypeEndpoint, retryable: true},
		{name: "unknown", err: errors.New("something odd"), wantType: ErrorTypeUnknown, retryable: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyErrorPassesThroughStructured(t *testing.T) {
	orig := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	assert.Same(t, orig, ClassifyError(orig))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrorTypeEndpoint, "request timeout", true, nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
}
