package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := NewError(KindUpstream, "list plans", errors.New("status 503"))

	assert.Equal(t, "list plans: upstream: status 503", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewError(KindInternal, "op", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "provider detail wins",
			err:      &Error{Kind: KindProviderRejected, Op: "exchange", Detail: "AADSTS70008: code expired"},
			expected: "AADSTS70008: code expired",
		},
		{
			name:     "provider rejection without detail",
			err:      NewError(KindProviderRejected, "exchange", nil),
			expected: "Failed to acquire token",
		},
		{
			name:     "upstream hides cause",
			err:      NewError(KindUpstream, "list plans", errors.New("dial tcp: secret-host")),
			expected: "Failed to fetch tasks from Microsoft Graph",
		},
		{
			name:     "unclassified error",
			err:      errors.New("nil pointer"),
			expected: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PublicMessage(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "invalid_state", KindInvalidState.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
