package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := NewErrorWithContext(ErrorTypeRateLimit, "rate limited", true, errors.New("slow down"), "gpt-4o", "https://api.openai.com/v1", 429)

	assert.Equal(t, "rate_limit HTTP 429 model=gpt-4o rate limited: slow down", err.Error())
}

func TestError_Error_Minimal(t *testing.T) {
	err := NewError(ErrorTypeResponse, "no choices in response", false, nil)

	assert.Equal(t, "response no choices in response", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := NewError(ErrorTypeUnknown, "llm error", false, cause)

	assert.ErrorIs(t, err, cause)
}

func TestClassifyError_StatusCodes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		message   string
		wantType  ErrorType
		retryable bool
	}{
		{"unauthorized", 401, "Incorrect API key provided", ErrorTypeAuth, false},
		{"forbidden", 403, "forbidden", ErrorTypeAuth, false},
		{"missing model", 404, "The model `gpt-9` does not exist", ErrorTypeModel, false},
		{"missing endpoint", 404, "not here", ErrorTypeEndpoint, false},
		{"rate limited", 429, "too many requests", ErrorTypeRateLimit, true},
		{"server error", 503, "upstream unavailable", ErrorTypeEndpoint, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &openai.APIError{HTTPStatusCode: tt.status, Message: tt.message}

			got := ClassifyError(fmt.Errorf("create completion: %w", apiErr))

			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, tt.status, got.StatusCode)
		})
	}
}

func TestClassifyError_Messages(t *testing.T) {
	tests := []struct {
		msg       string
		wantType  ErrorType
		retryable bool
	}{
		{"dial tcp 127.0.0.1:1: connect: connection refused", ErrorTypeEndpoint, true},
		{"context deadline exceeded", ErrorTypeEndpoint, true},
		{"error, status code: 429, message: anthropic api error type: rate_limit_error", ErrorTypeRateLimit, true},
		{"anthropic api error type: authentication_error, message: invalid x-api-key", ErrorTypeAuth, false},
		{"something odd happened", ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := ClassifyError(errors.New(tt.msg))

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}
}

func TestClassifyError_ParsesStatusFromMessage(t *testing.T) {
	got := ClassifyError(errors.New("error, status code: 529, message: overloaded"))

	assert.Equal(t, 529, got.StatusCode)
	assert.Equal(t, ErrorTypeEndpoint, got.Type)
	assert.True(t, got.Retryable)
}

func TestClassifyError_PassesThroughExisting(t *testing.T) {
	orig := NewError(ErrorTypeModel, "model not found", false, nil)

	got := ClassifyError(fmt.Errorf("wrapped: %w", orig))

	assert.Same(t, orig, got)
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestIsRetryableAndGetErrorType(t *testing.T) {
	retryable := NewError(ErrorTypeRateLimit, "rate limited", true, nil)

	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, ErrorTypeRateLimit, GetErrorType(fmt.Errorf("x: %w", retryable)))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}
