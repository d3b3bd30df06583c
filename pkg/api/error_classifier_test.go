package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/valyala/fasthttp"
)

func TestUpstreamErrorClassifier_ClassifyError(t *testing.T) {
	classifier := NewUpstreamErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorSeverity
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: ErrorSeverityTemporary,
		},
		{
			name:     "status 429",
			err:      &StatusError{Provider: "serp", Code: 429},
			expected: ErrorSeverityRetryable,
		},
		{
			name:     "status 503 wrapped",
			err:      fmt.Errorf("fetch: %w", &StatusError{Provider: "trends", Code: 503}),
			expected: ErrorSeverityRetryable,
		},
		{
			name:     "status 401",
			err:      &StatusError{Provider: "history", Code: 401},
			expected: ErrorSeverityFatal,
		},
		{
			name:     "status 404",
			err:      &StatusError{Provider: "history", Code: 404},
			expected: ErrorSeverityFatal,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			expected: ErrorSeverityFatal,
		},
		{
			name:     "context deadline wrapped",
			err:      fmt.Errorf("serp request failed: %w", context.DeadlineExceeded),
			expected: ErrorSeverityFatal,
		},
		{
			name:     "missing endpoint",
			err:      ErrMissingEndpoint,
			expected: ErrorSeverityFatal,
		},
		{
			name:     "fasthttp timeout",
			err:      fmt.Errorf("serp request failed: %w", fasthttp.ErrTimeout),
			expected: ErrorSeverityRetryable,
		},
		{
			name:     "decode failure",
			err:      errors.New("failed to decode serp response: unexpected EOF"),
			expected: ErrorSeverityFatal,
		},
		{
			name:     "forbidden text",
			err:      errors.New("Forbidden"),
			expected: ErrorSeverityFatal,
		},
		{
			name:     "connection error",
			err:      errors.New("connection refused"),
			expected: ErrorSeverityRetryable,
		},
		{
			name:     "unknown error",
			err:      errors.New("something odd"),
			expected: ErrorSeverityRetryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.ClassifyError(tt.err); got != tt.expected {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestUpstreamErrorClassifier_ShouldRetry(t *testing.T) {
	classifier := NewUpstreamErrorClassifier()

	if classifier.ShouldRetry(nil) {
		t.Error("Expected nil error not to be retried")
	}
	if !classifier.ShouldRetry(&StatusError{Code: 500}) {
		t.Error("Expected 500 to be retried")
	}
	if classifier.ShouldRetry(&StatusError{Code: 400}) {
		t.Error("Expected 400 not to be retried")
	}
}
