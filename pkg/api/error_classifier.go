package api

import (
	"context"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	ErrorSeverityTemporary ErrorSeverity = iota
	ErrorSeverityRetryable
	ErrorSeverityFatal
)

// ErrorClassifier decides whether a failed upstream call may be retried.
type ErrorClassifier interface {
	ClassifyError(err error) ErrorSeverity
	ShouldRetry(err error) bool
}

// UpstreamErrorClassifier classifies provider errors. Auth and request errors
// are fatal; throttling, server errors and transport failures are retryable.
type UpstreamErrorClassifier struct{}

// NewUpstreamErrorClassifier creates new error classifier
func NewUpstreamErrorClassifier() ErrorClassifier {
	return &UpstreamErrorClassifier{}
}

// ClassifyError classifies error by severity level
func (c *UpstreamErrorClassifier) ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityTemporary
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorSeverityFatal
	}
	if errors.Is(err, ErrMissingEndpoint) {
		return ErrorSeverityFatal
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == fasthttp.StatusTooManyRequests:
			return ErrorSeverityRetryable
		case statusErr.Code >= 500:
			return ErrorSeverityRetryable
		default:
			return ErrorSeverityFatal
		}
	}

	if errors.Is(err, fasthttp.ErrTimeout) {
		return ErrorSeverityRetryable
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") {
		return ErrorSeverityFatal
	}

	// Malformed payloads will not fix themselves on a retry
	if strings.Contains(errStr, "failed to decode") {
		return ErrorSeverityFatal
	}

	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "dns") {
		return ErrorSeverityRetryable
	}

	return ErrorSeverityRetryable
}

// ShouldRetry reports whether another attempt is worthwhile
func (c *UpstreamErrorClassifier) ShouldRetry(err error) bool {
	return err != nil && c.ClassifyError(err) != ErrorSeverityFatal
}
