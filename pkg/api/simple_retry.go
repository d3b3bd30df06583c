package api

import (
	"context"
	"math"
	"time"
)

// SimpleRetry provides bounded retries with exponential backoff
type SimpleRetry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
	classifier        ErrorClassifier
}

// NewSimpleRetry creates a simple retry mechanism
func NewSimpleRetry(maxRetries int, retryDelay time.Duration) *SimpleRetry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SimpleRetry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
		classifier:        NewUpstreamErrorClassifier(),
	}
}

// WithClassifier replaces the error classifier
func (sr *SimpleRetry) WithClassifier(c ErrorClassifier) *SimpleRetry {
	sr.classifier = c
	return sr
}

// Execute runs function with simple retry logic
func (sr *SimpleRetry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= sr.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == sr.maxRetries {
			break
		}

		if !sr.classifier.ShouldRetry(err) {
			return err
		}

		delay := time.Duration(float64(sr.retryDelay) * math.Pow(sr.backoffMultiplier, float64(attempt)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
