package api

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBody       = errors.New("upstream returned an empty body")
	ErrMissingEndpoint = errors.New("upstream endpoint is not configured")
)

// StatusError is returned when an upstream answers with a non-200 status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, body)
}
