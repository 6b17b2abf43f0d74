package utils

import (
	"errors"
	"fmt"
)

// UpstreamError is a provider-level failure: the provider answered, but with a
// status other than OK (REQUEST_DENIED, OVER_QUERY_LIMIT, NOT_FOUND, ...).
type UpstreamError struct {
	Service string
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s status %s: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s status %s", e.Service, e.Status)
}

// UserMessage prefers the provider's own message and falls back to the status code.
func (e *UpstreamError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

func NewUpstreamError(service, status, message string) error {
	return &UpstreamError{Service: service, Status: status, Message: message}
}

func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream, true
	}
	return nil, false
}
