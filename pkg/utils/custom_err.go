package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrSessionNotFound        = errors.New("map session not found")
	ErrSessionClosed          = errors.New("map session closed")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrUpstreamUnavailable    = errors.New("upstream unavailable")
	ErrDatabaseError          = errors.New("database error")
)
