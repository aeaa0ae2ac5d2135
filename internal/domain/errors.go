package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited        = errors.New("daily review limit reached")
	ErrGatewayUnavailable = errors.New("webhook unavailable")
	ErrMalformedPayload   = errors.New("malformed webhook payload")
	ErrInvalidID          = errors.New("invalid review id")
	ErrNotFound           = errors.New("review not found")
)

// MalformedPayloadError carries the JSON parser diagnostic for a webhook body
// that could not be parsed after sanitizing.
type MalformedPayloadError struct{ Err error }

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("Invalid JSON from webhook: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

// Kind returns a short label for err, used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrGatewayUnavailable):
		return "gateway_unavailable"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// RateLimitError reports that the daily generation cap is used up.
type RateLimitError struct{ Limit int }

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Daily limit reached. Only %d reviews allowed per day.", e.Limit)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }
