package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/draftdesk/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies a generation failure for metrics and logs.
type Kind string

const (
	KindNetwork     Kind = "network"
	KindTimeout     Kind = "timeout"
	KindAuth        Kind = "auth"
	KindRateLimit   Kind = "rate_limit"
	KindUpstream    Kind = "upstream"
	KindMalformed   Kind = "malformed_response"
	KindCircuitOpen Kind = "circuit_open"
)

// GenerationError is returned for every failed completion. It matches
// domain.ErrGeneration with errors.Is.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// FailureKind exposes Kind to callers that only see the error interface.
func (e *GenerationError) FailureKind() string {
	return string(e.Kind)
}

func (e *GenerationError) Unwrap() []error {
	return []error{domain.ErrGeneration, e.Err}
}

// KindOf extracts the failure kind, or "" when err is not a GenerationError.
func KindOf(err error) Kind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

func classify(err error) *GenerationError {
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		return &GenerationError{Kind: KindCircuitOpen, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &GenerationError{Kind: KindTimeout, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GenerationError{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &GenerationError{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}

	return &GenerationError{Kind: KindNetwork, Err: err}
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests || code == http.StatusPaymentRequired:
		return KindRateLimit
	default:
		return KindUpstream
	}
}

// countsAsFailure reports whether an error should trip the breaker. Rejected
// credentials and exhausted quotas are not outages.
func countsAsFailure(kind Kind) bool {
	switch kind {
	case KindAuth, KindRateLimit, KindCircuitOpen:
		return false
	default:
		return true
	}
}
