package genai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no API key was provided and the
// generation client was never constructed
var ErrNotConfigured = errors.New("generation service not configured")

// FailureReason classifies generation failures for API error mapping
type FailureReason string

const (
	ReasonQuota FailureReason = "quota"
	ReasonAuth  FailureReason = "auth"
	ReasonOther FailureReason = "other"
)

// GenerationError wraps a provider error with a coarse failure reason
type GenerationError struct {
	Reason FailureReason
	Err    error
}

func (e *GenerationError) Error() string {
	switch e.Reason {
	case ReasonQuota:
		return "API quota/rate limit exceeded, please retry later"
	case ReasonAuth:
		return "invalid API key or authentication failure"
	default:
		return fmt.Sprintf("error generating response: %v", e.Err)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Classify maps a raw provider error onto a GenerationError by inspecting
// the message: quota/rate wording means a retryable quota problem, api
// key/authentication wording means a credential problem, anything else is
// opaque.
func Classify(err error) *GenerationError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate"):
		return &GenerationError{Reason: ReasonQuota, Err: err}
	case strings.Contains(msg, "api key") || strings.Contains(msg, "authentication"):
		return &GenerationError{Reason: ReasonAuth, Err: err}
	default:
		return &GenerationError{Reason: ReasonOther, Err: err}
	}
}
