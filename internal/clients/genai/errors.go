package genai

import (
	"fmt"
	"time"
)

// HTTPError is any non-2xx response from the generative service. The body
// is carried whole so the caller can log upstream diagnostics. RetryAfter
// is the upstream Retry-After hint when one was sent; the client itself
// never retries.
type HTTPError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("genai http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// previewBytes caps how much raw model output a ParseError carries.
const previewBytes = 240

// ParseError means the service answered 2xx but its output text was not a
// JSON object. Preview holds the head of the raw text for diagnosis.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("genai parse: %v; raw=%s", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

func preview(s string) string {
	if len(s) > previewBytes {
		return s[:previewBytes] + "..."
	}
	return s
}
