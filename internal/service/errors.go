package service

import (
	"strings"

	"github.com/strategia/content-service/internal/ratelimit"
)

// ValidationError carries field-level messages for a 400 response.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// RateLimitError carries the window state for a 429 response. It is never
// produced by a failing backing store, only by an exhausted window.
type RateLimitError struct {
	Result ratelimit.Result
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}
