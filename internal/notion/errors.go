// ABOUTME: Errors returned by the Notion client
// ABOUTME: API error decoding and the retryable classification
package notion

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMissingToken indicates the client was built without an integration token.
var ErrMissingToken = errors.New("notion token is required")

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status     int           `json:"status"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s (status %d): %s", e.Code, e.Status, e.Message)
}

// Retryable reports whether the request may succeed if sent again:
// rate limiting, conflicts and server-side failures.
func (e *APIError) Retryable() bool {
	switch {
	case e.Status == http.StatusTooManyRequests:
		return true
	case e.Status == http.StatusConflict:
		return true
	case e.Status >= 500:
		return true
	}
	return false
}

// IsNotFound reports whether err is a Notion object_not_found response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
