// ABOUTME: Retry delay calculation for Notion API calls
// ABOUTME: Exponential backoff with jitter, overridden by a server Retry-After hint
package util

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// MaxBackoff caps every computed or server-suggested delay.
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter
// Base delay is doubled each attempt, with random jitter up to 25%
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	// -25% to +25%
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// RetryDelay picks the wait before retry attempt. A positive retryAfter
// (from the server) wins over computed backoff; both are capped at MaxBackoff.
func RetryDelay(baseDelay time.Duration, attempt int, retryAfter time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if retryAfter > 0 {
		if retryAfter > MaxBackoff {
			return MaxBackoff
		}
		return retryAfter
	}
	return CalculateBackoff(baseDelay, attempt)
}

// ParseRetryAfter reads a Retry-After header holding delay seconds.
// HTTP-date values and garbage yield 0.
func ParseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
