package transport

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError signals the transport demands a wait before the call may
// be retried. The wait duration comes from the transport itself.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// TimeoutError signals a bounded transfer exceeded its deadline.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// RetryAfter extracts the rate-limit wait from err. Returns (0, false)
// when err is not a rate-limit signal.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

// IsTimeout reports whether err is a transfer timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
