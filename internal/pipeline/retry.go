package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/backmassage/renamaster/internal/transport"
)

const (
	// maxUploadAttempts caps the upload loop. Every failure mode, the
	// rate-limit sleep included, consumes one attempt.
	maxUploadAttempts = 3

	timeoutBackoff = 5 * time.Second
	errorBackoff   = 3 * time.Second
)

// uploadRetry tracks attempts across the upload loop for one job, in the
// spirit of a classify-then-fix retry state: inspect the failure, pick the
// wait, count the attempt.
type uploadRetry struct {
	attempt int
	max     int
}

func newUploadRetry() *uploadRetry {
	return &uploadRetry{max: maxUploadAttempts}
}

// advance classifies a failed upload attempt. It returns the backoff to
// sleep before the next attempt, the trigger label for metrics/logs, and
// whether another attempt is allowed. Rate limits use the wait the
// transport demanded; timeouts and generic errors use fixed backoffs.
func (s *uploadRetry) advance(err error) (wait time.Duration, reason string, retry bool) {
	s.attempt++

	switch {
	case isRateLimit(err):
		wait, _ = transport.RetryAfter(err)
		reason = "rate_limit"
	case isTimeout(err):
		wait = timeoutBackoff
		reason = "timeout"
	default:
		wait = errorBackoff
		reason = "error"
	}
	return wait, reason, s.attempt < s.max
}

func isRateLimit(err error) bool {
	_, ok := transport.RetryAfter(err)
	return ok
}

// isTimeout covers both the transport's own timeout signal and a deadline
// the runner imposed on the call.
func isTimeout(err error) bool {
	return transport.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}
