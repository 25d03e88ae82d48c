package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/logging"
)

const (
	retryBaseDelay = 1 * time.Second
	retryMaxDelay  = 30 * time.Second
)

// RetryPolicy wraps an external call with bounded retry and exponential
// backoff. One policy value is shared by all five section calls.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, i.e. retries + 1.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Classify reports whether an error is transient and worth retrying.
	Classify func(error) bool
}

func defaultRetryPolicy(retries int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: retries + 1,
		BaseDelay:   retryBaseDelay,
		MaxDelay:    retryMaxDelay,
		Classify:    isTransient,
	}
}

// Do runs fn until it succeeds, fails fatally, or attempts run out. It
// returns the result, the number of attempts actually made, and the last
// error. Context cancellation stops retrying immediately.
func (p RetryPolicy) Do(ctx context.Context, log logging.Logger, op string, fn func() (string, error)) (string, int, error) {
	attempts := max(1, p.MaxAttempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err

		if p.Classify != nil && !p.Classify(err) {
			return "", attempt, err
		}
		if attempt == attempts {
			break
		}

		delay := p.backoff(attempt)
		log.Info("retrying after transient failure",
			"op", op,
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return "", attempt, ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", attempts, fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(1<<(attempt-1))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// isTransient classifies call failures. Timeouts, rate limits, and network
// errors are retried; authentication and malformed-request failures are not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fatal := range []string{"401", "403", "unauthorized", "forbidden", "invalid api key", "bad request", "400"} {
		if strings.Contains(msg, fatal) {
			return false
		}
	}
	for _, transient := range []string{"429", "rate limit", "too many requests", "500", "502", "503", "504", "timeout", "timed out", "connection", "eof", "temporar"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}
