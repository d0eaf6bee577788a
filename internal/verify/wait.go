package verify

import (
	"context"
	"errors"
	"time"
)

// Wait defaults
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 100 * time.Millisecond
)

// Waiter retries a check until it passes or the timeout elapses
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultWaiter returns a Waiter with the default timeout and interval
func DefaultWaiter() Waiter {
	return Waiter{Timeout: DefaultTimeout, Interval: DefaultInterval}
}

// Until runs fn until it returns nil. When the timeout or ctx expires, the last
// error is returned as an AssertionFailure named check.
func (w Waiter) Until(ctx context.Context, check string, fn func() error) error {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := fn()
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return failure(check, errors.Join(ctx.Err(), err))
		case <-deadline.C:
			return failure(check, err)
		case <-ticker.C:
		}
	}
}

func failure(check string, err error) *AssertionFailure {
	var af *AssertionFailure
	if errors.As(err, &af) {
		out := *af
		if out.Check == "" {
			out.Check = check
		} else {
			out.Check = check + ": " + out.Check
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			out.Err = err
		}
		return &out
	}
	return &AssertionFailure{Check: check, Err: err}
}
