// Package retry implements an exponential-backoff retry policy with jitter
// for fallible operations against the model provider.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy describes an exponential-backoff retry schedule. The zero value is
// not useful; construct with NewPolicy or set fields explicitly. A Policy is
// immutable after construction and safe for concurrent use.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the exponential delay growth.
	MaxDelay time.Duration
	// JitterFactor adds uniform(0, JitterFactor*delay) to each delay.
	JitterFactor float64

	// sleep waits for d or until ctx is done. Tests replace it to record
	// the schedule without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy returns a Policy with the given retry count and base delay,
// a 60s delay cap, and 10% jitter.
func NewPolicy(maxRetries int, baseDelay time.Duration) Policy {
	return Policy{
		MaxRetries:   maxRetries,
		BaseDelay:    baseDelay,
		MaxDelay:     60 * time.Second,
		JitterFactor: 0.1,
	}
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do propagates it immediately without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do executes op, retrying on failure according to the policy. Errors marked
// Permanent and context cancellation propagate immediately; after MaxRetries
// retries the final error propagates unchanged. The successful result of op
// is never altered: Do returns nil exactly when op returned nil.
func (p Policy) Do(ctx context.Context, op func() error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return pe.err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt >= p.MaxRetries {
			return err
		}
		if serr := sleep(ctx, p.delay(attempt+1)); serr != nil {
			return err
		}
	}
}

// delay computes the wait before retry n (1-based):
// min(MaxDelay, BaseDelay*2^(n-1)) plus uniform jitter.
func (p Policy) delay(n int) time.Duration {
	d := p.BaseDelay << (n - 1)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	if p.JitterFactor > 0 {
		d += time.Duration(rand.Float64() * p.JitterFactor * float64(d))
	}
	return d
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
