package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// Backoff is the retry policy of a [Client]. Delays double from Initial
// and are capped at Max.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff gives a remote source three tries within a few seconds,
// which keeps a flaky content server from stalling a selection for long.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 250 * time.Millisecond, Max: 2 * time.Second}

// delay returns the wait before try number attempt+1.
func (b Backoff) delay(attempt int) time.Duration {
	d := b.Initial
	for range attempt {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	return d
}

// Do calls fn until it succeeds, fails with a non-transient error or runs
// out of attempts. fn receives the zero-based attempt number. A server
// supplied Retry-After overrides the computed delay, still capped at Max.
func (b Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(i); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := b.delay(i)
		var te *transientError
		if errors.As(err, &te) && te.after > 0 {
			wait = te.after
			if b.Max > 0 {
				wait = min(wait, b.Max)
			}
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// transientError marks a failure worth retrying.
type transientError struct {
	err   error
	after time.Duration
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable by [Backoff.Do]. Nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// [Transient].
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(h http.Header) time.Duration {
	s, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || s <= 0 {
		return 0
	}
	return time.Duration(s) * time.Second
}
