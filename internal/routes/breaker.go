package routes

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"caltransit/internal/model"
)

// Oracle is the query surface shared by the raw Client and the resilient
// wrapper, so callers can compose either.
type Oracle interface {
	Route(ctx context.Context, origin, destination string, mode model.TravelMode, departure time.Time) (*model.RouteResult, error)
	QueryLeg(ctx context.Context, origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error)
}

// RetryPolicy configures the retry behavior of the resilient oracle.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns sensible defaults for oracle calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// Resilient wraps an Oracle with bounded retries on transient errors and a
// circuit breaker. The engine itself never retries; this wrapper is the
// caller-side retry policy composed around it, and its contract is identical
// to the raw Client's.
type Resilient struct {
	inner   Oracle
	breaker *gobreaker.CircuitBreaker[*model.RouteResult]
	policy  RetryPolicy
	sleepFn func(time.Duration)
}

// ResilientOption is a functional option for configuring a Resilient oracle.
type ResilientOption func(*Resilient)

// WithSleepFunc overrides the sleep function used between retries.
// This is intended for testing to avoid real delays.
func WithSleepFunc(fn func(time.Duration)) ResilientOption {
	return func(r *Resilient) {
		r.sleepFn = fn
	}
}

// NewResilient wraps inner with the given retry policy and a circuit breaker
// that opens after a run of consecutive transient failures.
func NewResilient(inner Oracle, policy RetryPolicy, opts ...ResilientOption) *Resilient {
	cb := gobreaker.NewCircuitBreaker[*model.RouteResult](gobreaker.Settings{
		Name:        "route-oracle",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			// A definitive 4xx is still a working oracle; only transient
			// failures count toward opening the breaker.
			return !isTransient(err)
		},
	})

	r := &Resilient{
		inner:   inner,
		breaker: cb,
		policy:  policy,
		sleepFn: time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var oerr *Error
	return errors.As(err, &oerr) && oerr.Transient
}

// Route implements Oracle.
func (r *Resilient) Route(ctx context.Context, origin, destination string, mode model.TravelMode, departure time.Time) (*model.RouteResult, error) {
	return r.execute(ctx, func() (*model.RouteResult, error) {
		return r.inner.Route(ctx, origin, destination, mode, departure)
	})
}

// QueryLeg implements Oracle.
func (r *Resilient) QueryLeg(ctx context.Context, origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error) {
	return r.execute(ctx, func() (*model.RouteResult, error) {
		return r.inner.QueryLeg(ctx, origin, destination, forceDrive, departure)
	})
}

// execute runs fn through the breaker, retrying transient failures with
// exponential backoff up to the policy's retry budget.
func (r *Resilient) execute(ctx context.Context, fn func() (*model.RouteResult, error)) (*model.RouteResult, error) {
	wait := r.policy.MinWait
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &Error{Op: "retry", Transient: true, Err: ctx.Err()}
			default:
			}
			r.sleepFn(wait)
			wait *= 2
			if r.policy.MaxWait > 0 && wait > r.policy.MaxWait {
				wait = r.policy.MaxWait
			}
		}

		result, err := r.breaker.Execute(fn)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{Op: "circuit breaker", Transient: true, Err: err}
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
