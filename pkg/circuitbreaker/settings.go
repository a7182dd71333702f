package circuitbreaker

import (
	"errors"
	"time"
)

const (
	StateClosed   State = "closed"
	StateHalfOpen State = "half-open"
	StateOpen     State = "open"
)

var (
	// ErrOpen rejects calls while the dependency is considered down.
	ErrOpen = errors.New("circuit breaker is open")

	// ErrProbeLimit rejects calls beyond the half-open probe budget.
	ErrProbeLimit = errors.New("circuit breaker probe limit reached")
)

type (
	State string

	// Settings configure one breaker. A disabled breaker is nil and every
	// call passes straight through.
	Settings struct {
		Name    string
		Enabled bool

		// MaxRequests is the half-open probe budget. Zero allows one probe.
		MaxRequests uint

		// Interval resets the failure counts while closed. Zero never resets.
		Interval time.Duration

		// Timeout is how long the breaker stays open before probing.
		Timeout time.Duration

		// FailureThreshold consecutive failures open the breaker.
		FailureThreshold uint

		// Tolerate reports errors that must not count as failures, such as a
		// missing object. Nil tolerates nothing.
		Tolerate func(err error) bool

		OnTransition func(name string, from, to State)
	}
)
