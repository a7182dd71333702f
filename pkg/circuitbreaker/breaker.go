// Package circuitbreaker stops calling a failing remote dependency until it
// has had time to recover.
package circuitbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

type Breaker[T any] struct {
	name string
	cb   *gobreaker.CircuitBreaker[T]
}

func New[T any](s Settings) *Breaker[T] {
	if !s.Enabled {
		return nil
	}

	threshold := uint32(max(s.FailureThreshold, 1))

	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: uint32(s.MaxRequests),
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}

	if s.Tolerate != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || s.Tolerate(err)
		}
	}

	if s.OnTransition != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			s.OnTransition(name, stateOf(from), stateOf(to))
		}
	}

	return &Breaker[T]{name: s.Name, cb: gobreaker.NewCircuitBreaker[T](settings)}
}

func (b *Breaker[T]) Name() string {
	if b == nil {
		return ""
	}

	return b.name
}

// State is closed for a nil breaker.
func (b *Breaker[T]) State() State {
	if b == nil {
		return StateClosed
	}

	return stateOf(b.cb.State())
}

// Call runs fn unless the breaker rejects it. Rejections wrap ErrOpen or
// ErrProbeLimit together with the breaker name.
func (b *Breaker[T]) Call(fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	result, err := b.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return result, fmt.Errorf("%w: %s", ErrOpen, b.name)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return result, fmt.Errorf("%w: %s", ErrProbeLimit, b.name)
	default:
		return result, err
	}
}

// IsRejection reports whether err came from the breaker rather than fn.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrProbeLimit)
}

func stateOf(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
