package ports

import "context"

// DependencyStatus represents the health status of a dependency.
type DependencyStatus struct {
	Healthy bool   `json:"healthy"           yaml:"healthy"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Latency string `json:"latency,omitempty" yaml:"latency,omitempty"`
}

// HealthChecker checks that a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

func (f HealthCheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
