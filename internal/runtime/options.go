package runtime

import (
	"io"
	"os"
	"time"
)

type ServiceOption func(*ServiceCtx)

// WithArgs replaces the process arguments.
func WithArgs(args ...string) ServiceOption {
	return func(c *ServiceCtx) {
		c.args = args
	}
}

// WithOutput redirects command output to stdout and logs to stderr.
func WithOutput(stdout, stderr io.Writer) ServiceOption {
	return func(c *ServiceCtx) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(c *ServiceCtx) {
		c.shutdownChannel = ch
	}
}

func WithCleanupTimeout(timeout time.Duration) ServiceOption {
	return func(c *ServiceCtx) {
		c.cleanupTimeout = timeout
	}
}

// WithDependencyOptions runs opts after the default wiring.
func WithDependencyOptions(opts ...DependencyOption) ServiceOption {
	return func(c *ServiceCtx) {
		c.extraOptions = append(c.extraOptions, opts...)
	}
}
