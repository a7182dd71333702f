package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/architeacher/docrepo/internal/cli"
)

const defaultCleanupTimeout = 10 * time.Second

type ServiceCtx struct {
	args            []string
	stdout          io.Writer
	stderr          io.Writer
	shutdownChannel chan os.Signal
	cleanupTimeout  time.Duration
	extraOptions    []DependencyOption
}

func New(opts ...ServiceOption) *ServiceCtx {
	ctx := &ServiceCtx{
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		shutdownChannel: make(chan os.Signal, 1),
		cleanupTimeout:  defaultCleanupTimeout,
	}

	for _, opt := range opts {
		opt(ctx)
	}

	return ctx
}

// Execute runs the command line. SIGINT and SIGTERM cancel the running command.
func (c *ServiceCtx) Execute(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.shutdownHook()
	defer signal.Stop(c.shutdownChannel)

	go func() {
		select {
		case <-c.shutdownChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	root := cli.NewRootCommand(c.run)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	if c.args != nil {
		root.SetArgs(c.args)
	}

	return root.ExecuteContext(ctx)
}

// run builds the dependencies a command needs and releases them once it returns.
func (c *ServiceCtx) run(ctx context.Context, scope cli.Scope, fn func(ctx context.Context, rt cli.Runtime) error) error {
	deps, err := initializeDependencies(ctx, c.stderr, scope == cli.ScopeConfig, c.extraOptions...)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	defer c.cleanup(ctx, deps)

	return fn(ctx, deps)
}

func (c *ServiceCtx) shutdownHook() {
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
}

func (c *ServiceCtx) cleanup(ctx context.Context, deps *dependencies) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cleanupTimeout)
	defer cancel()

	deps.infra.logger.Debug().Msg("cleaning up resources...")

	deps.cleanup(cleanupCtx)

	deps.infra.logger.Debug().Msg("cleanup completed")
}
