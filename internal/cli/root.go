// Package cli is the docrepo command line.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	ScopeApplication Scope = iota
	// ScopeConfig only loads the configuration.
	ScopeConfig
)

type (
	Scope int

	Runtime interface {
		App() *usecases.Application
		DumpConfig(w io.Writer) error
	}

	// RunFunc builds a runtime for scope, hands it to fn and releases it once fn returns.
	RunFunc func(ctx context.Context, scope Scope, fn func(ctx context.Context, rt Runtime) error) error

	globalOptions struct {
		outputFormat string
		noHeaders    bool
		quiet        bool
		timeout      time.Duration
	}

	commandEnv struct {
		run  RunFunc
		opts *globalOptions
	}
)

func NewRootCommand(run RunFunc) *cobra.Command {
	env := &commandEnv{run: run, opts: &globalOptions{}}

	root := &cobra.Command{
		Use:   "docrepo",
		Short: "Query and manage documents in a CMIS repository",
		Long: `docrepo talks to a document repository over the CMIS Browser binding.

Configuration is read from the environment (CMIS_BROWSER_URL, CMIS_REPOSITORY_ID,
CMIS_USERNAME, CMIS_PASSWORD, ...) and optionally from Vault.

Examples:
  docrepo find --where "cmis:name LIKE invoice%" --order "cmis:creationDate desc"
  docrepo upload ./march.pdf --folder /invoices/2026
  docrepo ls /invoices/2026 -o json`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SilenceErrors = env.opts.quiet
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&env.opts.outputFormat, "output", "o", "table", "output format: table, json, yaml")
	flags.BoolVar(&env.opts.noHeaders, "no-headers", false, "hide table headers")
	flags.BoolVarP(&env.opts.quiet, "quiet", "q", false, "minimal output")
	flags.DurationVar(&env.opts.timeout, "timeout", 2*time.Minute, "overall command timeout")

	root.AddCommand(
		env.newFindCommand(),
		env.newGetCommand(),
		env.newDownloadCommand(),
		env.newUploadCommand(),
		env.newDeleteCommand(),
		env.newListCommand(),
		env.newPathCommand(),
		env.newHistoryCommand(),
		env.newHealthCommand(),
		env.newCacheCommand(),
		env.newConfigCommand(),
		env.newVersionCommand(),
	)

	return root
}

func (e *commandEnv) formatter(cmd *cobra.Command) (*output.Formatter, error) {
	format, err := output.ParseFormat(e.opts.outputFormat)
	if err != nil {
		return nil, err
	}

	return output.NewFormatter(format, e.opts.noHeaders, e.opts.quiet, cmd.OutOrStdout()), nil
}

// withApp runs fn against a freshly built application.
func (e *commandEnv) withApp(
	cmd *cobra.Command,
	fn func(ctx context.Context, app *usecases.Application, formatter *output.Formatter) error,
) error {
	formatter, err := e.formatter(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = logger.WithCommand(logger.WithRequestID(ctx, uuid.NewString()), cmd.CommandPath())

	if e.opts.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.opts.timeout)
		defer cancel()
	}

	return e.run(ctx, ScopeApplication, func(ctx context.Context, rt Runtime) error {
		return fn(ctx, rt.App(), formatter)
	})
}
