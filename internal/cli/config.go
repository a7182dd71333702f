package cli

import (
	"context"
	"fmt"

	"github.com/architeacher/docrepo/internal/config"
	"github.com/spf13/cobra"
)

func (e *commandEnv) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Long: `Print the effective configuration as JSON, after Vault secrets are applied.

Passwords and tokens are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return e.run(ctx, ScopeConfig, func(_ context.Context, rt Runtime) error {
				return rt.DumpConfig(cmd.OutOrStdout())
			})
		},
	}
}

func (e *commandEnv) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version := config.ServiceVersion
			if version == "" {
				version = "dev"
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "docrepo %s (%s)\n", version, config.CommitSHA)
		},
	}
}
