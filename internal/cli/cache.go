package cli

import (
	"context"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/internal/usecases/commands"
	"github.com/spf13/cobra"
)

func (e *commandEnv) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search page cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached search page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				purged, err := app.Commands.PurgePageCache.Handle(ctx, commands.PurgePageCacheCommand{})
				if err != nil {
					return err
				}

				if f.Format == output.FormatTable {
					f.PrintMessage("Purged %d cached pages", purged)

					return nil
				}

				return f.Print(map[string]int64{"purged": purged})
			})
		},
	})

	return cmd
}
