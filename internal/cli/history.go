package cli

import (
	"context"
	"strconv"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/internal/usecases/queries"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func (e *commandEnv) newHistoryCommand() *cobra.Command {
	var limit uint64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently executed searches",
		Long: `List recently executed searches, newest first.

The history is kept in Postgres and is empty unless POSTGRES_ENABLED is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				records, err := app.Queries.RecentQueries.Execute(ctx, queries.RecentQueriesQuery{Limit: limit})
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						formatTime(record.ExecutedAt),
						record.ObjectType,
						strconv.Itoa(record.Page),
						strconv.Itoa(record.TotalCount),
						record.Duration.String(),
						record.Statement,
						record.Error,
					})
				}

				return f.PrintTable(output.TableData{
					Headers: []string{"EXECUTED AT", "TYPE", "PAGE", "TOTAL", "DURATION", "STATEMENT", "ERROR"},
					Rows:    rows,
					Value:   records,
				})
			})
		},
	}

	cmd.Flags().Uint64Var(&limit, "limit", defaultHistoryLimit, "number of entries to show")

	return cmd
}
