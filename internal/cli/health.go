package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/internal/usecases/queries"
	"github.com/spf13/cobra"
)

var errUnhealthy = fmt.Errorf("repository is %s", queries.HealthStatusUnhealthy)

func (e *commandEnv) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the repository and the optional stores",
		Long: `Check the repository and the optional stores.

Exits non-zero when the repository is unreachable. An unreachable history
database or page cache only degrades the status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				report, err := app.Queries.FetchHealthReport.Execute(ctx, queries.FetchHealthReportQuery{})
				if err != nil {
					return err
				}

				names := make([]string, 0, len(report.Dependencies))
				for name := range report.Dependencies {
					names = append(names, name)
				}
				sort.Strings(names)

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					dependency := report.Dependencies[name]
					rows = append(rows, []string{
						name,
						strconv.FormatBool(dependency.Healthy),
						dependency.Latency,
						dependency.Message,
					})
				}

				if err := f.PrintTable(output.TableData{
					Headers: []string{"DEPENDENCY", "HEALTHY", "LATENCY", "MESSAGE"},
					Rows:    rows,
					Value:   report,
				}); err != nil {
					return err
				}

				f.PrintMessage("Status: %s", report.Status)

				if report.Status == queries.HealthStatusUnhealthy {
					return errUnhealthy
				}

				return nil
			})
		},
	}
}
