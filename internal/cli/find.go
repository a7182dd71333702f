package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/internal/usecases/queries"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/spf13/cobra"
)

type findOptions struct {
	objectType string
	selects    []string
	where      []string
	order      []string
	page       int
	pageSize   int
}

func (e *commandEnv) newFindCommand() *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search documents",
		Long: `Search documents with a CMIS query built from flags.

Conditions are written as "<property> <operator> [value]". Supported operators
are =, <>, <, <=, >, >=, LIKE, IS NULL, IS NOT NULL and the comparison
operators followed by TIMESTAMP.

Examples:
  docrepo find --where "cmis:name LIKE invoice%"
  docrepo find --where "cmis:creationDate >= TIMESTAMP 2026-01-01T00:00:00.000Z" --page 2
  docrepo find --type my:invoice --select cmis:name --order "cmis:name desc" -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.configuration()
			if err != nil {
				return err
			}

			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				page, err := app.Queries.FindDocuments.Execute(ctx, queries.FindDocumentsQuery{
					ObjectType:    opts.objectType,
					Configuration: cfg,
				})
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, documentRow(&page.Data[i]))
				}

				if err := f.PrintTable(output.TableData{Headers: documentHeaders, Rows: rows, Value: page}); err != nil {
					return err
				}

				f.PrintMessage("Page %d of %d (%d documents)", max(page.PageNumber, 1), page.TotalPages(), page.TotalCount)

				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.objectType, "type", "", "object type to search, defaults to the configured type")
	flags.StringSliceVar(&opts.selects, "select", nil, "properties to select")
	flags.StringArrayVar(&opts.where, "where", nil, `condition "<property> <operator> [value]", repeatable`)
	flags.StringArrayVar(&opts.order, "order", nil, `sort "<property> [asc|desc]", repeatable`)
	flags.IntVar(&opts.page, "page", 1, "page number, starting at 1")
	flags.IntVar(&opts.pageSize, "page-size", 0, "page size, defaults to the configured size")

	return cmd
}

func (o *findOptions) configuration() (query.Configuration, error) {
	if o.page < 0 {
		return query.Configuration{}, fmt.Errorf("page must not be negative: %d", o.page)
	}

	if o.pageSize < 0 {
		return query.Configuration{}, fmt.Errorf("page size must not be negative: %d", o.pageSize)
	}

	cfg := query.Configuration{
		Page:         o.page,
		PageSize:     o.pageSize,
		SelectFields: o.selects,
	}

	for _, raw := range o.where {
		filter, err := ParseCondition(raw)
		if err != nil {
			return query.Configuration{}, err
		}

		cfg.Filters = append(cfg.Filters, filter)
	}

	for _, raw := range o.order {
		orderBy, err := ParseOrder(raw)
		if err != nil {
			return query.Configuration{}, err
		}

		cfg.OrderBy = append(cfg.OrderBy, orderBy)
	}

	return cfg, nil
}

// ParseCondition reads "<property> <operator> [value]". Two word operators
// such as IS NOT and >= TIMESTAMP are matched before one word operators.
func ParseCondition(raw string) (query.Filter, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return query.Filter{}, fmt.Errorf("invalid condition %q: expected <property> <operator> [value]", raw)
	}

	property, rest := fields[0], fields[1:]

	operator, width, ok := matchOperator(rest)
	if !ok {
		return query.Filter{}, fmt.Errorf("invalid condition %q: unknown operator %q", raw, rest[0])
	}

	value := unquote(strings.Join(rest[width:], " "))

	if operator.IsNullCheck() {
		if value != "" && !strings.EqualFold(value, "NULL") {
			return query.Filter{}, fmt.Errorf("invalid condition %q: %s only compares with NULL", raw, operator)
		}

		return query.Filter{PropertyName: property, Operator: operator.String()}, nil
	}

	if value == "" {
		return query.Filter{}, fmt.Errorf("invalid condition %q: missing value", raw)
	}

	return query.Filter{PropertyName: property, Operator: operator.String(), Value: value}, nil
}

// ParseOrder reads "<property> [asc|desc]".
func ParseOrder(raw string) (query.OrderBy, error) {
	fields := strings.Fields(raw)

	switch {
	case len(fields) == 1:
		return query.OrderBy{PropertyName: fields[0]}, nil
	case len(fields) == 2 && strings.EqualFold(fields[1], query.SortAsc):
		return query.OrderBy{PropertyName: fields[0]}, nil
	case len(fields) == 2 && strings.EqualFold(fields[1], query.SortDesc):
		return query.OrderBy{PropertyName: fields[0], Descending: true}, nil
	default:
		return query.OrderBy{}, fmt.Errorf("invalid order %q: expected <property> [asc|desc]", raw)
	}
}

func matchOperator(tokens []string) (query.Operator, int, bool) {
	if len(tokens) >= 2 {
		if op, ok := knownOperator(tokens[0] + " " + tokens[1]); ok {
			return op, 2, true
		}
	}

	op, ok := knownOperator(tokens[0])

	return op, 1, ok
}

func knownOperator(raw string) (query.Operator, bool) {
	op := query.ParseOperator(raw)

	return op, op == query.Operator(strings.ToUpper(raw))
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}

	return value
}
