package query

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/logger"
)

type (
	// Execution describes one finished query run.
	Execution struct {
		Statement  string
		ObjectType string
		Page       int
		PageSize   int
		TotalCount int
		Duration   time.Duration
		Err        error
	}

	// Observer is notified after every execution.
	Observer func(ctx context.Context, execution Execution)

	Option func(*options)

	options struct {
		logger            *logger.Logger
		searchAllVersions bool
		observers         []Observer
	}

	// Engine runs paged queries for T against a session.
	Engine[T any] struct {
		session cmis.Session
		schema  Schema[T]
		options options
	}
)

func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = &log
	}
}

// WithSearchAllVersions controls whether non-latest versions are matched.
func WithSearchAllVersions(enabled bool) Option {
	return func(o *options) {
		o.searchAllVersions = enabled
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, observer)
	}
}

func NewEngine[T any](session cmis.Session, schema Schema[T], opts ...Option) *Engine[T] {
	cfg := options{searchAllVersions: true}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine[T]{
		session: session,
		schema:  schema,
		options: cfg,
	}
}

// Query starts a builder against the schema's object type.
func (e *Engine[T]) Query() *Builder[T] {
	return &Builder[T]{
		engine:     e,
		spec:       NewSpec(),
		objectType: e.schema.ObjectType(),
	}
}

// Execute compiles spec, materializes every row, and maps the requested
// window.
func (e *Engine[T]) Execute(ctx context.Context, spec *Spec, objectType string) (Page[T], error) {
	if spec == nil {
		spec = NewSpec()
	}

	started := time.Now()

	statement, err := compile(spec, objectType)
	if err != nil {
		e.finish(ctx, spec, objectType, statement, 0, started, err)

		return Page[T]{}, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}

	records, err := e.materialize(ctx, statement, spec)
	if err != nil {
		e.finish(ctx, spec, objectType, statement, 0, started, err)

		return Page[T]{}, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}

	total := len(records)
	start, end := spec.Window(total)

	data := make([]T, 0, end-start)

	for _, record := range records[start:end] {
		item, ok := e.schema.Map(record)
		if !ok {
			continue
		}

		data = append(data, *item)
	}

	e.finish(ctx, spec, objectType, statement, total, started, nil)

	return Page[T]{
		Data:       data,
		PageNumber: spec.Page(),
		PageSize:   spec.PageSize(),
		TotalCount: total,
	}, nil
}

// First returns the first row that maps to a T without windowing.
func (e *Engine[T]) First(ctx context.Context, spec *Spec, objectType string) (T, error) {
	var zero T

	if spec == nil {
		spec = NewSpec()
	}

	started := time.Now()

	statement, err := compile(spec, objectType)
	if err != nil {
		e.finish(ctx, spec, objectType, statement, 0, started, err)

		return zero, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}

	rows, err := e.rows(ctx, statement, spec)
	if err != nil {
		e.finish(ctx, spec, objectType, statement, 0, started, err)

		return zero, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}

	for record, err := range rows {
		if err != nil {
			e.finish(ctx, spec, objectType, statement, 0, started, err)

			return zero, fmt.Errorf("%w: %w", ErrQueryExecution, err)
		}

		if item, ok := e.schema.Map(record); ok {
			e.finish(ctx, spec, objectType, statement, 1, started, nil)

			return *item, nil
		}
	}

	e.finish(ctx, spec, objectType, statement, 0, started, ErrNoResults)

	return zero, ErrNoResults
}

func (e *Engine[T]) materialize(ctx context.Context, statement string, spec *Spec) (records []*cmis.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panicked: %v", r)
		}
	}()

	rows, err := e.rows(ctx, statement, spec)
	if err != nil {
		return nil, err
	}

	return cmis.Collect(rows)
}

func (e *Engine[T]) rows(ctx context.Context, statement string, spec *Spec) (iter.Seq2[*cmis.Record, error], error) {
	if e.session == nil {
		return nil, errors.New("no session")
	}

	opCtx := e.session.NewOperationContext()
	opCtx.MaxItemsPerPage = spec.PageSize()
	opCtx.CacheEnabled = true
	opCtx.PropertyFilter = strings.Join(spec.properties, ",")

	rows := e.session.Query(ctx, statement, e.options.searchAllVersions, opCtx)
	if rows == nil {
		return nil, errors.New("session returned no result set")
	}

	return rows, nil
}

func (e *Engine[T]) finish(
	ctx context.Context,
	spec *Spec,
	objectType, statement string,
	total int,
	started time.Time,
	err error,
) {
	execution := Execution{
		Statement:  statement,
		ObjectType: objectType,
		Page:       spec.Page(),
		PageSize:   spec.PageSize(),
		TotalCount: total,
		Duration:   time.Since(started),
		Err:        err,
	}

	if e.options.logger != nil {
		log := e.options.logger.WithContext(ctx)

		if err != nil && !errors.Is(err, ErrNoResults) {
			log.Error().Err(err).Str("statement", statement).Msg("query execution failed")
		} else {
			log.Debug().
				Str("statement", statement).
				Int("total_count", total).
				Dur("duration", execution.Duration).
				Msg("query executed")
		}
	}

	for _, observer := range e.options.observers {
		observer(ctx, execution)
	}
}
