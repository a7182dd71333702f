package query

import (
	"context"
	"errors"
	"fmt"
)

// Builder accumulates a query fluently. A builder belongs to one caller and
// must not be shared between goroutines.
type Builder[T any] struct {
	engine     *Engine[T]
	spec       *Spec
	objectType string
	err        error
}

// Select restricts the returned properties. Without it every property is
// returned.
func (b *Builder[T]) Select(properties ...string) *Builder[T] {
	b.spec.addProperties(properties...)

	return b
}

// From overrides the queried object type.
func (b *Builder[T]) From(objectType string) *Builder[T] {
	b.objectType = objectType

	return b
}

func (b *Builder[T]) Where(property string, value any) *Builder[T] {
	return b.WhereOp(property, OpEqual, value)
}

func (b *Builder[T]) WhereOp(property string, operator Operator, value any) *Builder[T] {
	b.spec.addCondition(NewCondition(property, operator, value))

	return b
}

func (b *Builder[T]) WhereNull(property string) *Builder[T] {
	return b.WhereOp(property, OpIsNull, nil)
}

func (b *Builder[T]) WhereNotNull(property string) *Builder[T] {
	return b.WhereOp(property, OpIsNotNull, nil)
}

func (b *Builder[T]) OrderBy(property string) *Builder[T] {
	b.spec.addSortKey(NewSortKey(property, false))

	return b
}

func (b *Builder[T]) OrderByDesc(property string) *Builder[T] {
	b.spec.addSortKey(NewSortKey(property, true))

	return b
}

// PageSize sets the window size. Non-positive sizes are rejected and leave
// the previous size in place.
func (b *Builder[T]) PageSize(size int) *Builder[T] {
	if size <= 0 {
		b.fail(fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, size))

		return b
	}

	b.spec.setPageSize(size)

	return b
}

// Page sets the requested page. Negative pages are rejected and leave the
// previous page in place.
func (b *Builder[T]) Page(page int) *Builder[T] {
	if page < 0 {
		b.fail(fmt.Errorf("%w: page must not be negative, got %d", ErrInvalidArgument, page))

		return b
	}

	b.spec.setPage(page)

	return b
}

// Apply adds a declarative configuration to the builder.
func (b *Builder[T]) Apply(cfg Configuration) *Builder[T] {
	if len(cfg.SelectFields) > 0 {
		b.Select(cfg.SelectFields...)
	}

	for _, filter := range cfg.Filters {
		b.WhereOp(filter.PropertyName, ParseOperator(filter.Operator), filter.Value)
	}

	for _, order := range cfg.OrderBy {
		if order.Descending {
			b.OrderByDesc(order.PropertyName)

			continue
		}

		b.OrderBy(order.PropertyName)
	}

	if cfg.PageSize != 0 {
		b.PageSize(cfg.PageSize)
	}

	if cfg.Page != 0 {
		b.Page(cfg.Page)
	}

	return b
}

// Err returns the argument errors recorded so far.
func (b *Builder[T]) Err() error {
	return b.err
}

// Spec returns a copy of the accumulated state.
func (b *Builder[T]) Spec() *Spec {
	return b.spec.Clone()
}

func (b *Builder[T]) ObjectType() string {
	return b.objectType
}

// Statement returns the compiled query.
func (b *Builder[T]) Statement() string {
	return Compile(b.spec, b.objectType)
}

// Execute runs the query and returns the requested page. Argument errors
// recorded by setters are returned without contacting the repository.
func (b *Builder[T]) Execute(ctx context.Context) (Page[T], error) {
	if b.err != nil {
		return Page[T]{}, b.err
	}

	return b.engine.Execute(ctx, b.spec, b.objectType)
}

// First runs the query and returns the first mapped row.
func (b *Builder[T]) First(ctx context.Context) (T, error) {
	if b.err != nil {
		var zero T

		return zero, b.err
	}

	return b.engine.First(ctx, b.spec, b.objectType)
}

func (b *Builder[T]) fail(err error) {
	b.err = errors.Join(b.err, err)
}
