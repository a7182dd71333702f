package query

import (
	"errors"

	"github.com/architeacher/docrepo/pkg/cmis"
)

// Schema describes how rows of one object type populate T.
type Schema[T any] struct {
	objectType string
	fields     []FieldDescriptor[T]
}

func NewSchema[T any](objectType string, fields ...FieldDescriptor[T]) Schema[T] {
	return Schema[T]{
		objectType: objectType,
		fields:     fields,
	}
}

// ObjectType is the type queried when the builder does not name one.
func (s Schema[T]) ObjectType() string {
	return s.objectType
}

// FieldNames returns the mapped property names in declaration order.
func (s Schema[T]) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, field := range s.fields {
		names = append(names, field.name)
	}

	return names
}

// Map builds a T from record. Fields whose values cannot be converted keep
// their zero value. A nil record yields no instance.
func (s Schema[T]) Map(record *cmis.Record) (*T, bool) {
	if record == nil {
		return nil, false
	}

	target := new(T)

	_ = s.populate(target, record)

	return target, true
}

// populate assigns every matched field and reports the failures joined.
func (s Schema[T]) populate(target *T, record *cmis.Record) error {
	var errs []error

	for _, field := range s.fields {
		property, ok := record.Lookup(field.name)
		if !ok {
			continue
		}

		if err := field.apply(target, property); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
