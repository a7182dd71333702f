package query

import (
	"fmt"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/spf13/cast"
)

type shape uint8

const (
	shapeScalar shape = iota
	shapeList
	shapeDynamic
)

// FieldDescriptor binds a property name to one writable field of T.
type FieldDescriptor[T any] struct {
	name    string
	shape   shape
	textual bool
	assign  func(target *T, raw any) error
	collect func(target *T, raws []any)
}

// Field maps a scalar property converted with spf13/cast.
func Field[T any, V cast.Basic](name string, set func(*T, V)) FieldDescriptor[T] {
	return FieldFunc(name, CastTo[V](), set)
}

// FieldFunc maps a scalar property with a custom converter.
func FieldFunc[T, V any](name string, convert Converter[V], set func(*T, V)) FieldDescriptor[T] {
	return FieldDescriptor[T]{
		name:    name,
		shape:   shapeScalar,
		textual: isTextual[V](),
		assign: func(target *T, raw any) error {
			value, err := convert(raw)
			if err != nil {
				return err
			}

			set(target, value)

			return nil
		},
	}
}

// List maps a property onto a typed slice. Elements that fail conversion
// are dropped.
func List[T any, E cast.Basic](name string, set func(*T, []E)) FieldDescriptor[T] {
	return ListFunc(name, CastTo[E](), set)
}

func ListFunc[T, E any](name string, convert Converter[E], set func(*T, []E)) FieldDescriptor[T] {
	return FieldDescriptor[T]{
		name:  name,
		shape: shapeList,
		collect: func(target *T, raws []any) {
			values := make([]E, 0, len(raws))

			for _, raw := range raws {
				if raw == nil {
					continue
				}

				value, err := convert(raw)
				if err != nil {
					continue
				}

				values = append(values, value)
			}

			set(target, values)
		},
	}
}

// Dynamic maps a property onto an untyped slice holding the raw values.
func Dynamic[T any](name string, set func(*T, []any)) FieldDescriptor[T] {
	return FieldDescriptor[T]{
		name:  name,
		shape: shapeDynamic,
		collect: func(target *T, raws []any) {
			values := make([]any, 0, len(raws))

			for _, raw := range raws {
				if raw != nil {
					values = append(values, raw)
				}
			}

			set(target, values)
		},
	}
}

func (f FieldDescriptor[T]) Name() string {
	return f.name
}

// IsCollection reports whether the field holds a slice.
func (f FieldDescriptor[T]) IsCollection() bool {
	return f.shape != shapeScalar
}

func (f FieldDescriptor[T]) apply(target *T, property cmis.Property) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrFieldConversion, f.name, r)
		}
	}()

	switch {
	case property.IsMultiValued() && f.IsCollection():
		f.collect(target, property.Values)

		return nil
	case property.IsMultiValued():
		return f.flatten(target, property.Values)
	case property.FirstValue() == nil:
		return nil
	case f.IsCollection():
		f.collect(target, property.Values)

		return nil
	}

	if err := f.assign(target, property.FirstValue()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFieldConversion, f.name, err)
	}

	return nil
}

func (f FieldDescriptor[T]) flatten(target *T, raws []any) error {
	if f.textual {
		return f.assign(target, joinValues(raws))
	}

	for _, raw := range raws {
		if raw == nil {
			continue
		}

		if err := f.assign(target, raw); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFieldConversion, f.name, err)
		}

		return nil
	}

	return nil
}
