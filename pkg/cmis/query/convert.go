package query

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

const multiValueSeparator = "; "

// Converter turns a raw property value into V. A failed conversion leaves
// the target field untouched.
type Converter[V any] func(raw any) (V, error)

// CastTo converts with spf13/cast.
func CastTo[V cast.Basic]() Converter[V] {
	return cast.ToE[V]
}

// Trimmed converts to a string without surrounding whitespace.
func Trimmed() Converter[string] {
	return func(raw any) (string, error) {
		text, err := cast.ToStringE(raw)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(text), nil
	}
}

// OneOf accepts only the listed values, compared case-insensitively, and
// returns the canonical spelling.
func OneOf[V ~string](allowed ...V) Converter[V] {
	return func(raw any) (V, error) {
		text, err := cast.ToStringE(raw)
		if err != nil {
			return "", err
		}

		for _, candidate := range allowed {
			if strings.EqualFold(string(candidate), text) {
				return candidate, nil
			}
		}

		return "", fmt.Errorf("%w: %q is not an allowed value", ErrFieldConversion, text)
	}
}

func joinValues(raws []any) string {
	parts := make([]string, 0, len(raws))

	for _, raw := range raws {
		if raw == nil {
			continue
		}

		parts = append(parts, formatValue(raw))
	}

	return strings.Join(parts, multiValueSeparator)
}

// isTextual reports whether V has an underlying string type.
func isTextual[V any]() bool {
	return reflect.TypeFor[V]().Kind() == reflect.String
}
