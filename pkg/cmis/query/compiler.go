package query

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cast"
)

const (
	// TimestampLayout renders time values for TIMESTAMP comparisons.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	selectAll = "*"
)

// Compile renders spec as a query statement against objectType. Values are
// inlined between single quotes without escaping.
func Compile(spec *Spec, objectType string) string {
	statement, _ := compile(spec, objectType)

	return statement
}

func compile(spec *Spec, objectType string) (string, error) {
	if spec == nil {
		spec = NewSpec()
	}

	sql, args, err := toSelect(spec, objectType).ToSql()
	if err != nil {
		return "", fmt.Errorf("rendering statement: %w", err)
	}

	statement, err := interpolate(sql, args)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(statement), nil
}

func toSelect(spec *Spec, objectType string) sq.SelectBuilder {
	columns := []string{selectAll}
	if len(spec.properties) > 0 {
		columns = make([]string, 0, len(spec.properties))
		for _, property := range spec.properties {
			columns = append(columns, escapePlaceholders(property))
		}
	}

	builder := sq.Select(columns...).From(escapePlaceholders(objectType))

	for _, condition := range spec.conditions {
		predicate, args := translateCondition(condition)
		builder = builder.Where(predicate, args...)
	}

	for _, key := range spec.sortKeys {
		builder = builder.OrderBy(escapePlaceholders(key.property) + " " + key.Direction())
	}

	return builder
}

func translateCondition(condition Condition) (string, []any) {
	property := escapePlaceholders(condition.property)

	if condition.operator.IsNullCheck() {
		return fmt.Sprintf("%s %s NULL", property, condition.operator), nil
	}

	return fmt.Sprintf("%s %s ?", property, condition.operator), []any{formatValue(condition.value)}
}

// escapePlaceholders keeps a literal "?" in identifiers from being taken as
// a bind placeholder.
func escapePlaceholders(text string) string {
	return strings.ReplaceAll(text, "?", "??")
}

// interpolate replaces each "?" in sql with the next quoted argument and
// collapses "??" back to a literal "?".
func interpolate(sql string, args []any) (string, error) {
	var (
		buf  strings.Builder
		next int
	)

	for {
		i := strings.IndexByte(sql, '?')
		if i < 0 {
			break
		}

		buf.WriteString(sql[:i])

		if strings.HasPrefix(sql[i:], "??") {
			buf.WriteByte('?')
			sql = sql[i+2:]

			continue
		}

		if next >= len(args) {
			return "", fmt.Errorf("statement has more placeholders than %d arguments", len(args))
		}

		fmt.Fprintf(&buf, "'%v'", args[next])
		next++
		sql = sql[i+1:]
	}

	if next < len(args) {
		return "", fmt.Errorf("statement has %d placeholders for %d arguments", next, len(args))
	}

	buf.WriteString(sql)

	return buf.String(), nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(TimestampLayout)
	case *time.Time:
		if v == nil {
			return ""
		}

		return v.Format(TimestampLayout)
	}

	text, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return text
}
