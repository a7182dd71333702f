package query

import (
	"strings"
)

// Operator is a comparison operator of a filter condition.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpLike           Operator = "LIKE"
	OpIsNull         Operator = "IS"
	OpIsNotNull      Operator = "IS NOT"

	OpTimestampEqual          Operator = "= TIMESTAMP"
	OpTimestampGreaterOrEqual Operator = ">= TIMESTAMP"
	OpTimestampLessOrEqual    Operator = "<= TIMESTAMP"
	OpTimestampGreater        Operator = "> TIMESTAMP"
	OpTimestampLess           Operator = "< TIMESTAMP"
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"

	timestampQualifier = " TIMESTAMP"
)

var knownOperators = map[Operator]struct{}{
	OpEqual:                   {},
	OpNotEqual:                {},
	OpGreaterOrEqual:          {},
	OpLessOrEqual:             {},
	OpGreater:                 {},
	OpLess:                    {},
	OpLike:                    {},
	OpIsNull:                  {},
	OpIsNotNull:               {},
	OpTimestampEqual:          {},
	OpTimestampGreaterOrEqual: {},
	OpTimestampLessOrEqual:    {},
	OpTimestampGreater:        {},
	OpTimestampLess:           {},
}

// ParseOperator normalizes raw case and spacing. Unknown operators fall back
// to OpEqual.
func ParseOperator(raw string) Operator {
	op := Operator(strings.Join(strings.Fields(strings.ToUpper(raw)), " "))

	if _, ok := knownOperators[op]; ok {
		return op
	}

	return OpEqual
}

// IsNullCheck reports whether the operator compares against NULL.
func (o Operator) IsNullCheck() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// IsTimestamp reports whether the operator carries a TIMESTAMP qualifier.
func (o Operator) IsTimestamp() bool {
	return strings.HasSuffix(string(o), timestampQualifier)
}

func (o Operator) String() string {
	return string(o)
}

// Condition is a single filter predicate.
type Condition struct {
	property string
	operator Operator
	value    any
}

func NewCondition(property string, operator Operator, value any) Condition {
	if operator == "" {
		operator = OpEqual
	}

	return Condition{
		property: property,
		operator: operator,
		value:    value,
	}
}

func (c Condition) Property() string {
	return c.property
}

func (c Condition) Operator() Operator {
	return c.operator
}

// Value is ignored for null checks.
func (c Condition) Value() any {
	if c.operator.IsNullCheck() {
		return nil
	}

	return c.value
}

// SortKey orders results by one property.
type SortKey struct {
	property   string
	descending bool
}

func NewSortKey(property string, descending bool) SortKey {
	return SortKey{
		property:   property,
		descending: descending,
	}
}

func (k SortKey) Property() string {
	return k.property
}

func (k SortKey) Descending() bool {
	return k.descending
}

func (k SortKey) Direction() string {
	if k.descending {
		return SortDesc
	}

	return SortAsc
}
