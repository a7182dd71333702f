package query

import (
	"math"
	"slices"
)

const (
	DefaultPageSize = 100
	DefaultPage     = 0
)

// Spec is the accumulated state of one query: projection, conditions,
// ordering and the requested page.
type Spec struct {
	properties []string
	conditions []Condition
	sortKeys   []SortKey
	pageSize   int
	page       int
}

func NewSpec() *Spec {
	return &Spec{
		pageSize: DefaultPageSize,
		page:     DefaultPage,
	}
}

// Properties returns the selected properties. Empty selects all.
func (s *Spec) Properties() []string {
	return slices.Clone(s.properties)
}

func (s *Spec) HasProjection() bool {
	return len(s.properties) > 0
}

func (s *Spec) Conditions() []Condition {
	return slices.Clone(s.conditions)
}

func (s *Spec) SortKeys() []SortKey {
	return slices.Clone(s.sortKeys)
}

func (s *Spec) PageSize() int {
	return s.pageSize
}

func (s *Spec) Page() int {
	return s.page
}

// Offset returns the number of rows skipped before the page window. Pages
// are counted from one; page zero addresses the first window. Offsets that
// do not fit an int saturate at math.MaxInt.
func (s *Spec) Offset() int {
	skipped := max(s.page-1, 0)
	size := max(s.pageSize, 0)

	if skipped > 0 && size > math.MaxInt/skipped {
		return math.MaxInt
	}

	return skipped * size
}

// Window returns the bounds of the requested page within total rows. A page
// past the end yields an empty window at total.
func (s *Spec) Window(total int) (start, end int) {
	start = min(s.Offset(), total)
	end = start + min(max(s.pageSize, 0), total-start)

	return start, end
}

// Clone returns an independent copy.
func (s *Spec) Clone() *Spec {
	return &Spec{
		properties: slices.Clone(s.properties),
		conditions: slices.Clone(s.conditions),
		sortKeys:   slices.Clone(s.sortKeys),
		pageSize:   s.pageSize,
		page:       s.page,
	}
}

func (s *Spec) addProperties(properties ...string) {
	s.properties = append(s.properties, properties...)
}

func (s *Spec) addCondition(condition Condition) {
	s.conditions = append(s.conditions, condition)
}

func (s *Spec) addSortKey(key SortKey) {
	s.sortKeys = append(s.sortKeys, key)
}

func (s *Spec) setPageSize(size int) {
	s.pageSize = size
}

func (s *Spec) setPage(page int) {
	s.page = page
}
