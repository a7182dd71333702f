// Package cmis defines the boundary between the query engine and a CMIS
// repository: sessions, operation contexts, result records and objects.
package cmis

import (
	"context"
	"iter"
)

const (
	// DefaultMaxItemsPerPage is the batch size requested from the repository
	// when no other value has been configured.
	DefaultMaxItemsPerPage = 100

	// PropertyFilterAll requests every property of an object.
	PropertyFilterAll = "*"
)

type (
	// OperationContext carries per-request hints for the repository.
	OperationContext struct {
		// MaxItemsPerPage is the server-side batch size used while paging
		// through a result set.
		MaxItemsPerPage int

		// CacheEnabled allows the session to reuse previously fetched objects.
		CacheEnabled bool

		// PropertyFilter is a comma-separated list of property query names.
		// Empty means every property.
		PropertyFilter string

		// IncludeAllowableActions asks the repository to return the actions the
		// caller may perform on each object.
		IncludeAllowableActions bool
	}

	// Session executes queries against a repository.
	Session interface {
		// NewOperationContext returns a context with the session defaults.
		NewOperationContext() OperationContext

		// Query runs statement and returns its rows. The sequence may be lazy;
		// an error is yielded once and ends the sequence.
		Query(
			ctx context.Context,
			statement string,
			searchAllVersions bool,
			opCtx OperationContext,
		) iter.Seq2[*Record, error]
	}
)

// NewOperationContext returns the default operation context.
func NewOperationContext() OperationContext {
	return OperationContext{
		MaxItemsPerPage: DefaultMaxItemsPerPage,
		CacheEnabled:    true,
	}
}

// Filter returns the filter value sent to the repository.
func (o OperationContext) Filter() string {
	if o.PropertyFilter == "" {
		return PropertyFilterAll
	}

	return o.PropertyFilter
}

// Collect drains rows and returns every record, or the first error.
func Collect(rows iter.Seq2[*Record, error]) ([]*Record, error) {
	var records []*Record

	for record, err := range rows {
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// RecordsOf returns a sequence yielding the given records.
func RecordsOf(records ...*Record) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for _, record := range records {
			if !yield(record, nil) {
				return
			}
		}
	}
}

// FailedRows returns a sequence that yields err after the given records.
func FailedRows(err error, records ...*Record) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for _, record := range records {
			if !yield(record, nil) {
				return
			}
		}

		yield(nil, err)
	}
}
