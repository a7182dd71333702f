package query_test

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
)

type document struct {
	ID        string
	Name      string
	Size      int64
	Version   float64
	Published bool
	Created   time.Time
	Authors   string
	Tags      []string
	Scores    []int
	Raw       []any
}

var documentSchema = query.NewSchema[document]("cmis:document",
	query.Field("cmis:objectId", func(d *document, v string) { d.ID = v }),
	query.Field("cmis:name", func(d *document, v string) { d.Name = v }),
	query.Field("cmis:contentStreamLength", func(d *document, v int64) { d.Size = v }),
	query.Field("version", func(d *document, v float64) { d.Version = v }),
	query.Field("published", func(d *document, v bool) { d.Published = v }),
	query.Field("cmis:creationDate", func(d *document, v time.Time) { d.Created = v }),
	query.Field("authors", func(d *document, v string) { d.Authors = v }),
	query.List("tags", func(d *document, v []string) { d.Tags = v }),
	query.List("scores", func(d *document, v []int) { d.Scores = v }),
	query.Dynamic("raw", func(d *document, v []any) { d.Raw = v }),
)

type fakeSession struct {
	mu          sync.Mutex
	records     []*cmis.Record
	err         error
	calls       int
	statement   string
	allVersions bool
	opCtx       cmis.OperationContext
}

func (s *fakeSession) NewOperationContext() cmis.OperationContext {
	return cmis.NewOperationContext()
}

func (s *fakeSession) Query(
	_ context.Context,
	statement string,
	searchAllVersions bool,
	opCtx cmis.OperationContext,
) iter.Seq2[*cmis.Record, error] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.statement = statement
	s.allVersions = searchAllVersions
	s.opCtx = opCtx

	if s.err != nil {
		return cmis.FailedRows(s.err, s.records...)
	}

	return cmis.RecordsOf(s.records...)
}

func (s *fakeSession) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func numberedRecords(n int) []*cmis.Record {
	records := make([]*cmis.Record, 0, n)
	for i := range n {
		records = append(records, cmis.NewRecord(
			cmis.NewProperty("cmis:objectId", string(rune('A'+i))),
			cmis.NewProperty("cmis:contentStreamLength", int64(i)),
		))
	}

	return records
}
