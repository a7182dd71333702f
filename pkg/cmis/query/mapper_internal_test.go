package query

import (
	"testing"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/stretchr/testify/require"
)

func TestSchema_PopulateReportsDiscardedFailures(t *testing.T) {
	t.Parallel()

	type row struct {
		Count int
		Label string
	}

	schema := NewSchema[row]("row",
		Field("count", func(r *row, v int) { r.Count = v }),
		Field("label", func(r *row, v string) { r.Label = v }),
	)

	target := new(row)
	err := schema.populate(target, cmis.NewRecord(
		cmis.NewProperty("count", "many"),
		cmis.NewProperty("label", "ok"),
	))

	require.ErrorIs(t, err, ErrFieldConversion)
	require.Contains(t, err.Error(), "count")
	require.Equal(t, row{Label: "ok"}, *target)

	err = schema.populate(target, cmis.NewRecord(cmis.NewProperty("count", "7")))

	require.NoError(t, err)
	require.Equal(t, 7, target.Count)
}
