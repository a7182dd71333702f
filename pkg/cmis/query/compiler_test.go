package query_test

import (
	"testing"
	"time"

	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		build    func(b *query.Builder[document]) *query.Builder[document]
		expected string
	}{
		{
			name:     "selects everything without clauses",
			build:    func(b *query.Builder[document]) *query.Builder[document] { return b },
			expected: "SELECT * FROM cmis:document",
		},
		{
			name: "lists selected properties in insertion order",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.Select("cmis:name", "cmis:objectId").Select("cmis:creationDate")
			},
			expected: "SELECT cmis:name, cmis:objectId, cmis:creationDate FROM cmis:document",
		},
		{
			name: "joins conditions with AND in insertion order",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.
					Where("cmis:name", "report").
					WhereOp("cmis:contentStreamLength", query.OpGreater, 100).
					WhereOp("cmis:name", query.OpLike, "rep%")
			},
			expected: "SELECT * FROM cmis:document WHERE cmis:name = 'report' AND " +
				"cmis:contentStreamLength > '100' AND cmis:name LIKE 'rep%'",
		},
		{
			name: "renders null checks against NULL regardless of value",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.
					WhereNull("cmis:description").
					WhereNotNull("cmis:checkinComment").
					WhereOp("cmis:versionLabel", query.OpIsNull, "ignored")
			},
			expected: "SELECT * FROM cmis:document WHERE cmis:description IS NULL AND " +
				"cmis:checkinComment IS NOT NULL AND cmis:versionLabel IS NULL",
		},
		{
			name: "renders sort keys with direction",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.OrderBy("cmis:name").OrderByDesc("cmis:creationDate")
			},
			expected: "SELECT * FROM cmis:document ORDER BY cmis:name ASC, cmis:creationDate DESC",
		},
		{
			name: "formats timestamps",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.WhereOp("cmis:creationDate", query.OpTimestampGreaterOrEqual, created)
			},
			expected: "SELECT * FROM cmis:document WHERE cmis:creationDate >= TIMESTAMP '2024-03-05T10:30:00.000Z'",
		},
		{
			name: "inlines values verbatim",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.Where("cmis:name", "what?").Where("published", true).Where("cmis:name", nil)
			},
			expected: "SELECT * FROM cmis:document WHERE cmis:name = 'what?' AND published = 'true' AND cmis:name = ''",
		},
		{
			name: "renders question marks in identifiers verbatim",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.
					From("acme:what?").
					Select("a?b", "c").
					Where("a?b", "x").
					WhereNull("d??").
					OrderBy("e?")
			},
			expected: "SELECT a?b, c FROM acme:what? WHERE a?b = 'x' AND d?? IS NULL ORDER BY e? ASC",
		},
		{
			name: "combines every clause",
			build: func(b *query.Builder[document]) *query.Builder[document] {
				return b.
					From("acme:invoice").
					Select("cmis:objectId").
					Where("acme:status", "open").
					OrderByDesc("acme:amount").
					PageSize(10).
					Page(2)
			},
			expected: "SELECT cmis:objectId FROM acme:invoice WHERE acme:status = 'open' ORDER BY acme:amount DESC",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine := query.NewEngine(&fakeSession{}, documentSchema)
			builder := tc.build(engine.Query())

			require.Equal(t, tc.expected, builder.Statement())
			require.Equal(t, tc.expected, query.Compile(builder.Spec(), builder.ObjectType()))
		})
	}
}

func TestCompile_NilSpec(t *testing.T) {
	t.Parallel()

	require.Equal(t, "SELECT * FROM cmis:folder", query.Compile(nil, "cmis:folder"))
}
