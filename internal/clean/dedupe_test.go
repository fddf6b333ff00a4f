package clean_test

import (
	"testing"

	"github.com/KaramelBytes/edaclean/internal/clean"
	"github.com/KaramelBytes/edaclean/internal/logging"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(vs ...any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		if n, ok := v.(int); ok {
			out[i] = int64(n)
			continue
		}
		out[i] = v
	}
	return out
}

func TestDedupeFullRows(t *testing.T) {
	tb := table.New("people",
		table.NewColumn("n", table.Int64, ints(1, 1, 2)),
		table.NewColumn("name", table.String, []any{"Alice", "Alice", "Bob"}),
		table.NewColumn("age", table.Int64, ints(25, 25, 30)),
		table.NewColumn("city", table.String, []any{"NY", "NY", "LA"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	require.Equal(t, 2, out.Rows())
	assert.Equal(t, 1, res.FullRowDropped)
	assert.Equal(t, []any{"Alice", "Bob"}, out.Column("name").Values)
	assert.Empty(t, res.IDColumn)
	assert.Equal(t, 3, tb.Rows(), "input untouched")
}

func TestDedupeFullRowsTreatsNullsAsEqual(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("a", table.Int64, ints(1, 1)),
		table.NewColumn("b", table.String, []any{nil, nil}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 1, out.Rows())
	assert.Equal(t, 1, res.FullRowDropped)
}

func TestDedupeByIdentifierKeepsFirst(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("some_id", table.Int64, ints(1, 1, 2)),
		table.NewColumn("v", table.String, []any{"a", "b", "c"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	require.Equal(t, 2, out.Rows())
	assert.Equal(t, "some_id", res.IDColumn)
	assert.Equal(t, 1, res.IDDropped)
	assert.Equal(t, 0, res.FullRowDropped)
	assert.Equal(t, []any{"a", "c"}, out.Column("v").Values)
}

func TestDedupeIgnoresNonIdentifierFirstColumn(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("some_name", table.Int64, ints(1, 1, 2)),
		table.NewColumn("v", table.String, []any{"a", "b", "c"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 3, out.Rows())
	assert.Empty(t, res.IDColumn)
}

func TestDedupeOnlyFirstColumnIsIdentifierCandidate(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("v", table.String, []any{"a", "b", "c"}),
		table.NewColumn("user_id", table.Int64, ints(1, 1, 1)),
	)
	out, _ := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 3, out.Rows())
}

func TestDedupeMissingIdsAreNotDuplicates(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("id", table.Int64, ints(nil, nil, 1)),
		table.NewColumn("v", table.String, []any{"a", "b", "c"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 0, res.IDDropped)
}

func TestDedupeSkipsUnhashable(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("id", table.Opaque, []any{[]any{1}, []any{1}}),
		table.NewColumn("v", table.String, []any{"a", "a"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 2, out.Rows())
	assert.True(t, res.FullRowSkipped)
	assert.True(t, res.IDSkipped)
}

type box struct{ X any }

func TestDedupeSkipsNestedUnhashable(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("id", table.Opaque, []any{box{X: []int{1}}, box{X: []int{1}}}),
		table.NewColumn("v", table.String, []any{"a", "a"}),
	)
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 2, out.Rows())
	assert.True(t, res.FullRowSkipped)
	assert.True(t, res.IDSkipped)
}

func TestDedupeEmpty(t *testing.T) {
	tb := table.New("t", table.NewColumn("id", table.Int64, []any{}))
	out, res := clean.Dedupe(tb, logging.Discard())
	assert.Equal(t, 0, out.Rows())
	assert.Equal(t, clean.DedupeResult{}, res)
}
