package clean_test

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/edaclean/internal/clean"
	"github.com/KaramelBytes/edaclean/internal/logging"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(name string, kind table.Kind, tag table.Tag, vals []any) *table.Column {
	c := table.NewColumn(name, kind, vals)
	c.Tag = tag
	return c
}

func outcomeFor(t *testing.T, outs []clean.MissingOutcome, name string) clean.MissingOutcome {
	t.Helper()
	for _, o := range outs {
		if o.Column == name {
			return o
		}
	}
	t.Fatalf("no outcome for %q", name)
	return clean.MissingOutcome{}
}

func TestResolveMissingDropsAndImputes(t *testing.T) {
	tb := table.New("t",
		tagged("a", table.Int64, table.TagNumeric, ints(1, nil, nil, nil, nil, nil, nil, nil, 2, 3)),
		tagged("b", table.Int64, table.TagNumeric, ints(1, 2, 3, nil, nil, nil, 4, 5, 6, 7)),
		tagged("c", table.Int64, table.TagNumeric, ints(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)),
	)
	outs := clean.ResolveMissing(tb, clean.StrategyMedian, logging.Discard())

	assert.Equal(t, []string{"b", "c"}, tb.Names())
	a := outcomeFor(t, outs, "a")
	assert.Equal(t, clean.ActionDropped, a.Action)
	assert.InDelta(t, 70.0, a.Percent, 1e-9)

	b := outcomeFor(t, outs, "b")
	assert.Equal(t, clean.ActionImputed, b.Action)
	assert.Equal(t, int64(4), b.Value)
	assert.Equal(t, table.Int64, tb.Column("b").Kind)
	assert.Equal(t, ints(1, 2, 3, 4, 4, 4, 4, 5, 6, 7), tb.Column("b").Values)
	assert.Zero(t, tb.Column("b").NullCount())

	assert.Equal(t, clean.ActionNone, outcomeFor(t, outs, "c").Action)
}

func TestResolveMissingDropsAtExactlyHalf(t *testing.T) {
	tb := table.New("t", tagged("a", table.Float64, table.TagNumeric, []any{1.5, nil}))
	outs := clean.ResolveMissing(tb, "", logging.Discard())
	assert.Zero(t, tb.Width())
	assert.Equal(t, clean.ActionDropped, outs[0].Action)
}

func TestResolveMissingPromotesFractionalFill(t *testing.T) {
	tb := table.New("t", tagged("x", table.Int64, table.TagNumeric, ints(1, 2, nil, 3, 4)))
	clean.ResolveMissing(tb, clean.StrategyMedian, logging.Discard())
	c := tb.Column("x")
	assert.Equal(t, table.Float64, c.Kind)
	assert.Equal(t, []any{1.0, 2.0, 2.5, 3.0, 4.0}, c.Values)
}

func TestResolveMissingMean(t *testing.T) {
	tb := table.New("t", tagged("x", table.Float64, table.TagNumeric, []any{1.0, 2.0, 6.0, nil}))
	clean.ResolveMissing(tb, "MEAN", logging.Discard())
	assert.Equal(t, []any{1.0, 2.0, 6.0, 3.0}, tb.Column("x").Values)
}

func TestResolveMissingModeForCategories(t *testing.T) {
	tb := table.New("t",
		tagged("cat", table.String, table.TagCategory, []any{"b", "a", "b", "a", nil}),
		tagged("ok", table.Boolean, table.TagBoolean, []any{true, false, true, nil}),
	)
	clean.ResolveMissing(tb, clean.StrategyMedian, logging.Discard())
	assert.Equal(t, "a", tb.Column("cat").Values[4], "ties go to the smallest value")
	assert.Equal(t, true, tb.Column("ok").Values[3])
}

func TestResolveMissingNumericCategoryUsesStrategy(t *testing.T) {
	vals := ints(1, 2, 3, nil, nil, nil, 4, 5, 6, 100)
	median := table.New("t", tagged("score", table.Int64, table.TagCategory, append([]any(nil), vals...)))
	outs := clean.ResolveMissing(median, clean.StrategyMedian, logging.Discard())
	assert.Equal(t, int64(4), outcomeFor(t, outs, "score").Value)
	assert.Equal(t, ints(1, 2, 3, 4, 4, 4, 4, 5, 6, 100), median.Column("score").Values)

	mode := table.New("t", tagged("score", table.Int64, table.TagCategory, append([]any(nil), vals...)))
	outs = clean.ResolveMissing(mode, clean.StrategyMode, logging.Discard())
	assert.Equal(t, int64(1), outcomeFor(t, outs, "score").Value)
}

func TestModeBreaksMixedNumericTiesByType(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, ok := clean.Mode([]any{1.0, int64(1), 1.0, int64(1)})
		require.True(t, ok)
		assert.Equal(t, int64(1), v)
	}
}

func TestResolveMissingSkipsOtherTags(t *testing.T) {
	tb := table.New("t",
		tagged("ref_id", table.String, table.TagForeignID, []any{"a", "b", nil, "a"}),
		tagged("when", table.DateTime, table.TagDate, []any{nil, nil, nil, nil}),
	)
	outs := clean.ResolveMissing(tb, clean.StrategyMedian, logging.Discard())
	assert.Equal(t, clean.ActionSkipped, outcomeFor(t, outs, "ref_id").Action)
	assert.Nil(t, tb.Column("ref_id").Values[2])
	assert.Equal(t, clean.ActionDropped, outcomeFor(t, outs, "when").Action)
}

func TestResolveMissingColumnsAreIndependent(t *testing.T) {
	b := ints(1, 2, nil, 4)
	alone := table.New("t", tagged("b", table.Int64, table.TagNumeric, append([]any(nil), b...)))
	mixed := table.New("t",
		tagged("a", table.Int64, table.TagNumeric, ints(nil, nil, nil, 1)),
		tagged("b", table.Int64, table.TagNumeric, append([]any(nil), b...)),
	)
	clean.ResolveMissing(alone, clean.StrategyMedian, logging.Discard())
	clean.ResolveMissing(mixed, clean.StrategyMedian, logging.Discard())
	assert.Equal(t, alone.Column("b").Values, mixed.Column("b").Values)
}

func TestResolveMissingNoRows(t *testing.T) {
	tb := table.New("t", tagged("a", table.Int64, table.TagNumeric, []any{}))
	outs := clean.ResolveMissing(tb, clean.StrategyMedian, logging.Discard())
	assert.Empty(t, outs)
	assert.Equal(t, 1, tb.Width())
}

func TestValidStrategy(t *testing.T) {
	s, err := clean.ValidStrategy(" Mode ")
	require.NoError(t, err)
	assert.Equal(t, clean.StrategyMode, s)

	s, err = clean.ValidStrategy("")
	require.NoError(t, err)
	assert.Equal(t, clean.StrategyMedian, s)

	s, err = clean.ValidStrategy("bogus")
	assert.Equal(t, clean.StrategyMedian, s)
	var ce *clean.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "bogus", ce.Value)
}

func TestMedianAndMode(t *testing.T) {
	assert.Equal(t, 2.0, clean.Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, clean.Median([]float64{4, 1, 3, 2}))
	xs := []float64{3, 1, 2}
	clean.Median(xs)
	assert.Equal(t, []float64{3, 1, 2}, xs)

	v, ok := clean.Mode([]any{int64(3), int64(1), int64(3), nil, nil, nil})
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = clean.Mode([]any{nil})
	assert.False(t, ok)
}
