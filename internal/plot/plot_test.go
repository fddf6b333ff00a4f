package plot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/edaclean/internal/logging"
	"github.com/KaramelBytes/edaclean/internal/plot"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestChooseFreq(t *testing.T) {
	cases := []struct {
		span time.Duration
		want plot.Freq
	}{
		{731 * day, plot.Monthly},
		{730 * day, plot.Weekly},
		{91 * day, plot.Weekly},
		{90 * day, plot.Daily},
		{8 * day, plot.Daily},
		{7 * day, plot.Hourly},
		{0, plot.Hourly},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, plot.ChooseFreq(c.span), "span %v", c.span)
	}
}

func TestTruncate(t *testing.T) {
	wed := time.Date(2024, 1, 3, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), plot.Truncate(wed, plot.Weekly))
	sun := time.Date(2024, 1, 7, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), plot.Truncate(sun, plot.Weekly))
	mon := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), plot.Truncate(mon, plot.Weekly))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), plot.Truncate(wed, plot.Monthly))
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), plot.Truncate(wed, plot.Daily))
	assert.Equal(t, time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC), plot.Truncate(wed, plot.Hourly))
}

func TestBucket(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)
	c := table.NewColumn("when", table.DateTime, []any{
		base.Add(2 * time.Hour), base, nil, base.Add(10 * time.Minute), base.Add(2*time.Hour + time.Minute),
	})
	counts, freq := plot.Bucket(c, "")
	assert.Equal(t, plot.Hourly, freq)
	require.Len(t, counts, 2)
	assert.Equal(t, 2, counts[0].N)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), counts[1].At)
	assert.Equal(t, 2, counts[1].N)

	empty, _ := plot.Bucket(table.NewColumn("when", table.DateTime, []any{nil}), "")
	assert.Empty(t, empty)
}

func tagged(name string, kind table.Kind, tag table.Tag, vals ...any) *table.Column {
	c := table.NewColumn(name, kind, vals)
	c.Tag = tag
	return c
}

func chartTable() *table.Table {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return table.New("t",
		tagged("user_id", table.String, table.TagPrimaryID, "1", "2", "3", "4"),
		tagged("price", table.Float64, table.TagNumeric, 1.5, 2.5, 3.0, 10.0),
		tagged("qty", table.Int64, table.TagNumeric, int64(3), int64(1), int64(4), int64(1)),
		tagged("ok", table.Boolean, table.TagBoolean, true, false, true, nil),
		tagged("city", table.String, table.TagCategory, "NY", "LA", "NY", "SF"),
		tagged("when", table.DateTime, table.TagDate, d, d.Add(day), d.Add(3*day), nil),
	)
}

func TestPlan(t *testing.T) {
	charts := plot.Plan(chartTable())
	var files []string
	for _, c := range charts {
		files = append(files, c.File)
	}
	assert.Equal(t, []string{
		"hist_price.png", "hist_qty.png", "bool_ok.png", "cat_city.png", "date_when.png", plot.HeatmapFile,
	}, files)
	assert.Equal(t, plot.Heatmap, charts[len(charts)-1].Kind)
	assert.Empty(t, charts[len(charts)-1].Column)
}

func TestPlanSkipsHeatmapWithOneNumericColumn(t *testing.T) {
	tb := table.New("t", tagged("price", table.Float64, table.TagNumeric, 1.5, 2.5))
	charts := plot.Plan(tb)
	require.Len(t, charts, 1)
	assert.Equal(t, plot.Histogram, charts[0].Kind)
}

func TestBarsLimit(t *testing.T) {
	vals := make([]any, 0, 21)
	for i := 0; i < 20; i++ {
		vals = append(vals, fmt.Sprintf("c%02d", i))
	}
	vals = append(vals, nil)
	labels, counts := plot.Bars(table.NewColumn("cat", table.String, vals), plot.TopCategories)
	assert.Len(t, labels, plot.TopCategories)
	assert.Len(t, counts, plot.TopCategories)
	assert.NotContains(t, labels, table.NullToken)
}

func TestRenderWritesImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := plot.NewRenderer(dir, logging.Discard())
	written, err := r.All(chartTable())
	require.NoError(t, err)
	assert.Len(t, written, 6)
	for _, p := range written {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, st.Size(), p)
	}
	assert.FileExists(t, filepath.Join(dir, plot.HeatmapFile))
}

func TestRenderReportsFailuresAndContinues(t *testing.T) {
	tb := table.New("t",
		tagged("empty", table.Float64, table.TagNumeric, nil, nil),
		tagged("ok", table.Boolean, table.TagBoolean, true, false),
	)
	r := plot.NewRenderer(t.TempDir(), logging.Discard())
	written, err := r.All(tb)
	assert.Error(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, "bool_ok.png", filepath.Base(written[0]))
}
