package analysis_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/edaclean/internal/analysis"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func tagged(name string, kind table.Kind, tag table.Tag, vals ...any) *table.Column {
	c := table.NewColumn(name, kind, vals)
	c.Tag = tag
	return c
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func sample() *table.Table {
	return table.New("t",
		tagged("score", table.Int64, table.TagNumeric, int64(1), int64(2), int64(2), nil),
		tagged("ok", table.Boolean, table.TagBoolean, true, false, true, nil),
		tagged("when", table.DateTime, table.TagDate, nil, nil, nil, nil),
		tagged("raw", table.Opaque, table.TagUnhashable, []any{1}, "a", "b", "c"),
	)
}

func TestSummarizeDatasetBlock(t *testing.T) {
	s := analysis.Summarize(sample())
	d := s.Dataset
	assert.Equal(t, 4, d.Rows)
	assert.Equal(t, 4, d.Columns)
	assert.Equal(t, 16, d.TotalCells)
	assert.Equal(t, 6, d.TotalMissing)
	assert.Equal(t, []string{"score", "ok", "when", "raw"}, d.ColumnNames)
	assert.Equal(t, []string{"int64", "bool", "datetime", "object"}, d.Dtypes)
	assert.GreaterOrEqual(t, d.MemoryMB, 0.0)
}

func TestSummarizeNumeric(t *testing.T) {
	s := analysis.Summarize(sample())
	c := s.Column("score")
	require.NotNil(t, c)
	assert.Equal(t, 1.0, c.Min)
	assert.Equal(t, 2.0, c.Max)
	assert.Equal(t, 1.6667, c.Mean)
	assert.Equal(t, 1, c.Missing)
	require.NotNil(t, c.NUnique)
	assert.Equal(t, 2, *c.NUnique)
}

func TestSummarizeValueCounts(t *testing.T) {
	s := analysis.Summarize(sample())
	c := s.Column("ok")
	require.NotNil(t, c)
	assert.Equal(t, []analysis.ValueCount{
		{Value: "true", Count: 2},
		{Value: table.NullToken, Count: 1},
		{Value: "false", Count: 1},
	}, c.ValueCounts)
}

func TestSummaryJSON(t *testing.T) {
	raw, err := encode(analysis.Summarize(sample()))
	require.NoError(t, err)
	js := string(raw)

	assert.True(t, strings.HasPrefix(js, `{"_dataset_":{"rows":4,`), js)
	assert.Less(t, strings.Index(js, `"score":{`), strings.Index(js, `"ok":{`))
	assert.Less(t, strings.Index(js, `"ok":{`), strings.Index(js, `"when":{`))
	assert.Contains(t, js, `"raw":{"eda_type":"unhashable","dtype":"object"}`)
	assert.Contains(t, js, `"min_date":null,"max_date":null`)
	assert.Contains(t, js, `"value_counts":{"true":2,"<NA>":1,"false":1}`)
	assert.Contains(t, js, `"mean":1.6667`)

	var back map[string]any
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Len(t, back, 5)
}

func TestSummaryUnclassifiedTable(t *testing.T) {
	tb := table.New("t", table.NewColumn("x", table.Int64, []any{int64(1), int64(2)}))
	s := analysis.Summarize(tb)
	raw, err := encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"_dataset_":{"rows":2,"columns":1,`)
	assert.Contains(t, string(raw), `"x":{"eda_type":null,"dtype":"int64","n_unique":2,"missing":0}`)
}

func TestSummaryAllMissingNumeric(t *testing.T) {
	tb := table.New("t", tagged("x", table.Float64, table.TagNumeric, math.NaN(), nil))
	raw, err := encode(analysis.Summarize(tb))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"min":null,"max":null,"mean":null`)
}

func TestSummaryDateRange(t *testing.T) {
	a := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	tb := table.New("t", tagged("when", table.DateTime, table.TagDate, a, nil, b))
	c := analysis.Summarize(tb).Column("when")
	require.NotNil(t, c.MinDate)
	assert.Equal(t, "2023-06-01T00:00:00", *c.MinDate)
	assert.Equal(t, "2024-01-02T03:04:05", *c.MaxDate)
}

func TestSummaryYAML(t *testing.T) {
	out, err := yaml.Marshal(analysis.Summarize(sample()))
	require.NoError(t, err)
	y := string(out)
	assert.True(t, strings.HasPrefix(y, "_dataset_:"), y)
	assert.Contains(t, y, "value_counts:")
	assert.Less(t, strings.Index(y, "score:"), strings.Index(y, "raw:"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Contains(t, back, "when")
}

func TestSummaryFlat(t *testing.T) {
	header, rows := analysis.Summarize(sample()).Flat()
	assert.Equal(t, []string{"column", "eda_type", "dtype", "n_unique", "missing", "min", "max", "mean", "min_date", "max_date"}, header)
	require.Len(t, rows, 4)
	assert.Equal(t, "score", rows[0][0])
	assert.Equal(t, "1.6667", rows[0][7])
	assert.Equal(t, []string{"raw", "unhashable", "object", "", "", "", "", "", "", ""}, rows[3])
	assert.NotContains(t, header, "value_counts")
}
