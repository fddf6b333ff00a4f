// Package analysis computes descriptive statistics over a classified table.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// DatasetKey is the summary key of the whole-table block.
const DatasetKey = "_dataset_"

// Summary maps every column to its statistics, plus the dataset block.
type Summary struct {
	Dataset DatasetSummary
	Columns []ColumnSummary
}

// DatasetSummary describes the table as a whole.
type DatasetSummary struct {
	Rows         int      `json:"rows" yaml:"rows"`
	Columns      int      `json:"columns" yaml:"columns"`
	TotalCells   int      `json:"total_nr_of_cells" yaml:"total_nr_of_cells"`
	TotalMissing int      `json:"total_missing_values" yaml:"total_missing_values"`
	ColumnNames  []string `json:"column_names" yaml:"column_names"`
	Dtypes       []string `json:"dtypes" yaml:"dtypes"`
	MemoryMB     float64  `json:"memory_usage_mb" yaml:"memory_usage_mb"`
}

// ValueCount is one bucket of a value-count mapping.
type ValueCount struct {
	Value string
	Count int
}

// ColumnSummary holds the statistics selected by a column's EDA tag. Pointer and
// slice fields are nil when the statistic does not apply.
type ColumnSummary struct {
	Name    string
	EDAType table.Tag
	Dtype   string
	// Full is false for unhashable columns, which report only EDAType and Dtype.
	Full    bool
	NUnique *int
	Missing int

	Numeric  bool
	Min, Max float64
	Mean     float64

	Date             bool
	MinDate, MaxDate *string

	ValueCounts []ValueCount
}

// Column returns the summary of the named column or nil.
func (s *Summary) Column(name string) *ColumnSummary {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// Summarize computes the summary of t. It does not modify t.
func Summarize(t *table.Table) *Summary {
	s := &Summary{Dataset: datasetSummary(t)}
	for _, c := range t.Columns {
		s.Columns = append(s.Columns, summarizeColumn(c))
	}
	return s
}

func datasetSummary(t *table.Table) DatasetSummary {
	d := DatasetSummary{
		Rows:        t.Rows(),
		Columns:     t.Width(),
		TotalCells:  t.Rows() * t.Width(),
		ColumnNames: t.Names(),
		Dtypes:      make([]string, 0, t.Width()),
	}
	var bytes int
	for _, c := range t.Columns {
		d.TotalMissing += c.NullCount()
		d.Dtypes = append(d.Dtypes, c.Kind.String())
		bytes += memoryUsage(c)
	}
	d.MemoryMB = roundTo(float64(bytes)/1e6, 2)
	return d
}

// memoryUsage approximates the in-memory footprint of a column in bytes.
func memoryUsage(c *table.Column) int {
	switch c.Kind {
	case table.Int64, table.Float64:
		return 8 * c.Len()
	case table.Boolean:
		return c.Len()
	case table.DateTime:
		return 24 * c.Len()
	}
	n := 0
	for _, v := range c.Values {
		n += 16
		if s, ok := v.(string); ok {
			n += len(s)
		}
	}
	return n
}

func summarizeColumn(c *table.Column) ColumnSummary {
	cs := ColumnSummary{Name: c.Name, EDAType: c.Tag, Dtype: c.Kind.String()}
	if c.Tag == table.TagUnhashable {
		return cs
	}
	cs.Full = true
	if n, ok := c.Distinct(); ok {
		cs.NUnique = &n
	}
	cs.Missing = c.NullCount()

	switch c.Tag {
	case table.TagNumeric:
		xs := numericValues(c)
		cs.Numeric = true
		if len(xs) == 0 {
			cs.Min, cs.Max, cs.Mean = math.NaN(), math.NaN(), math.NaN()
			break
		}
		cs.Min = floats.Min(xs)
		cs.Max = floats.Max(xs)
		cs.Mean = roundTo(floats.Sum(xs)/float64(len(xs)), 4)
	case table.TagDate:
		cs.Date = true
		lo, hi, ok := timeRange(c)
		if ok {
			a, b := table.FormatTime(lo, c.Zoned), table.FormatTime(hi, c.Zoned)
			cs.MinDate, cs.MaxDate = &a, &b
		}
	case table.TagBoolean, table.TagCategory:
		cs.ValueCounts = ValueCounts(c)
	}
	return cs
}

func numericValues(c *table.Column) []float64 {
	xs := make([]float64, 0, c.Len())
	for _, v := range c.Values {
		if f, ok := table.AsFloat(v); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

func timeRange(c *table.Column) (lo, hi time.Time, ok bool) {
	for _, v := range c.Values {
		ts, isTime := v.(time.Time)
		if !isTime {
			continue
		}
		if !ok || ts.Before(lo) {
			lo = ts
		}
		if !ok || ts.After(hi) {
			hi = ts
		}
		ok = true
	}
	return lo, hi, ok
}

// ValueCounts counts the string form of every cell, missing cells under
// table.NullToken. Buckets are ordered by count, then by value.
func ValueCounts(c *table.Column) []ValueCount {
	counts := make(map[string]int)
	for _, v := range c.Values {
		counts[table.FormatValue(v)]++
	}
	out := make([]ValueCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, ValueCount{Value: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// roundTo rounds half away from zero at the given number of decimal places.
func roundTo(f float64, places int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return r
}
