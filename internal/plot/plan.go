// Package plot chooses and renders one chart per classified column plus a
// correlation heatmap over the numeric columns.
package plot

import (
	"fmt"

	"github.com/KaramelBytes/edaclean/internal/analysis"
	"github.com/KaramelBytes/edaclean/internal/table"
)

// ChartKind is the type of chart drawn for a column.
type ChartKind string

const (
	Histogram ChartKind = "hist"
	BoolBar   ChartKind = "bool"
	CatBar    ChartKind = "cat"
	Series    ChartKind = "date"
	Heatmap   ChartKind = "heatmap"
)

// TopCategories bounds the bars drawn for a category column.
const TopCategories = 15

// HeatmapFile is the file name of the correlation heatmap.
const HeatmapFile = "correlation_heatmap.png"

// Chart is one planned image.
type Chart struct {
	Kind   ChartKind
	Column string // empty for the heatmap
	Title  string
	File   string
}

// Plan lists the charts for t in column order, followed by the heatmap when at
// least two columns are tagged numeric. Columns with other tags get no chart.
func Plan(t *table.Table) []Chart {
	var out []Chart
	for _, c := range t.Columns {
		var ch Chart
		switch c.Tag {
		case table.TagNumeric:
			ch = Chart{Kind: Histogram, Title: fmt.Sprintf("Distribution of %s", c.Name)}
		case table.TagBoolean:
			ch = Chart{Kind: BoolBar, Title: fmt.Sprintf("Boolean distribution of %s", c.Name)}
		case table.TagCategory:
			ch = Chart{Kind: CatBar, Title: fmt.Sprintf("Top categories in %s", c.Name)}
		case table.TagDate:
			ch = Chart{Kind: Series, Title: fmt.Sprintf("Time series of %s", c.Name)}
		default:
			continue
		}
		ch.Column = c.Name
		ch.File = fmt.Sprintf("%s_%s.png", ch.Kind, c.Name)
		out = append(out, ch)
	}
	if len(analysis.NumericColumns(t)) >= 2 {
		out = append(out, Chart{Kind: Heatmap, Title: "Correlation Heatmap (Numeric Variables)", File: HeatmapFile})
	}
	return out
}

// Bars returns the labels and counts drawn for a boolean or category column:
// present values only, most frequent first, at most limit bars when limit > 0.
func Bars(c *table.Column, limit int) (labels []string, counts []float64) {
	for _, vc := range analysis.ValueCounts(c) {
		if vc.Value == table.NullToken {
			continue
		}
		if limit > 0 && len(labels) == limit {
			break
		}
		labels = append(labels, vc.Value)
		counts = append(counts, float64(vc.Count))
	}
	return labels, counts
}
