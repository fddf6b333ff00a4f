package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edaclean/internal/table"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]; NaN when undefined
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// NumericColumns returns the columns tagged numeric, in table order.
func NumericColumns(t *table.Table) []*table.Column {
	var out []*table.Column
	for _, c := range t.Columns {
		if c.Tag == table.TagNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Correlation computes Pearson r for every pair of numeric-tagged columns using the
// rows where both values are present. It returns nil for fewer than two columns.
func Correlation(t *table.Table) *CorrMatrix {
	cols := NumericColumns(t)
	if len(cols) < 2 {
		return nil
	}
	m := &CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		m.Values[i][i] = 1
		for j := i + 1; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

func pearson(a, b *table.Column) float64 {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, a.Len())
	for k := range a.Values {
		x, okx := table.AsFloat(a.Values[k])
		y, oky := table.AsFloat(b.Values[k])
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// TopPairs lists the off-diagonal pairs ordered by |r|, strongest first. Undefined
// coefficients are skipped.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	if m == nil {
		return nil
	}
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.IsNaN(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
