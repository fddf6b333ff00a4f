package plot

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/edaclean/internal/analysis"
	"github.com/KaramelBytes/edaclean/internal/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// histBins is the bin count of numeric histograms.
const histBins = 20

// Renderer draws planned charts as PNG files into Dir.
type Renderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	log    *slog.Logger
}

// NewRenderer returns a renderer writing into dir with default image sizes.
func NewRenderer(dir string, log *slog.Logger) *Renderer {
	return &Renderer{Dir: dir, Width: 6 * vg.Inch, Height: 4 * vg.Inch, log: log}
}

// Render draws every chart in charts. A chart that fails is logged and skipped;
// the joined errors are returned with the paths that were written.
func (r *Renderer) Render(t *table.Table, charts []Chart) ([]string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	var written []string
	var errs []error
	for _, ch := range charts {
		path := filepath.Join(r.Dir, ch.File)
		if err := r.render(t, ch, path); err != nil {
			r.log.Warn("plot failed", "file", ch.File, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch.File, err))
			continue
		}
		r.log.Info("saved plot", "file", ch.File)
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

// All plans and renders every chart for t.
func (r *Renderer) All(t *table.Table) ([]string, error) {
	charts := Plan(t)
	if len(analysis.NumericColumns(t)) < 2 {
		r.log.Info("not enough numeric columns for a correlation heatmap")
	}
	return r.Render(t, charts)
}

func (r *Renderer) render(t *table.Table, ch Chart, path string) error {
	if ch.Kind == Heatmap {
		return r.heatmap(t, ch, path)
	}
	c := t.Column(ch.Column)
	if c == nil {
		return fmt.Errorf("column %q not found", ch.Column)
	}
	p := plot.New()
	p.Title.Text = ch.Title
	switch ch.Kind {
	case Histogram:
		var vals plotter.Values
		for _, v := range c.Values {
			if f, ok := table.AsFloat(v); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) == 0 {
			return errors.New("no values to plot")
		}
		h, err := plotter.NewHist(vals, histBins)
		if err != nil {
			return err
		}
		p.Add(h)
		p.X.Label.Text = ch.Column
		p.Y.Label.Text = "count"
	case BoolBar, CatBar:
		limit := 0
		if ch.Kind == CatBar {
			limit = TopCategories
		}
		labels, counts := Bars(c, limit)
		if len(labels) == 0 {
			return errors.New("no values to plot")
		}
		bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(20))
		if err != nil {
			return err
		}
		p.Add(bars)
		p.NominalX(labels...)
		p.Y.Label.Text = "count"
	case Series:
		buckets, freq := Bucket(c, "")
		if len(buckets) == 0 {
			return errors.New("no values to plot")
		}
		xys := make(plotter.XYs, len(buckets))
		for i, b := range buckets {
			xys[i].X = float64(b.At.Unix())
			xys[i].Y = float64(b.N)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		p.Add(line)
		p.X.Tick.Marker = plot.TimeTicks{Format: tickFormat(freq)}
		p.Y.Label.Text = "count"
	default:
		return fmt.Errorf("unknown chart kind %q", ch.Kind)
	}
	return p.Save(r.Width, r.Height, path)
}

func tickFormat(f Freq) string {
	switch f {
	case Monthly:
		return "2006-01"
	case Hourly:
		return "01-02 15h"
	}
	return "2006-01-02"
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first column on top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }
func (g corrGrid) label(r int) string { return g.m.Columns[len(g.m.Columns)-1-r] }

func (r *Renderer) heatmap(t *table.Table, ch Chart, path string) error {
	m := analysis.Correlation(t)
	if m == nil {
		return errors.New("fewer than two numeric columns")
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	g := corrGrid{m}
	hm := plotter.NewHeatMap(g, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	p := plot.New()
	p.Title.Text = ch.Title
	p.Add(hm)

	n := len(m.Columns)
	var xt, yt []plot.Tick
	var lbl plotter.XYLabels
	for i := 0; i < n; i++ {
		xt = append(xt, plot.Tick{Value: float64(i), Label: m.Columns[i]})
		yt = append(yt, plot.Tick{Value: float64(i), Label: g.label(i)})
		for j := 0; j < n; j++ {
			lbl.XYs = append(lbl.XYs, plotter.XY{X: float64(i), Y: float64(j)})
			lbl.Labels = append(lbl.Labels, fmt.Sprintf("%.2f", g.Z(i, j)))
		}
	}
	labels, err := plotter.NewLabels(lbl)
	if err != nil {
		return err
	}
	p.Add(labels)
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	side := vg.Length(n)*vg.Inch + 3*vg.Inch
	return p.Save(side, side, path)
}
