package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/KaramelBytes/edaclean/internal/analysis"
	cfgpkg "github.com/KaramelBytes/edaclean/internal/config"
	"github.com/KaramelBytes/edaclean/internal/loader"
	"github.com/KaramelBytes/edaclean/internal/pipeline"
	"github.com/KaramelBytes/edaclean/internal/plot"
	"github.com/KaramelBytes/edaclean/internal/report"
)

// errNoInput is returned when neither a path, a database nor a default dataset is set.
var errNoInput = errors.New("no input given: pass a file path, --db, or set use_default_dataset and default_dataset")

// sourceFlags are the per-command source overrides.
type sourceFlags struct {
	db        string
	tableName string
	sheet     string
	delimiter string
}

// resolveSource picks the input: an explicit path, then a database URL, then the
// configured default dataset.
func resolveSource(c *cfgpkg.Global, args []string, sf sourceFlags) (loader.Source, error) {
	delim := sf.delimiter
	if delim == "" {
		delim = c.Delimiter
	}
	d, err := cfgpkg.Delim(delim)
	if err != nil {
		return loader.Source{}, err
	}
	src := loader.Source{Table: sf.tableName, Sheet: sf.sheet, Delimiter: d}
	if src.Table == "" {
		src.Table = c.TableName
	}
	if src.Sheet == "" {
		src.Sheet = c.SheetName
	}
	switch {
	case len(args) > 0:
		src.Path = args[0]
	case sf.db != "":
		src.DSN = sf.db
	case c.DatabaseURL != "":
		src.DSN = c.DatabaseURL
	case c.UseDefaultDataset && c.DefaultDataset != "":
		src.Path = c.DefaultDataset
	default:
		return loader.Source{}, errNoInput
	}
	return src, nil
}

// job is one load, clean and write cycle.
type job struct {
	cfg    *cfgpkg.Global
	log    *slog.Logger
	src    loader.Source
	outDir string
	plots  bool
}

// jobResult is what a job produced.
type jobResult struct {
	Result  *pipeline.Result
	Summary *analysis.Summary
	Corr    *analysis.CorrMatrix
	Files   []string
}

func (j job) run(ctx context.Context) (*jobResult, error) {
	c := j.cfg
	if err := report.CheckFormats(c.TableFormat, c.SummaryFormat, c.ExportFormat); err != nil {
		return nil, err
	}
	t, err := loader.Load(ctx, j.src)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.New(j.log, pipeline.Options{ImputeStrategy: c.ImputeStrategy}).Run(t)
	if err != nil {
		return nil, err
	}
	out := &jobResult{
		Result:  res,
		Summary: analysis.Summarize(res.Table),
		Corr:    analysis.Correlation(res.Table),
	}
	log := j.log.With("run_id", res.Report.RunID)

	path, err := report.WriteTable(res.Table, j.outDir, c.TableFormat)
	if err != nil {
		return out, err
	}
	out.Files = append(out.Files, path)
	files, err := report.WriteSummary(out.Summary, j.outDir, c.SummaryFormat)
	out.Files = append(out.Files, files...)
	if err != nil {
		return out, err
	}
	files, err = report.WriteSummaryTable(out.Summary, j.outDir, c.ExportFormat)
	out.Files = append(out.Files, files...)
	if err != nil {
		return out, err
	}
	path, err = report.WriteMarkdown(out.Summary, out.Corr, j.src.String(), j.outDir)
	if err != nil {
		return out, err
	}
	out.Files = append(out.Files, path)
	log.Info("reports written", "dir", j.outDir, "files", len(out.Files))

	if j.plots {
		written, err := plot.NewRenderer(filepath.Join(j.outDir, "plots"), log).All(res.Table)
		out.Files = append(out.Files, written...)
		if err != nil {
			log.Warn("some plots failed", "error", err)
		}
	}
	return out, nil
}

// printTypes writes one line per column with its EDA tag and storage kind.
func printTypes(w io.Writer, r *pipeline.Result) {
	for _, c := range r.Table.Columns {
		fmt.Fprintf(w, "  %-30s %-12s %s\n", c.Name, c.Tag, c.Kind)
	}
	for _, name := range r.Report.Dropped() {
		fmt.Fprintf(w, "  %-30s %-12s dropped (missing values)\n", name, r.Report.Tags[name])
	}
}
