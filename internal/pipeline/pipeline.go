// Package pipeline runs the cleaning stages in order over a loaded table.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/edaclean/internal/clean"
	"github.com/KaramelBytes/edaclean/internal/eda"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/google/uuid"
)

// ErrNoTable is returned when Run is given no table, e.g. after a failed load.
var ErrNoTable = errors.New("no table to process")

// Options controls pipeline behavior.
type Options struct {
	// ImputeStrategy for numeric columns: median, mean or mode. Empty means median.
	ImputeStrategy string
}

// Report collects what each stage did.
type Report struct {
	RunID     string
	Renames   []clean.Rename
	Dedupe    clean.DedupeResult
	Coercions []clean.Coercion
	// Tags holds the classification of every column, dropped ones included.
	Tags     map[string]table.Tag
	Missing  []clean.MissingOutcome
	Duration time.Duration
}

// Dropped lists the columns removed by the missing-value resolver.
func (r *Report) Dropped() []string {
	var out []string
	for _, m := range r.Missing {
		if m.Action == clean.ActionDropped {
			out = append(out, m.Column)
		}
	}
	return out
}

// Result is the cleaned, classified table with its report.
type Result struct {
	Table  *table.Table
	Report *Report
}

// Pipeline runs Normalize, Dedupe, Coerce, Classify and ResolveMissing.
type Pipeline struct {
	log  *slog.Logger
	opts Options
}

// New returns a pipeline logging to log.
func New(log *slog.Logger, opts Options) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{log: log, opts: opts}
}

// Run cleans a copy of t; t itself is not modified. Each stage completes before the
// next starts.
func (p *Pipeline) Run(t *table.Table) (*Result, error) {
	if t == nil {
		return nil, ErrNoTable
	}
	// duplicate raw names are resolved by normalization; ragged input is fatal
	if err := t.Validate(); errors.Is(err, table.ErrRagged) {
		return nil, fmt.Errorf("input: %w", err)
	}
	start := time.Now()
	rep := &Report{RunID: uuid.NewString()}
	log := p.log.With("run_id", rep.RunID, "table", t.Name)
	log.Info("pipeline started", "rows", t.Rows(), "columns", t.Width())

	work := t.Clone()
	rep.Renames = clean.NormalizeNames(work, log)
	if err := work.Validate(); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	work, rep.Dedupe = clean.Dedupe(work, log)

	work, rep.Coercions = clean.Coerce(work, log)
	for _, c := range rep.Coercions {
		if c.Err != "" {
			log.Warn("column passed through", "column", c.Column, "error", c.Err)
		}
	}

	rep.Tags = eda.Classify(work, log)

	strategy, err := clean.ValidStrategy(p.opts.ImputeStrategy)
	if err != nil {
		log.Warn("configuration fallback", "error", err)
	}
	rep.Missing = clean.ResolveMissing(work, strategy, log)

	rep.Duration = time.Since(start)
	log.Info("pipeline finished", "rows", work.Rows(), "columns", work.Width(), "dropped", len(rep.Dropped()), "duration", rep.Duration)
	return &Result{Table: work, Report: rep}, nil
}
