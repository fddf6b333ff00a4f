package clean

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/edaclean/internal/table"
	"gonum.org/v1/gonum/stat"
)

// Imputation strategies for numeric columns.
const (
	StrategyMedian = "median"
	StrategyMean   = "mean"
	StrategyMode   = "mode"
)

// DropPercent is the missing share, in percent, at or above which a column is dropped.
const DropPercent = 50.0

// ConfigError reports a configuration value that was replaced by its default.
type ConfigError struct {
	Key      string
	Value    string
	Fallback string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown %s %q, using %q", e.Key, e.Value, e.Fallback)
}

// ValidStrategy normalizes a strategy name. Unknown names resolve to median and
// return a *ConfigError describing the fallback.
func ValidStrategy(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	switch s {
	case StrategyMedian, StrategyMean, StrategyMode:
		return s, nil
	case "":
		return StrategyMedian, nil
	}
	return StrategyMedian, &ConfigError{Key: "impute strategy", Value: name, Fallback: StrategyMedian}
}

// MissingAction is what the resolver did to a column.
type MissingAction string

const (
	ActionNone    MissingAction = "none"
	ActionDropped MissingAction = "dropped"
	ActionImputed MissingAction = "imputed"
	ActionSkipped MissingAction = "skipped"
)

// MissingOutcome records the resolver's decision for one column.
type MissingOutcome struct {
	Column  string
	Percent float64
	Action  MissingAction
	// Value is the fill value when Action is ActionImputed.
	Value any
}

// ResolveMissing drops columns with at least DropPercent missing cells and imputes
// the rest in place according to their EDA tag. Numeric columns use strategy;
// boolean and category columns use the mode. Other tags are never imputed.
// Decisions depend only on each column's own data.
func ResolveMissing(t *table.Table, strategy string, log *slog.Logger) []MissingOutcome {
	strategy, err := ValidStrategy(strategy)
	if err != nil {
		log.Warn("invalid imputation strategy", "error", err)
	}
	rows := t.Rows()
	outcomes := make([]MissingOutcome, 0, t.Width())
	if rows == 0 {
		return outcomes
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		nulls := c.NullCount()
		pct := float64(nulls) / float64(rows) * 100
		o := MissingOutcome{Column: c.Name, Percent: pct, Action: ActionNone}
		switch {
		case nulls == 0:
		case pct >= DropPercent:
			o.Action = ActionDropped
			log.Info("dropping column", "column", c.Name, "missing_pct", round2(pct))
			outcomes = append(outcomes, o)
			continue
		default:
			if v, ok := impute(c, strategy); ok {
				o.Action = ActionImputed
				o.Value = v
				log.Info("imputed column", "column", c.Name, "missing_pct", round2(pct), "value", v)
			} else {
				o.Action = ActionSkipped
				log.Debug("column left unimputed", "column", c.Name, "eda_type", c.Tag)
			}
		}
		kept = append(kept, c)
		outcomes = append(outcomes, o)
	}
	for i := len(kept); i < len(t.Columns); i++ {
		t.Columns[i] = nil
	}
	t.Columns = kept
	return outcomes
}

func impute(c *table.Column, strategy string) (any, bool) {
	var fill any
	switch c.Tag {
	case table.TagNumeric:
		if !c.Kind.Numeric() {
			return nil, false
		}
		var ok bool
		fill, ok = numericFill(c, strategy)
		if !ok {
			return nil, false
		}
	case table.TagCategory:
		var ok bool
		if c.Kind.Numeric() {
			fill, ok = numericFill(c, strategy)
		} else {
			fill, ok = Mode(c.Values)
		}
		if !ok {
			return nil, false
		}
	case table.TagBoolean:
		var ok bool
		fill, ok = Mode(c.Values)
		if !ok {
			return nil, false
		}
	default:
		return nil, false
	}
	if f, ok := fill.(float64); ok && c.Kind == table.Int64 {
		if f == math.Trunc(f) {
			fill = int64(f)
		} else {
			promote(c)
		}
	}
	for i, v := range c.Values {
		if table.IsNull(v) {
			c.Values[i] = fill
		}
	}
	return fill, true
}

// promote widens an Int64 column to Float64.
func promote(c *table.Column) {
	for i, v := range c.Values {
		if n, ok := v.(int64); ok {
			c.Values[i] = float64(n)
		}
	}
	c.Kind = table.Float64
}

func numericFill(c *table.Column, strategy string) (any, bool) {
	xs := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := table.AsFloat(v); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return nil, false
	}
	switch strategy {
	case StrategyMean:
		return stat.Mean(xs, nil), true
	case StrategyMode:
		return Mode(c.Values)
	}
	return Median(xs), true
}

// Median returns the middle value of xs, averaging the two central values for even
// lengths. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}

// Mode returns the most frequent present value. Ties go to the value ordered first by
// table.Compare.
func Mode(values []any) (any, bool) {
	counts := make(map[any]int)
	firsts := make(map[any]any)
	for _, v := range values {
		k, ok := table.Key(v)
		if !ok {
			continue
		}
		if _, seen := firsts[k]; !seen {
			firsts[k] = v
		}
		counts[k]++
	}
	var best any
	bestN := 0
	for k, n := range counts {
		v := firsts[k]
		if n > bestN || (n == bestN && table.Compare(v, best) < 0) {
			best, bestN = v, n
		}
	}
	return best, bestN > 0
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
