package clean

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
)

// Rule names the coercion rule applied to a column.
type Rule string

const (
	RuleIntCollapse   Rule = "float_to_int"
	RuleIdentifier    Rule = "identifier_to_string"
	RuleBinaryText    Rule = "binary_text"
	RuleBinaryNumeric Rule = "binary_numeric"
	RuleDate          Rule = "date"
)

// datePercent is the share of non-null values, in percent, that must parse for a
// column to become a datetime column.
const datePercent = 80

// Coercion records the outcome for one column.
type Coercion struct {
	Column string
	From   table.Kind
	To     table.Kind
	Rules  []Rule
	// Err is set when the column could not be processed and was passed through.
	Err string
}

// Changed reports whether the storage kind moved.
func (c Coercion) Changed() bool { return c.From != c.To }

// Coerce infers a storage kind for every column independently and returns a new
// table. A column that fails is logged and passed through unchanged. Running Coerce
// on its own output changes nothing.
func Coerce(t *table.Table, log *slog.Logger) (*table.Table, []Coercion) {
	out := &table.Table{Name: t.Name, Columns: make([]*table.Column, len(t.Columns))}
	report := make([]Coercion, len(t.Columns))
	for i, c := range t.Columns {
		out.Columns[i], report[i] = coerceIsolated(c, log)
		if report[i].Changed() {
			log.Debug("coerced column", "column", c.Name, "from", report[i].From, "to", report[i].To, "rules", report[i].Rules)
		}
	}
	return out, report
}

func coerceIsolated(c *table.Column, log *slog.Logger) (out *table.Column, cv Coercion) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("column coercion failed, leaving column unchanged", "column", c.Name, "error", r)
			out = c.Clone()
			cv = Coercion{Column: c.Name, From: c.Kind, To: c.Kind, Err: fmt.Sprint(r)}
		}
	}()
	return coerceColumn(c)
}

func coerceColumn(src *table.Column) (*table.Column, Coercion) {
	c := src.Clone()
	cv := Coercion{Column: c.Name, From: c.Kind}

	if collapseFloats(c) {
		cv.Rules = append(cv.Rules, RuleIntCollapse)
	}
	hashable := c.Hashable()
	switch {
	case hashable && identifierToString(c):
		cv.Rules = append(cv.Rules, RuleIdentifier)
	case hashable && binaryText(c):
		cv.Rules = append(cv.Rules, RuleBinaryText)
	case hashable && binaryNumeric(c):
		cv.Rules = append(cv.Rules, RuleBinaryNumeric)
	case inferDates(c):
		cv.Rules = append(cv.Rules, RuleDate)
	}
	cv.To = c.Kind
	return c, cv
}

// collapseFloats turns a Float64 column whose present values are all whole numbers
// into Int64. Missing values never block the collapse.
func collapseFloats(c *table.Column) bool {
	if c.Kind != table.Float64 {
		return false
	}
	for _, v := range c.Values {
		if table.IsNull(v) {
			continue
		}
		f, ok := v.(float64)
		if !ok || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return false
		}
	}
	for i, v := range c.Values {
		if table.IsNull(v) {
			c.Values[i] = nil
			continue
		}
		c.Values[i] = int64(v.(float64))
	}
	c.Kind = table.Int64
	return true
}

// identifierToString keeps numeric identifiers out of arithmetic. Only present
// values take part in the uniqueness check.
func identifierToString(c *table.Column) bool {
	if !c.Kind.Numeric() || !IsIdentifier(c.Name) {
		return false
	}
	distinct, ok := c.Distinct()
	if !ok || distinct != len(c.Values)-c.NullCount() {
		return false
	}
	for i, v := range c.Values {
		if table.IsNull(v) {
			c.Values[i] = nil
			continue
		}
		c.Values[i] = table.FormatValue(v)
	}
	c.Kind = table.String
	return true
}

var binarySets = []map[string]bool{
	{"true": true, "false": false},
	{"yes": true, "no": false},
}

// binaryText maps columns holding exactly {true,false} or {yes,no}, in any case,
// to booleans.
func binaryText(c *table.Column) bool {
	if c.Kind != table.String && c.Kind != table.Opaque && c.Kind != table.Categorical {
		return false
	}
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if table.IsNull(v) {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, set := range binarySets {
		if len(seen) != len(set) {
			continue
		}
		match := true
		for k := range seen {
			if _, ok := set[k]; !ok {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		for i, v := range c.Values {
			if table.IsNull(v) {
				c.Values[i] = nil
				continue
			}
			c.Values[i] = set[strings.ToLower(v.(string))]
		}
		c.Kind = table.Boolean
		return true
	}
	return false
}

// binaryNumeric maps integer columns holding only 0 and 1 to booleans.
func binaryNumeric(c *table.Column) bool {
	if c.Kind != table.Int64 {
		return false
	}
	present := 0
	for _, v := range c.Values {
		if table.IsNull(v) {
			continue
		}
		n, ok := v.(int64)
		if !ok || (n != 0 && n != 1) {
			return false
		}
		present++
	}
	if present == 0 {
		return false
	}
	for i, v := range c.Values {
		if table.IsNull(v) {
			c.Values[i] = nil
			continue
		}
		c.Values[i] = v.(int64) == 1
	}
	c.Kind = table.Boolean
	return true
}

// inferDates parses text columns as dates when more than datePercent percent of the
// present values parse. Values that fail to parse become missing.
func inferDates(c *table.Column) bool {
	if c.Kind != table.String && c.Kind != table.Opaque {
		return false
	}
	parsed := make([]any, len(c.Values))
	present, hits, zoned := 0, 0, false
	for i, v := range c.Values {
		if table.IsNull(v) {
			continue
		}
		present++
		s, ok := v.(string)
		if !ok {
			continue
		}
		ts, z, ok := ParseTime(s)
		if !ok {
			continue
		}
		parsed[i] = ts
		zoned = zoned || z
		hits++
	}
	if present == 0 || hits*100 <= present*datePercent {
		return false
	}
	if zoned {
		for i, v := range parsed {
			if ts, ok := v.(time.Time); ok {
				parsed[i] = ts.UTC()
			}
		}
	}
	c.Values = parsed
	c.Kind = table.DateTime
	c.Zoned = zoned
	return true
}
