// Package table holds the in-memory tabular model shared by every pipeline stage.
//
// A Table is an ordered list of named columns of equal length. Cells are stored as
// plain Go values (int64, float64, bool, string, time.Time, or container values for
// opaque columns); nil is the single missing-value sentinel for every storage kind.
package table

import (
	"errors"
	"fmt"
)

// Kind is the storage representation of a column.
type Kind int

const (
	Opaque Kind = iota
	Int64
	Float64
	Boolean
	String
	DateTime
	Categorical
)

// String returns the dtype name reported in summaries.
func (k Kind) String() string {
	switch k {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Boolean:
		return "bool"
	case String:
		return "string"
	case DateTime:
		return "datetime"
	case Categorical:
		return "category"
	default:
		return "object"
	}
}

// Numeric reports whether the kind stores numbers.
func (k Kind) Numeric() bool { return k == Int64 || k == Float64 }

// Tag is the EDA classification attached to a column after classification.
type Tag string

const (
	TagNone       Tag = ""
	TagBoolean    Tag = "boolean"
	TagPrimaryID  Tag = "primary_id"
	TagForeignID  Tag = "foreign_id"
	TagCategory   Tag = "category"
	TagNumeric    Tag = "numeric"
	TagDate       Tag = "date"
	TagUnhashable Tag = "unhashable"
	TagOther      Tag = "other"
)

// Column pairs a named value vector with its storage kind and EDA tag.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
	// Tag is empty until the classifier runs. Anything that copies or replaces a
	// column must carry it over.
	Tag Tag
	// Zoned is set on DateTime columns whose source values carried a UTC offset.
	Zoned bool
}

// NewColumn builds a column; values are used as-is.
func NewColumn(name string, kind Kind, values []any) *Column {
	return &Column{Name: name, Kind: kind, Values: values}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// Clone returns a copy with its own value slice. Tag and zone flag are kept.
func (c *Column) Clone() *Column {
	vals := make([]any, len(c.Values))
	copy(vals, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: vals, Tag: c.Tag, Zoned: c.Zoned}
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if IsNull(v) {
			n++
		}
	}
	return n
}

// NonNull returns the present values in row order.
func (c *Column) NonNull() []any {
	out := make([]any, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// Hashable reports whether every cell can take part in set membership.
func (c *Column) Hashable() bool {
	for _, v := range c.Values {
		if !Hashable(v) {
			return false
		}
	}
	return true
}

// Distinct counts distinct non-null values. ok is false when the column holds
// unhashable cells.
func (c *Column) Distinct() (n int, ok bool) {
	seen := make(map[any]struct{})
	for _, v := range c.Values {
		if IsNull(v) {
			continue
		}
		k, hashable := Key(v)
		if !hashable {
			return 0, false
		}
		seen[k] = struct{}{}
	}
	return len(seen), true
}

// Format renders cell i for exports.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	if t, ok := timeOf(v); ok {
		return FormatTime(t, c.Zoned)
	}
	if IsNull(v) {
		return ""
	}
	return FormatValue(v)
}

// Table is an ordered collection of equally sized columns.
type Table struct {
	Name    string
	Columns []*Column
}

// ErrRagged is returned by Validate when columns differ in length.
var ErrRagged = errors.New("columns have different lengths")

// New creates a table from columns.
func New(name string, cols ...*Column) *Table {
	return &Table{Name: name, Columns: cols}
}

// Rows returns the row count (0 for a table without columns).
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Width returns the column count.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Names lists the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column or nil.
func (t *Table) Column(name string) *Column {
	if i := t.Index(name); i >= 0 {
		return t.Columns[i]
	}
	return nil
}

// Validate checks equal column lengths and unique names. Length errors are
// reported first and wrap ErrRagged.
func (t *Table) Validate() error {
	for _, c := range t.Columns {
		if c.Len() != t.Rows() {
			return fmt.Errorf("column %q: %w", c.Name, ErrRagged)
		}
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Clone deep-copies the table structure. Cell values are shared.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Clone()
	}
	return &Table{Name: t.Name, Columns: cols}
}

// SelectRows returns a new table holding the given rows in the given order.
func (t *Table) SelectRows(rows []int) *Table {
	cols := make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		vals := make([]any, len(rows))
		for j, r := range rows {
			vals[j] = c.Values[r]
		}
		cols[i] = &Column{Name: c.Name, Kind: c.Kind, Values: vals, Tag: c.Tag, Zoned: c.Zoned}
	}
	return &Table{Name: t.Name, Columns: cols}
}

// Drop removes the named column. It reports whether a column was removed.
func (t *Table) Drop(name string) bool {
	i := t.Index(name)
	if i < 0 {
		return false
	}
	t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
	return true
}

// Row returns the cells of row i.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Values[i]
	}
	return out
}
