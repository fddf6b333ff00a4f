package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/edaclean/internal/table"
	"gopkg.in/yaml.v3"
)

type field struct {
	key   string
	value any
}

// orderedMap marshals as a mapping that keeps insertion order.
type orderedMap []field

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalRaw(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalRaw(f.value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f.key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping so tokens like <NA> stay readable.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (m orderedMap) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range m {
		var v yaml.Node
		if err := v.Encode(f.value); err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f.key, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key}, &v)
	}
	return n, nil
}

// number maps NaN to null.
func number(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func (d DatasetSummary) fields() orderedMap {
	return orderedMap{
		{"rows", d.Rows},
		{"columns", d.Columns},
		{"total_nr_of_cells", d.TotalCells},
		{"total_missing_values", d.TotalMissing},
		{"column_names", d.ColumnNames},
		{"dtypes", d.Dtypes},
		{"memory_usage_mb", d.MemoryMB},
	}
}

func (c ColumnSummary) fields() orderedMap {
	var eda any
	if c.EDAType != table.TagNone {
		eda = string(c.EDAType)
	}
	m := orderedMap{{"eda_type", eda}, {"dtype", c.Dtype}}
	if !c.Full {
		return m
	}
	var nu any
	if c.NUnique != nil {
		nu = *c.NUnique
	}
	m = append(m, field{"n_unique", nu}, field{"missing", c.Missing})
	if c.Numeric {
		m = append(m, field{"min", number(c.Min)}, field{"max", number(c.Max)}, field{"mean", number(c.Mean)})
	}
	if c.Date {
		m = append(m, field{"min_date", c.MinDate}, field{"max_date", c.MaxDate})
	}
	if c.EDAType == table.TagBoolean || c.EDAType == table.TagCategory {
		vc := make(orderedMap, 0, len(c.ValueCounts))
		for _, b := range c.ValueCounts {
			vc = append(vc, field{b.Value, b.Count})
		}
		m = append(m, field{"value_counts", vc})
	}
	return m
}

func (s *Summary) fields() orderedMap {
	m := orderedMap{{DatasetKey, s.Dataset.fields()}}
	for _, c := range s.Columns {
		m = append(m, field{c.Name, c.fields()})
	}
	return m
}

// MarshalJSON writes the dataset block first, then columns in table order.
func (s *Summary) MarshalJSON() ([]byte, error) { return s.fields().MarshalJSON() }

// MarshalYAML mirrors MarshalJSON.
func (s *Summary) MarshalYAML() (any, error) { return s.fields().MarshalYAML() }

// Flat flattens the per-column statistics into a table. Nested mappings such as
// value counts are left out; the header is the union of keys in first-seen order.
func (s *Summary) Flat() (header []string, rows [][]string) {
	header = []string{"column"}
	pos := map[string]int{"column": 0}
	maps := make([]orderedMap, len(s.Columns))
	for i, c := range s.Columns {
		maps[i] = c.fields()
		for _, f := range maps[i] {
			if _, nested := f.value.(orderedMap); nested {
				continue
			}
			if _, ok := pos[f.key]; !ok {
				pos[f.key] = len(header)
				header = append(header, f.key)
			}
		}
	}
	for i, c := range s.Columns {
		row := make([]string, len(header))
		row[0] = c.Name
		for _, f := range maps[i] {
			j, ok := pos[f.key]
			if !ok {
				continue
			}
			row[j] = flatValue(f.value)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func flatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
