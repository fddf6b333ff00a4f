package loader

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
)

// naTokens are read as missing values in text sources.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {},
	"None": {}, "<NA>": {}, "#N/A": {}, "-NaN": {}, "-nan": {},
}

var boolTokens = map[string]bool{
	"True": true, "TRUE": true, "true": true,
	"False": false, "FALSE": false, "false": false,
}

// IsNA reports whether a text cell denotes a missing value.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// FromRecords builds a table from a header and string records. Each column gets the
// narrowest native kind that holds every present value: int64, float64, bool,
// then string. Short records are padded with missing cells.
func FromRecords(name string, header []string, records [][]string) (*table.Table, error) {
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(header))
		}
	}
	header = dedupeHeader(header)
	t := &table.Table{Name: name, Columns: make([]*table.Column, len(header))}
	for j, h := range header {
		raw := make([]string, len(records))
		present := make([]bool, len(records))
		for i, rec := range records {
			if j < len(rec) && !IsNA(rec[j]) {
				raw[i] = strings.TrimSpace(rec[j])
				present[i] = true
			}
		}
		t.Columns[j] = inferColumn(h, raw, present)
	}
	return t, nil
}

// dedupeHeader appends ".1", ".2", ... to repeated labels.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	for i, h := range header {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

func inferColumn(name string, raw []string, present []bool) *table.Column {
	vals := make([]any, len(raw))
	found := false
	for _, p := range present {
		found = found || p
	}
	if !found {
		return table.NewColumn(name, table.Float64, vals)
	}
	try := func(parse func(string) (any, bool)) bool {
		for i, s := range raw {
			if !present[i] {
				vals[i] = nil
				continue
			}
			v, ok := parse(s)
			if !ok {
				return false
			}
			vals[i] = v
		}
		return true
	}
	switch {
	case try(parseInt):
		return table.NewColumn(name, table.Int64, vals)
	case try(parseFloat):
		return table.NewColumn(name, table.Float64, vals)
	case try(parseBool):
		return table.NewColumn(name, table.Boolean, vals)
	}
	for i, s := range raw {
		if present[i] {
			vals[i] = s
		} else {
			vals[i] = nil
		}
	}
	return table.NewColumn(name, table.String, vals)
}

func parseInt(s string) (any, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func parseFloat(s string) (any, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func parseBool(s string) (any, bool) {
	b, ok := boolTokens[s]
	return b, ok
}

// FromValues builds a column from native driver values. Integers widen to int64,
// floats to float64 and byte slices become strings. A column mixing integers and
// floats is stored as float64; any other mix is opaque.
func FromValues(name string, vals []any) *table.Column {
	kind := table.Opaque
	first := true
	for i, v := range vals {
		v = normalizeValue(v)
		vals[i] = v
		if v == nil {
			continue
		}
		k := kindOf(v)
		switch {
		case first:
			kind, first = k, false
		case kind == k:
		case (kind == table.Int64 && k == table.Float64) || (kind == table.Float64 && k == table.Int64):
			kind = table.Float64
		default:
			kind = table.Opaque
		}
	}
	if first {
		kind = table.Float64
	}
	if kind == table.Float64 {
		for i, v := range vals {
			if n, ok := v.(int64); ok {
				vals[i] = float64(n)
			}
		}
	}
	return table.NewColumn(name, kind, vals)
}

func kindOf(v any) table.Kind {
	switch v.(type) {
	case int64:
		return table.Int64
	case float64:
		return table.Float64
	case bool:
		return table.Boolean
	case string:
		return table.String
	case time.Time:
		return table.DateTime
	}
	return table.Opaque
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	}
	return v
}
