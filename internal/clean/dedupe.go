package clean

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
)

// DedupeResult describes what the duplicate reducer removed.
type DedupeResult struct {
	// FullRowSkipped is set when unhashable cells prevented whole-row deduplication.
	FullRowSkipped bool
	FullRowDropped int
	// IDColumn names the first column when it matched IdentifierPattern.
	IDColumn  string
	IDSkipped bool
	IDDropped int
}

// Dedupe removes exact duplicate rows and then rows repeating a value of the first
// column when that column is named like an identifier. The first occurrence, by
// original row order, is kept. The input table is not modified.
func Dedupe(t *table.Table, log *slog.Logger) (*table.Table, DedupeResult) {
	var res DedupeResult
	if t.Rows() == 0 || t.Width() == 0 {
		return t, res
	}

	out := t
	hashable := true
	for _, c := range t.Columns {
		if !c.Hashable() {
			hashable = false
			log.Warn("unhashable values, skipping full-row deduplication", "column", c.Name)
			break
		}
	}
	if hashable {
		seen := make(map[string]struct{}, t.Rows())
		keep := make([]int, 0, t.Rows())
		for i := 0; i < t.Rows(); i++ {
			k := rowKey(t, i)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keep = append(keep, i)
		}
		res.FullRowDropped = t.Rows() - len(keep)
		if res.FullRowDropped > 0 {
			out = t.SelectRows(keep)
		}
	} else {
		res.FullRowSkipped = true
	}

	first := out.Columns[0]
	if !IsIdentifier(first.Name) {
		log.Info("removed duplicate rows", "full_row", res.FullRowDropped)
		return out, res
	}
	res.IDColumn = first.Name
	if !first.Hashable() {
		res.IDSkipped = true
		log.Warn("unhashable identifier column, skipping identifier deduplication", "column", first.Name)
		return out, res
	}
	seen := make(map[any]struct{}, out.Rows())
	keep := make([]int, 0, out.Rows())
	for i, v := range first.Values {
		k, ok := table.Key(v)
		if !ok {
			// missing ids never duplicate each other
			keep = append(keep, i)
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	res.IDDropped = out.Rows() - len(keep)
	if res.IDDropped > 0 {
		out = out.SelectRows(keep)
	}
	log.Info("removed duplicate rows", "full_row", res.FullRowDropped, "id_column", first.Name, "by_id", res.IDDropped)
	return out, res
}

// rowKey encodes a row so that equal rows, missing cells included, share a key.
func rowKey(t *table.Table, i int) string {
	var b strings.Builder
	for _, c := range t.Columns {
		v := c.Values[i]
		switch x := v.(type) {
		case nil:
			b.WriteString("n")
		case int64:
			b.WriteString("i")
			b.WriteString(strconv.FormatInt(x, 10))
		case float64:
			if table.IsNull(x) {
				b.WriteString("n")
				break
			}
			b.WriteString("f")
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		case bool:
			b.WriteString("b")
			b.WriteString(strconv.FormatBool(x))
		case time.Time:
			b.WriteString("t")
			b.WriteString(strconv.FormatInt(x.UnixNano(), 10))
		default:
			s := table.FormatValue(v)
			b.WriteString("s")
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
			b.WriteString(s)
		}
		b.WriteByte('|')
	}
	return b.String()
}
