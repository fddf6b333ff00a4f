// Package clean implements the table cleaning stages: column name normalization,
// duplicate row reduction, type coercion and missing-value resolution.
package clean

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/KaramelBytes/edaclean/internal/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unnamedColumn replaces names that normalize to the empty string.
const unnamedColumn = "unnamed"

var lower = cases.Lower(language.Und)

// NormalizeName turns a raw label into a lowercase identifier made of [a-z0-9_].
// Spaces and hyphens each become one underscore; accents are folded before any
// other character outside the allowed set is removed.
func NormalizeName(raw string) string {
	s := lower.String(strings.TrimSpace(raw))
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rename records a single column rename.
type Rename struct {
	From, To string
}

// NormalizeNames renames every column of t in place and returns the applied renames.
// Names colliding after normalization get "__2", "__3", ... suffixes in column order.
func NormalizeNames(t *table.Table, log *slog.Logger) []Rename {
	log.Info("standardizing column names", "columns", t.Width())
	used := make(map[string]bool, t.Width())
	var renames []Rename
	for _, c := range t.Columns {
		base := NormalizeName(c.Name)
		if base == "" {
			base = unnamedColumn
		}
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s__%d", base, n)
		}
		if name != base {
			log.Warn("column name collision after normalization", "raw", c.Name, "renamed", name)
		}
		used[name] = true
		if name != c.Name {
			renames = append(renames, Rename{From: c.Name, To: name})
			c.Name = name
		}
	}
	log.Debug("columns after normalization", "names", t.Names())
	return renames
}
