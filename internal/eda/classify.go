// Package eda assigns the analysis tag that drives summaries and charts.
package eda

import (
	"log/slog"

	"github.com/KaramelBytes/edaclean/internal/clean"
	"github.com/KaramelBytes/edaclean/internal/table"
)

// CategoryLimit is the exclusive upper bound on distinct values for a category column.
const CategoryLimit = 13

// TagOf computes the tag for one column from its name, storage kind and values.
func TagOf(c *table.Column) table.Tag {
	distinct, hashable := c.Distinct()
	switch {
	case !hashable:
		return table.TagUnhashable
	case c.Kind == table.Boolean:
		return table.TagBoolean
	case c.Kind == table.DateTime:
		return table.TagDate
	case clean.IsIdentifier(c.Name):
		if distinct == c.Len() {
			return table.TagPrimaryID
		}
		return table.TagForeignID
	case distinct < CategoryLimit:
		return table.TagCategory
	case c.Kind.Numeric():
		return table.TagNumeric
	}
	return table.TagOther
}

// Classify tags every column of t in place and returns the tags by column name.
func Classify(t *table.Table, log *slog.Logger) map[string]table.Tag {
	tags := make(map[string]table.Tag, t.Width())
	for _, c := range t.Columns {
		c.Tag = TagOf(c)
		tags[c.Name] = c.Tag
	}
	log.Info("classified columns", "columns", t.Width())
	return tags
}

// Counts tallies columns per tag.
func Counts(t *table.Table) map[table.Tag]int {
	out := make(map[table.Tag]int)
	for _, c := range t.Columns {
		out[c.Tag]++
	}
	return out
}
