package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact report of the summary. corr may be nil.
func (s *Summary) Markdown(name string, corr *CorrMatrix) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", name))
	}
	d := s.Dataset
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", d.Columns))
	missPct := 0.0
	if d.TotalCells > 0 {
		missPct = float64(d.TotalMissing) * 100.0 / float64(d.TotalCells)
	}
	b.WriteString(fmt.Sprintf("Missing cells: %d of %d (%.1f%%)\n", d.TotalMissing, d.TotalCells, missPct))
	b.WriteString(fmt.Sprintf("Memory: %.2f MB\n\n", d.MemoryMB))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Columns {
		eda := string(c.EDAType)
		if eda == "" {
			eda = "unclassified"
		}
		b.WriteString(fmt.Sprintf("- %s: %s (%s)", safeName(c.Name), eda, c.Dtype))
		if !c.Full {
			b.WriteString("\n")
			continue
		}
		if c.NUnique != nil {
			b.WriteString(fmt.Sprintf(" unique %d,", *c.NUnique))
		}
		b.WriteString(fmt.Sprintf(" missing %d", c.Missing))
		switch {
		case c.Numeric:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		case c.Date:
			if c.MinDate != nil {
				b.WriteString(fmt.Sprintf("; %s to %s", *c.MinDate, *c.MaxDate))
			}
		case len(c.ValueCounts) > 0:
			b.WriteString("; top: ")
			lim := min(len(c.ValueCounts), 5)
			for i, kv := range c.ValueCounts[:lim] {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
		}
		b.WriteString("\n")
	}

	if pairs := corr.TopPairs(10); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	return b.String()
}

// MarkdownTable renders a header and rows as a pipe table.
func MarkdownTable(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(h))
	}
	b.WriteString(" |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
