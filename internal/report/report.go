// Package report writes the cleaned table, the summary document and the flat
// summary table into an output directory.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edaclean/internal/analysis"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/KaramelBytes/edaclean/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Output file names.
const (
	CleanCSV         = "clean_data.csv"
	CleanXLSX        = "clean_data.xlsx"
	SummaryJSON      = "summary.json"
	SummaryYAML      = "summary.yaml"
	SummaryMarkdown  = "summary.md"
	SummaryTableCSV  = "summary_table.csv"
	SummaryTableMD   = "summary_table.md"
	cleanSheet       = "clean_data"
	defaultSheetName = "Sheet1"
)

var (
	tableFormats   = []string{"csv", "xlsx"}
	summaryFormats = []string{"json", "yaml", "all"}
	flatFormats    = []string{"csv", "md", "all"}
)

// CheckFormats validates export format names before any work is done.
func CheckFormats(tableFormat, summaryFormat, flatFormat string) error {
	for _, c := range []struct {
		v       string
		allowed []string
	}{{tableFormat, tableFormats}, {summaryFormat, summaryFormats}, {flatFormat, flatFormats}} {
		if !contains(c.allowed, strings.ToLower(c.v)) {
			return &FormatError{Format: c.v, Allowed: c.allowed}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// WriteTable exports the cleaned table as csv or xlsx and returns the written path.
func WriteTable(t *table.Table, dir, format string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	switch strings.ToLower(format) {
	case "csv":
		path := filepath.Join(dir, CleanCSV)
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Names()); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
		row := make([]string, t.Width())
		for i := 0; i < t.Rows(); i++ {
			for j, c := range t.Columns {
				row[j] = c.Format(i)
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("write csv: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
		return path, utils.SafeWriteFile(path, buf.Bytes())
	case "xlsx":
		path := filepath.Join(dir, CleanXLSX)
		return path, writeXLSX(t, path)
	}
	return "", &FormatError{Format: format, Allowed: tableFormats}
}

func writeXLSX(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(defaultSheetName, cleanSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	header := make([]any, t.Width())
	for j, n := range t.Names() {
		header[j] = n
	}
	if err := f.SetSheetRow(cleanSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		row := make([]any, t.Width())
		for j, c := range t.Columns {
			row[j] = xlsxCell(c, i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(cleanSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func xlsxCell(c *table.Column, i int) any {
	v := c.Values[i]
	switch v.(type) {
	case nil:
		return nil
	case int64, float64, bool, string:
		if table.IsNull(v) {
			return nil
		}
		return v
	}
	return c.Format(i)
}

// WriteSummary writes summary.json and/or summary.yaml by format json|yaml|all.
func WriteSummary(s *analysis.Summary, dir, format string) ([]string, error) {
	f := strings.ToLower(format)
	if !contains(summaryFormats, f) {
		return nil, &FormatError{Format: format, Allowed: summaryFormats}
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	var written []string
	if f == "json" || f == "all" {
		b, err := utils.PrettyJSON(s)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, SummaryJSON)
		if err := utils.SafeWriteFile(path, b); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if f == "yaml" || f == "all" {
		b, err := yaml.Marshal(s)
		if err != nil {
			return written, fmt.Errorf("marshal yaml: %w", err)
		}
		path := filepath.Join(dir, SummaryYAML)
		if err := utils.SafeWriteFile(path, b); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteSummaryTable flattens the summary and writes summary_table.csv and/or
// summary_table.md by format csv|md|all.
func WriteSummaryTable(s *analysis.Summary, dir, format string) ([]string, error) {
	f := strings.ToLower(format)
	if !contains(flatFormats, f) {
		return nil, &FormatError{Format: format, Allowed: flatFormats}
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	header, rows := s.Flat()
	var written []string
	if f == "csv" || f == "all" {
		b, err := flatCSV(header, rows)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, SummaryTableCSV)
		if err := utils.SafeWriteFile(path, b); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if f == "md" || f == "all" {
		path := filepath.Join(dir, SummaryTableMD)
		if err := utils.SafeWriteFile(path, []byte(analysis.MarkdownTable(header, rows))); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// flatCSV renders the flat table through a gota DataFrame with every column kept
// as text.
func flatCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if len(rows) == 0 {
		w := csv.NewWriter(&buf)
		_ = w.Write(header)
		w.Flush()
		return buf.Bytes(), w.Error()
	}
	records := append([][]string{header}, rows...)
	df := dataframe.LoadRecords(records, dataframe.HasHeader(true), dataframe.DetectTypes(false))
	if df.Err != nil {
		return nil, fmt.Errorf("build summary table: %w", df.Err)
	}
	if err := df.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("write summary table: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMarkdown writes the readable summary report.
func WriteMarkdown(s *analysis.Summary, corr *analysis.CorrMatrix, name, dir string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SummaryMarkdown)
	return path, utils.SafeWriteFile(path, []byte(s.Markdown(name, corr)))
}
