package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(src Source) bool {
	return src.DSN == "" && hasSuffix(src.Path, ".xlsx", ".xlsm")
}

func (xlsxLoader) Load(_ context.Context, src Source) (*table.Table, error) {
	return LoadXLSX(src.Path, src.Sheet)
}

// LoadXLSX reads one worksheet; the first row is the header. An empty sheet name
// selects the first sheet.
func LoadXLSX(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	header := rows[0]
	width := len(header)
	for _, r := range rows[1:] {
		width = max(width, len(r))
	}
	for len(header) < width {
		header = append(header, "")
	}
	return FromRecords(tableName(path), header, rows[1:])
}
