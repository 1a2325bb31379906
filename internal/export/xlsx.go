// Package export writes classified records to an Excel workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes headers and rows to a single-sheet workbook at path,
// creating parent directories as needed. Every cell is stored as a string,
// so names like "=1" or "001" are kept verbatim.
func WriteXLSX(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(sheet, cell, value)
	}

	for i, h := range headers {
		if err := set(i+1, 1, h); err != nil {
			return fmt.Errorf("header %q: %w", h, err)
		}
	}
	for i, row := range rows {
		for j, v := range row {
			if err := set(j+1, i+2, v); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
	}

	if len(rows) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}
