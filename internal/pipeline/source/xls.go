package source

import (
	"fmt"
	"os"

	"github.com/extrame/xls"
)

// readLegacyWorkbook reads the first sheet of a BIFF (Excel 97-2003) workbook.
// Sheet rows without a ROW record are skipped; Line still follows the sheet.
func readLegacyWorkbook(path string) (table *Table, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer file.Close()

	// the BIFF decoder panics on some truncated records
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("corrupt workbook %s: %v", path, r)
		}
	}()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	table = &Table{}
	seenHeader := false
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for col := 0; col < row.LastCol(); col++ {
			cells = append(cells, row.Col(col))
		}
		if !seenHeader {
			table.Headers = cells
			seenHeader = true
			continue
		}
		table.Rows = append(table.Rows, Row{Line: i + 1, Cells: cells})
	}

	if !seenHeader {
		return nil, fmt.Errorf("sheet %s in %s is empty", sheet.Name, path)
	}
	return table, nil
}
