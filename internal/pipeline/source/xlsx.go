package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSpreadsheet reads the first sheet of a workbook. The first row holds the
// headers. Legacy BIFF .xls workbooks go through readLegacyWorkbook; OOXML
// numeric cells are returned unformatted so locale display formats never leak
// into parsing.
func ReadSpreadsheet(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return readLegacyWorkbook(path)
	}

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	table := &Table{}
	line := 0
	for rows.Next() {
		line++
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d from %s: %w", line, path, err)
		}
		if line == 1 {
			table.Headers = record
			continue
		}
		table.Rows = append(table.Rows, Row{Line: line, Cells: record})
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	if line == 0 {
		return nil, fmt.Errorf("sheet %s in %s is empty", sheet, path)
	}

	return table, nil
}
