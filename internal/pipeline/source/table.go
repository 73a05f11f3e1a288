package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Row is one data line of a source file. Line is 1-based and counts the header.
type Row struct {
	Line  int
	Cells []string
}

// Cell returns the trimmed cell at idx, or "" when out of range.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

// Blank reports whether every cell is empty.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Table is a file reduced to a header line and data rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// Kind is the adapter family a file extension belongs to.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindDelimited   Kind = "delimited"
	KindUnknown     Kind = ""
)

// KindOf classifies path by extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return KindSpreadsheet
	case ".csv":
		return KindDelimited
	default:
		return KindUnknown
	}
}

// Read dispatches to the adapter for path's extension.
func Read(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch KindOf(path) {
	case KindSpreadsheet:
		return ReadSpreadsheet(path)
	case KindDelimited:
		return ReadDelimited(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %s", filepath.Ext(path))
	}
}
