package parse

import (
	"fmt"
	"strings"
)

// Field is one semantic column and the header fragments that identify it.
type Field struct {
	Name     string
	Patterns []string
	Required bool
}

// ColumnMapping is an ordered list of fields. Order decides which field claims
// a header when several could match.
type ColumnMapping []Field

// Columns is the resolved field -> column index mapping for one file.
type Columns struct {
	index   map[string]int
	missing []string
}

// Map resolves headers against the mapping. Each header goes to the first
// unclaimed field with a matching pattern, so when several headers match one
// field the leftmost wins and later ones may still claim a following field.
func (m ColumnMapping) Map(headers []string) Columns {
	patterns := make([][]string, len(m))
	for i, f := range m {
		normalized := make([]string, 0, len(f.Patterns))
		for _, p := range f.Patterns {
			if n := NormalizeHeader(p); n != "" {
				normalized = append(normalized, n)
			}
		}
		patterns[i] = normalized
	}

	cols := Columns{index: make(map[string]int, len(m))}
	for col, header := range headers {
		normalized := NormalizeHeader(header)
		if normalized == "" {
			continue
		}
		for i, f := range m {
			if _, taken := cols.index[f.Name]; taken || !containsAny(normalized, patterns[i]) {
				continue
			}
			cols.index[f.Name] = col
			break
		}
	}

	for _, f := range m {
		if _, ok := cols.index[f.Name]; f.Required && !ok {
			cols.missing = append(cols.missing, f.Name)
		}
	}
	return cols
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Index returns the column for field, or -1.
func (c Columns) Index(field string) int {
	if i, ok := c.index[field]; ok {
		return i
	}
	return -1
}

// Has reports whether field resolved to a column.
func (c Columns) Has(field string) bool {
	_, ok := c.index[field]
	return ok
}

// Missing lists required fields without a column.
func (c Columns) Missing() []string {
	return c.missing
}

// Err describes unresolved required fields, or nil.
func (c Columns) Err(headers []string) error {
	if len(c.missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required columns %s (headers: %s)",
		strings.Join(c.missing, ", "), strings.Join(headers, " | "))
}
