package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Trend classifies the direction of change between two active periods.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// FilterMode selects which entities a period query keeps and how it orders them.
type FilterMode string

const (
	ModeAll           FilterMode = "all"
	ModeGrowingDesc   FilterMode = "growing-desc"
	ModeGrowingAsc    FilterMode = "growing-asc"
	ModeDecliningDesc FilterMode = "declining-desc"
	ModeDecliningAsc  FilterMode = "declining-asc"
	ModeNameAsc       FilterMode = "name-asc"
	ModeNameDesc      FilterMode = "name-desc"
)

var filterModes = map[string]FilterMode{
	"all":            ModeAll,
	"growing-desc":   ModeGrowingDesc,
	"growing-asc":    ModeGrowingAsc,
	"declining-desc": ModeDecliningDesc,
	"declining-asc":  ModeDecliningAsc,
	"name-asc":       ModeNameAsc,
	"name-desc":      ModeNameDesc,
}

// ParseFilterMode returns the mode for a given label (case-insensitive).
// An empty label means ModeAll.
func ParseFilterMode(label string) (FilterMode, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ModeAll, true
	}
	mode, ok := filterModes[label]

	return mode, ok
}

var monthIDPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsMonthID reports whether s is a well-formed "YYYY-MM" with a month in 01..12.
func IsMonthID(s string) bool {
	if !monthIDPattern.MatchString(s) {
		return false
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil {
		return false
	}

	return month >= 1 && month <= 12
}

// FormatMonthID builds a MonthID from numeric parts.
func FormatMonthID(year, month int) MonthID {
	return strconv.Itoa(year) + "-" + pad2(month)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
