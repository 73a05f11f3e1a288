package parse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

var (
	spreadsheetExt = regexp.MustCompile(`\.(xls|xlsx|xlsm|csv)$`)

	// MM_YYYY, MM.YYYY, MM-YYYY
	monthYearPattern = regexp.MustCompile(`^(\d{2})[._-](\d{4})$`)

	// Tried in order after monthYearPattern. A four digit first group is the year,
	// otherwise the first group is a two digit year in the 2000s.
	yearMonthPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^dvur[._-]?(\d{2})[._-]?(\d{2})$`),
		regexp.MustCompile(`(\d{2})[._-]?(\d{2})`),
		regexp.MustCompile(`(\d{4})[._-]?(\d{2})`),
	}
)

// ExtractPeriod derives the reporting month from an export's file name.
// It accepts bare names or paths and returns false when no pattern yields a
// month in 1..12.
func ExtractPeriod(filename string) (domain.MonthID, bool) {
	name := strings.ToLower(filepath.Base(filename))
	name = spreadsheetExt.ReplaceAllString(name, "")

	if m := monthYearPattern.FindStringSubmatch(name); m != nil {
		if id, ok := buildPeriod(m[2], m[1]); ok {
			return id, true
		}
	}

	for _, pattern := range yearMonthPatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		year := m[1]
		if len(year) != 4 {
			year = "20" + year
		}
		if id, ok := buildPeriod(year, m[2]); ok {
			return id, true
		}
	}

	return "", false
}

func buildPeriod(year, month string) (domain.MonthID, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return "", false
	}
	return domain.FormatMonthID(y, mo), true
}
