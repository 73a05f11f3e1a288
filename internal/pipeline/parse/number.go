package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingNumber matches the longest float prefix, the way accounting exports
// with trailing units ("12,5 Kč", "40 %") are read.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber converts a cell value into a float64 and never fails: empty,
// "-" and unparseable input yield 0.
//
// Order matters for financial totals:
//  1. a value that already is a plain number is returned as-is
//  2. whitespace and "." thousands separators (a dot followed by three digits) are stripped
//  3. the last remaining comma becomes the decimal separator
//  4. the longest numeric prefix is parsed, otherwise 0
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, _ := parseNumberString(v)
		return f
	default:
		return 0
	}
}

// ParseOptionalNumber is ParseNumber for cells where "no value" must stay
// distinguishable from zero. ok is false for empty, "-" and text without a
// numeric prefix.
func ParseOptionalNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		return parseNumberString(v)
	default:
		return ParseNumber(v), true
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumberString(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = stripThousandDots(cleaned)

	if i := strings.LastIndex(cleaned, ","); i >= 0 {
		cleaned = cleaned[:i] + "." + cleaned[i+1:]
	}

	prefix := leadingNumber.FindString(cleaned)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// stripThousandDots removes every '.' immediately followed by three digits.
func stripThousandDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && isDigit(s, i+1) && isDigit(s, i+2) && isDigit(s, i+3) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(s string, i int) bool {
	return i < len(s) && s[i] >= '0' && s[i] <= '9'
}
