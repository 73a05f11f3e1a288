package parse

import (
	"math"
	"strconv"
	"strings"
)

// FormatCZ formats a float using Czech conventions: a space as the thousands
// separator and a comma as the decimal separator. Trailing zero decimals are
// omitted. Example: 1234.5 (2 decimals) => "1 234,50"; 1000.0 => "1 000".
func FormatCZ(v float64, decimals int) string {
	return formatLocale(v, decimals, ' ', ',')
}

func formatLocale(v float64, decimals int, thousands, decimal byte) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}

	neg := v < 0
	if neg {
		v = -v
	}
	if decimals < 0 {
		decimals = 0
	}

	// round to requested decimal places
	factor := math.Pow(10, float64(decimals))
	scaled := math.Round(v * factor)
	intPart := int64(scaled) / int64(factor)
	fracPart := int64(scaled) % int64(factor)

	s := strconv.FormatInt(intPart, 10)
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(thousands)
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if neg && (intPart != 0 || fracPart != 0) {
		s = "-" + s
	}

	if decimals == 0 || fracPart == 0 {
		return s
	}

	fracStr := strconv.FormatInt(fracPart, 10)
	for len(fracStr) < decimals {
		fracStr = "0" + fracStr
	}
	return s + string(decimal) + fracStr
}
