package cvat

import (
	"math"
	"strconv"
	"strings"
)

// FormatCoordinate renders v as the shortest decimal that round-trips, always
// carrying a fractional part ("10.0", "12.5"). Very large and very small
// magnitudes switch to exponent notation ("1e+16", "1e-05").
func FormatCoordinate(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
