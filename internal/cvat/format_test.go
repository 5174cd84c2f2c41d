package cvat

import (
	"math"
	"testing"
	"time"
)

func TestFormatCoordinate(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{10, "10.0"},
		{12.5, "12.5"},
		{-3, "-3.0"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1279.999, "1279.999"},
		{1e16, "1e+16"},
		{0.00001, "1e-05"},
		{0.0001, "0.0001"},
		{math.NaN(), "nan"},
		{math.Inf(-1), "-inf"},
	}
	for _, tc := range cases {
		if got := FormatCoordinate(tc.in); got != tc.want {
			t.Fatalf("FormatCoordinate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	whole := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := FormatTimestamp(whole); got != "2025-01-02T03:04:05" {
		t.Fatalf("unexpected whole-second timestamp %q", got)
	}
	micro := time.Date(2025, 1, 2, 3, 4, 5, 120000, time.UTC)
	if got := FormatTimestamp(micro); got != "2025-01-02T03:04:05.000120" {
		t.Fatalf("unexpected microsecond timestamp %q", got)
	}
	zone := time.FixedZone("SGT", 8*3600)
	local := time.Date(2025, 1, 2, 11, 4, 5, 0, zone)
	if got := FormatTimestamp(local); got != "2025-01-02T03:04:05" {
		t.Fatalf("expected UTC conversion, got %q", got)
	}
}
