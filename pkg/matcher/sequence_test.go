package matcher

import (
	"math"
	"strings"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRatio_KnownValues(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"digital marketing", "digital marketer", 28.0 / 33.0},
		{"digital marketing", "digital marketing agency", 34.0 / 41.0},
		{"digital marketing", "marketing", 18.0 / 26.0},
		{"seo", "seo tools", 0.5},
		{"digital marketing", "digital marketng", 32.0 / 33.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if !approxEqual(got, tt.want) {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatio_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "seo", "digital marketing", strings.Repeat("ab ", 120)} {
		if got := Ratio(s, s); got != 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"digital marketing", "marketing digital"},
		{"content strategy", "contest strategy"},
		{"qabxcd", "abycdf"},
		{"the quick brown fox", "quick the fox brown"},
		{strings.Repeat("a", 250) + "b", "b" + strings.Repeat("a", 240)},
	}
	for _, p := range pairs {
		ab, ba := Ratio(p[0], p[1]), Ratio(p[1], p[0])
		if ab != ba {
			t.Errorf("Ratio not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Ratio out of range for %q/%q: %v", p[0], p[1], ab)
		}
	}
}

func TestRatio_PopularElementsStillExtendMatches(t *testing.T) {
	long := strings.Repeat("x", 300)
	if got := Ratio(long, long); got != 1.0 {
		t.Errorf("Expected identical long strings to score 1.0, got %v", got)
	}
}
