package probability

import (
	"math"
	"testing"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.25, "25%"},
		{0.5, "50%"},
		{1, "100%"},
		{0, "0%"},
		{0.125, "12.5%"},
		{0.0625, "6.25%"},
		{1.0 / 64, "1.56%"},
		{1.0 / 3, "33.33%"},
		{0.99999, "100%"},
		{0.75 + 1e-12, "75%"},
		{-0.2, "0%"},
		{1.7, "100%"},
		{math.NaN(), "0%"},
	}
	for _, tc := range cases {
		if got := Percent(tc.p); got != tc.want {
			t.Fatalf("Percent(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestFraction(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.5, "1/2"},
		{0.25, "1/4"},
		{0.75, "3/4"},
		{0.375, "3/8"},
		{1, "1/1"},
		{0, "0/1"},
		{1.0 / 1024, "1/1024"},
		{3.0 / (1 << 20), "3/1048576"},
		{1.0 / 3, "1/3"},
		{0.1, "1/10"},
		{math.Inf(1), "0/1"},
		{2, "1/1"},
	}
	for _, tc := range cases {
		if got := Fraction(tc.p); got != tc.want {
			t.Fatalf("Fraction(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestFractionFallbackBoundsDenominator(t *testing.T) {
	n, d := approximate(math.Pi-3, MaxFallbackDenominator)
	if d > MaxFallbackDenominator || d <= 0 {
		t.Fatalf("denominator %d out of bounds", d)
	}
	if math.Abs(float64(n)/float64(d)-(math.Pi-3)) > 1e-6 {
		t.Fatalf("approximation %d/%d too far from pi-3", n, d)
	}
}
