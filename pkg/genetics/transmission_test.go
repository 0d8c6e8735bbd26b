package genetics

import (
	"math"
	"reflect"
	"testing"
)

func TestTransmitPunnettSquares(t *testing.T) {
	cases := []struct {
		father, mother int
		want           Distribution
	}{
		{0, 0, Distribution{1, 0, 0}},
		{1, 0, Distribution{0.5, 0.5, 0}},
		{0, 1, Distribution{0.5, 0.5, 0}},
		{1, 1, Distribution{0.25, 0.5, 0.25}},
		{2, 0, Distribution{0, 1, 0}},
		{0, 2, Distribution{0, 1, 0}},
		{2, 1, Distribution{0, 0.5, 0.5}},
		{1, 2, Distribution{0, 0.5, 0.5}},
		{2, 2, Distribution{0, 0, 1}},
	}
	for _, tc := range cases {
		got := Transmit(tc.father, tc.mother)
		if got != tc.want {
			t.Fatalf("Transmit(%d,%d) = %v, want %v", tc.father, tc.mother, got, tc.want)
		}
		sum := got[0] + got[1] + got[2]
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("Transmit(%d,%d) sums to %v", tc.father, tc.mother, sum)
		}
		for copies, p := range got {
			if q := p * 4; q != math.Trunc(q) {
				t.Fatalf("Transmit(%d,%d)[%d] = %v is not a multiple of 1/4", tc.father, tc.mother, copies, p)
			}
		}
	}
}

func TestDistributionHelpers(t *testing.T) {
	d := Transmit(1, 1)
	if !reflect.DeepEqual(d.Outcomes(), []int{0, 1, 2}) {
		t.Fatalf("unexpected outcomes %v", d.Outcomes())
	}
	if d.P(-1) != 0 || d.P(3) != 0 {
		t.Fatalf("out of range copies should have zero probability")
	}
	if d.Degenerate() {
		t.Fatalf("het x het should not be degenerate")
	}
	if !Transmit(0, 0).Degenerate() {
		t.Fatalf("wild type x wild type should be degenerate")
	}
	if got := Transmit(2, 0).Outcomes(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected single het outcome, got %v", got)
	}
}
