// Package probability renders cross probabilities for display as a
// percentage and as an exact reduced fraction.
package probability

import (
	"math"
	"strconv"
	"strings"
)

const (
	// tolerance for treating a scaled value as exact.
	tolerance = 1e-9
	// maxDyadicExponent bounds the power-of-two denominator search (2^20).
	maxDyadicExponent = 20
	// MaxFallbackDenominator caps the denominator when p is not dyadic.
	MaxFallbackDenominator = 10000
)

// Percent renders p as a percentage: "25%", "12.5%", "1.56%". Integral
// percentages have no decimals; others keep up to two, trailing zeros trimmed.
func Percent(p float64) string {
	v := sanitize(p) * 100
	if r := math.Round(v); math.Abs(v-r) < tolerance {
		return strconv.FormatFloat(r, 'f', 0, 64) + "%"
	}
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}

// Fraction renders p as a reduced fraction "n/d". Engine output is dyadic,
// so the smallest power-of-two denominator reproducing p is used. Other
// values fall back to the closest fraction with a bounded denominator.
func Fraction(p float64) string {
	p = sanitize(p)
	for exp := 0; exp <= maxDyadicExponent; exp++ {
		d := int64(1) << exp
		n := int64(math.Round(p * float64(d)))
		if math.Abs(float64(n)/float64(d)-p) < tolerance {
			return format(n, d)
		}
	}
	n, d := approximate(p, MaxFallbackDenominator)
	return format(n, d)
}

func format(n, d int64) string {
	if g := gcd(n, d); g > 1 {
		n, d = n/g, d/g
	}
	return strconv.FormatInt(n, 10) + "/" + strconv.FormatInt(d, 10)
}

// sanitize clamps p into [0, 1] and maps non-finite values to 0.
func sanitize(p float64) float64 {
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return 0
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// approximate finds the best rational approximation of x in [0, 1] with a
// denominator no larger than maxDen, walking the continued fraction
// convergents and checking the final semiconvergent.
func approximate(x float64, maxDen int64) (int64, int64) {
	// convergents h/k
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	v := x
	for {
		a := int64(math.Floor(v))
		k2 := a*k1 + k0
		if k2 > maxDen {
			// largest semiconvergent that still fits
			m := (maxDen - k0) / k1
			hs, ks := m*h1+h0, m*k1+k0
			if math.Abs(float64(hs)/float64(ks)-x) < math.Abs(float64(h1)/float64(k1)-x) {
				return hs, ks
			}
			return h1, k1
		}
		h2 := a*h1 + h0
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		frac := v - float64(a)
		if frac < 1e-12 {
			return h1, k1
		}
		v = 1 / frac
	}
}
