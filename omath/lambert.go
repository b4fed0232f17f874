package omath

import "math"

// EM1 is 1/e, the negation of the branch point of the Lambert W function.
// Both real branches are defined on [-EM1, 0); W0 continues over [0, +inf).
const EM1 = 0.36787944117144232

// W0 evaluates the principal branch of the Lambert W function at z. The
// boolean is false when z lies outside [-1/e, +inf) or the iteration failed
// to converge.
func W0(z float64) (float64, bool) {
	if z < -EM1 || math.IsNaN(z) {
		return math.NaN(), false
	}
	if z == 0 {
		return 0, true
	}
	if math.Abs(z+EM1) < 1e-16 {
		return -1, true
	}
	var w float64
	if z < -EM1+1e-4 {
		w = branchSeries(math.Sqrt(2 * (math.E*z + 1)))
	} else if z < 1 {
		w = z
	} else {
		l1 := math.Log(z)
		if l1 > 0 {
			w = l1 - math.Log(l1)
		} else {
			w = l1
		}
	}
	return halley(w, z)
}

// WM1 evaluates the secondary real branch of the Lambert W function at z.
// The boolean is false when z lies outside [-1/e, 0) or the iteration failed
// to converge.
func WM1(z float64) (float64, bool) {
	if z < -EM1 || z >= 0 || math.IsNaN(z) {
		return math.NaN(), false
	}
	if math.Abs(z+EM1) < 1e-16 {
		return -1, true
	}
	var w float64
	if z > -EM1+1e-4 && z < -0.25 {
		w = branchSeries(-math.Sqrt(2 * (math.E*z + 1)))
	} else {
		l1 := math.Log(-z)
		w = l1 - math.Log(-l1)
	}
	return halley(w, z)
}

// branchSeries expands W around the branch point z = -1/e, where Halley
// iteration alone loses its quadratic contraction. p is ±sqrt(2(ez+1)),
// positive for the principal branch and negative for the secondary one.
func branchSeries(p float64) float64 {
	return -1 + p - p*p/3 + 11*p*p*p/72
}

// halley refines an initial estimate w of W(z) by Halley iteration on
// f(w) = w e^w - z.
func halley(w, z float64) (float64, bool) {
	for i := 0; i < 64; i++ {
		ew := math.Exp(w)
		f := w*ew - z
		denom := ew * (w + 1)
		if w != -1 {
			denom -= (w + 2) * f / (2*w + 2)
		}
		if denom == 0 {
			break
		}
		d := f / denom
		w -= d
		if math.Abs(d) <= 1e-16*(1+math.Abs(w)) {
			return w, true
		}
	}
	return w, math.Abs(w*math.Exp(w)-z) <= 1e-10*math.Max(1, math.Abs(z))
}
