package omath

import (
	"math"
	"sort"
)

// Bracket expansion gives up past these bounds rather than overflow.
const (
	bracketMin = 1e-300
	bracketMax = 1e300
)

// Quadratic returns the real roots of ax² + bx + c in ascending order. A zero
// leading coefficient degenerates to the linear case and a double root is
// reported once.
func Quadratic(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-b / (2 * a)}
	}
	r := math.Sqrt(disc)
	lo, hi := (-b-r)/(2*a), (-b+r)/(2*a)
	if lo > hi {
		lo, hi = hi, lo
	}
	return []float64{lo, hi}
}

// Bisect narrows a sign-changing bracket [lo, hi] of f down to a root. flo
// and fhi are f at the endpoints and must differ in sign. The midpoint
// switches to the geometric mean when the bracket spans several orders of
// magnitude, which keeps convergence uniform on (0, inf).
func Bisect(f func(float64) float64, lo, hi, flo, fhi float64) float64 {
	for i := 0; i < 256; i++ {
		var mid float64
		if lo > 0 && hi/lo > 1e3 {
			mid = math.Sqrt(lo * hi)
		} else {
			mid = 0.5 * (lo + hi)
		}
		fm := f(mid)
		if fm == 0 {
			return mid
		}
		if (flo < 0) != (fm < 0) {
			hi, fhi = mid, fm
		} else {
			lo, flo = mid, fm
		}
		if hi-lo <= 1e-15*math.Max(1, math.Abs(mid)) {
			return 0.5 * (lo + hi)
		}
	}
	return 0.5 * (lo + hi)
}

// LogLinearRoots returns every positive root of F(x) = (ax+b)ln x + cx + d in
// ascending order, double roots tangent to the axis included.
//
// F''(x) = (ax-b)/x² changes sign at most once on (0, inf), so F' is
// monotone on at most two pieces and F itself on at most three. Enumerating
// the zeros of F' splits the axis into segments on which F is monotone;
// checking the sign of F at segment ends then finds every crossing, and
// evaluating F at the zeros of F' catches the tangent ones.
func LogLinearRoots(a, b, c, d float64) []float64 {
	if a == 0 && b == 0 {
		// The logarithm drops out entirely.
		if c == 0 {
			return nil
		}
		if r := -d / c; r > 0 {
			return []float64{r}
		}
		return nil
	}
	F := func(x float64) float64 { return (a*x+b)*math.Log(x) + c*x + d }
	dF := func(x float64) float64 { return a*math.Log(x) + a + c + b/x }

	dF0 := func() float64 {
		switch {
		case b > 0:
			return math.Inf(1)
		case b < 0:
			return math.Inf(-1)
		case a > 0:
			return math.Inf(-1)
		case a < 0:
			return math.Inf(1)
		}
		return a + c
	}
	dFinf := func() float64 {
		switch {
		case a > 0:
			return math.Inf(1)
		case a < 0:
			return math.Inf(-1)
		}
		return a + c
	}

	// Zeros of F', one per monotone piece of F'. The inflection of F at
	// x = b/a (when positive) is where F' turns around.
	var crits []float64
	knee := 0.0
	if a != 0 && b/a > 0 {
		knee = b / a
	}
	if knee > 0 {
		fk := dF(knee)
		if fk == 0 {
			crits = append(crits, knee)
		}
		if lim := dF0(); (lim < 0) != (fk < 0) && !math.IsInf(fk, 0) {
			if lo, hi, flo, fhi, ok := expandDown(dF, knee, fk); ok {
				crits = append(crits, Bisect(dF, lo, hi, flo, fhi))
			}
		}
		if lim := dFinf(); (lim < 0) != (fk < 0) {
			if lo, hi, flo, fhi, ok := expandUp(dF, knee, fk); ok {
				crits = append(crits, Bisect(dF, lo, hi, flo, fhi))
			}
		}
	} else {
		// F' is monotone over the whole axis.
		l0, linf := dF0(), dFinf()
		if (l0 < 0) != (linf < 0) {
			f1 := dF(1)
			switch {
			case f1 == 0:
				crits = append(crits, 1)
			case (l0 < 0) != (f1 < 0):
				if lo, hi, flo, fhi, ok := expandDown(dF, 1, f1); ok {
					crits = append(crits, Bisect(dF, lo, hi, flo, fhi))
				}
			default:
				if lo, hi, flo, fhi, ok := expandUp(dF, 1, f1); ok {
					crits = append(crits, Bisect(dF, lo, hi, flo, fhi))
				}
			}
		}
	}
	sort.Float64s(crits)
	cs := crits[:0]
	for _, cx := range crits {
		if cx > 0 && (len(cs) == 0 || cx != cs[len(cs)-1]) {
			cs = append(cs, cx)
		}
	}
	crits = cs

	F0 := func() float64 {
		switch {
		case b > 0:
			return math.Inf(-1)
		case b < 0:
			return math.Inf(1)
		}
		return d
	}
	Finf := func() float64 {
		switch {
		case a > 0:
			return math.Inf(1)
		case a < 0:
			return math.Inf(-1)
		case c > 0:
			return math.Inf(1)
		case c < 0:
			return math.Inf(-1)
		case b > 0:
			return math.Inf(1)
		case b < 0:
			return math.Inf(-1)
		}
		return d
	}

	// Segment ends: the domain limits plus every critical point between.
	type segEnd struct {
		f    float64
		x    float64
		crit bool
	}
	ends := make([]segEnd, 0, len(crits)+2)
	ends = append(ends, segEnd{f: F0()})
	var roots []float64
	for _, cx := range crits {
		fv := F(cx)
		if fv == 0 {
			roots = append(roots, cx)
		}
		ends = append(ends, segEnd{f: fv, x: cx, crit: true})
	}
	ends = append(ends, segEnd{f: Finf()})

	for i := 0; i+1 < len(ends); i++ {
		l, r := ends[i], ends[i+1]
		if l.f == 0 || r.f == 0 {
			continue
		}
		if (l.f < 0) == (r.f < 0) {
			continue
		}
		switch {
		case !l.crit && !r.crit:
			// F is monotone on all of (0, inf); expand outwards from 1.
			f1 := F(1)
			if f1 == 0 {
				roots = append(roots, 1)
				continue
			}
			var lo, hi, flo, fhi float64
			var ok bool
			if (l.f < 0) != (f1 < 0) {
				lo, hi, flo, fhi, ok = expandDown(F, 1, f1)
			} else {
				lo, hi, flo, fhi, ok = expandUp(F, 1, f1)
			}
			if ok {
				roots = append(roots, Bisect(F, lo, hi, flo, fhi))
			}
		case !l.crit:
			if lo, hi, flo, fhi, ok := expandDown(F, r.x, r.f); ok {
				roots = append(roots, Bisect(F, lo, hi, flo, fhi))
			}
		case !r.crit:
			if lo, hi, flo, fhi, ok := expandUp(F, l.x, l.f); ok {
				roots = append(roots, Bisect(F, lo, hi, flo, fhi))
			}
		default:
			roots = append(roots, Bisect(F, l.x, r.x, l.f, r.f))
		}
	}

	sort.Float64s(roots)
	out := roots[:0]
	for _, r := range roots {
		if len(out) == 0 || math.Abs(r-out[len(out)-1]) > 1e-12*math.Max(1, math.Abs(r)) {
			out = append(out, r)
		}
	}
	return out
}

// expandDown halves x from hi towards zero until f changes sign against fhi,
// reporting the resulting bracket.
func expandDown(f func(float64) float64, hi, fhi float64) (float64, float64, float64, float64, bool) {
	x := hi
	for i := 0; i < 2000; i++ {
		x /= 2
		if x < bracketMin {
			return 0, 0, 0, 0, false
		}
		fx := f(x)
		if fx == 0 {
			return x, x, fx, fx, true
		}
		if (fx < 0) != (fhi < 0) {
			return x, hi, fx, fhi, true
		}
		hi, fhi = x, fx
	}
	return 0, 0, 0, 0, false
}

// expandUp doubles x from lo towards infinity until f changes sign against
// flo, reporting the resulting bracket.
func expandUp(f func(float64) float64, lo, flo float64) (float64, float64, float64, float64, bool) {
	x := lo
	for i := 0; i < 2000; i++ {
		x *= 2
		if x > bracketMax {
			return 0, 0, 0, 0, false
		}
		fx := f(x)
		if fx == 0 {
			return x, x, fx, fx, true
		}
		if (fx < 0) != (flo < 0) {
			return lo, x, flo, fx, true
		}
		lo, flo = x, fx
	}
	return 0, 0, 0, 0, false
}
