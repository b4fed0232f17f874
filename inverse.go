package motion

import (
	"math"
	"sort"

	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/omath"
)

// InitialFromVelocity recovers the launch velocity of an arc that passes
// through velocity v at tick t. Degenerate when the decay factor (1-D)^t
// underflows to zero while v differs from the terminal velocity, since every
// launch velocity has already collapsed onto the fixed point by then.
func (p Params) InitialFromVelocity(v, t float64) (float64, error) {
	if err := p.check("InitialFromVelocity"); err != nil {
		return 0, err
	}
	if p.D == 0 {
		return v - p.A*t, nil
	}
	vs := p.terminal()
	qt := math.Pow(1-p.D, t)
	if qt == 0 {
		if v == vs {
			return vs, nil
		}
		return 0, oerror.New(oerror.KindDegenerate, "InitialFromVelocity", "decay factor vanishes at t=%v, launch velocity unrecoverable", t)
	}
	return (v-vs)/qt + vs, nil
}

// InitialFromPosition recovers the launch velocity of an arc that has
// displaced by p at tick t. The launch velocity appears linearly once t is
// fixed. t = 0 is a domain error: displacement at launch is identically zero
// and carries no information.
func (p Params) InitialFromPosition(pos, t float64) (float64, error) {
	if err := p.check("InitialFromPosition"); err != nil {
		return 0, err
	}
	if t == 0 {
		return 0, oerror.New(oerror.KindDomain, "InitialFromPosition", "displacement at tick zero does not determine the launch velocity")
	}
	if p.D == 0 {
		return pos/t - p.A*(t-1)/2 + p.K*p.A, nil
	}
	vs := p.terminal()
	e := 1 - math.Pow(1-p.D, t)
	if e == 0 {
		return 0, oerror.New(oerror.KindDomain, "InitialFromPosition", "displacement at tick %v does not determine the launch velocity", t)
	}
	return vs + p.D*(pos-p.slope()*t)/e, nil
}

// TickFromVelocity recovers the tick at which an arc launched at v0 passes
// through velocity v. Domain error when no real tick does: the velocity
// decays monotonically towards the terminal velocity, so values outside that
// sweep are unreachable. The returned tick may be negative, placing the
// observation before the launch on the same arc.
func (p Params) TickFromVelocity(v0, v float64) (float64, error) {
	if err := p.check("TickFromVelocity"); err != nil {
		return 0, err
	}
	if p.D == 0 {
		if p.A == 0 {
			if v == v0 {
				return 0, nil
			}
			return 0, oerror.New(oerror.KindDomain, "TickFromVelocity", "constant velocity %v never reaches %v", v0, v)
		}
		return (v - v0) / p.A, nil
	}
	vs := p.terminal()
	if v0 == vs {
		if v == vs {
			return 0, nil
		}
		return 0, oerror.New(oerror.KindDomain, "TickFromVelocity", "arc launched at the terminal velocity stays at %v", vs)
	}
	arg := (v - vs) / (v0 - vs)
	if arg <= 0 {
		return 0, oerror.New(oerror.KindDomain, "TickFromVelocity", "velocity %v is not on the arc launched at %v", v, v0)
	}
	return math.Log(arg) / p.logDecay(), nil
}

// TickFromPosition recovers every tick at which an arc launched at v0 has
// displaced by pos. The displacement curve has a single extremum, so zero,
// one or two real ticks exist; they are returned in ascending order and an
// empty result means no tick reaches pos. With drag the tick appears both
// linearly and inside the decay exponential, which takes both real branches
// of the Lambert W function to unwind; without drag the curve is a parabola.
func (p Params) TickFromPosition(v0, pos float64) ([]float64, error) {
	if err := p.check("TickFromPosition"); err != nil {
		return nil, err
	}
	if p.D == 0 {
		if p.A == 0 {
			if v0 == 0 {
				return nil, nil
			}
			return []float64{pos / v0}, nil
		}
		return omath.Quadratic(p.A/2, v0-p.A/2-p.K*p.A, -pos), nil
	}
	q := 1 - p.D
	L := p.logDecay()
	vs := p.terminal()
	C := p.slope()
	R := (v0 - vs) / p.D
	if C == 0 {
		// Displacement is pure decay towards R.
		if R == 0 {
			return nil, nil
		}
		arg := 1 - pos/R
		if arg <= 0 {
			return nil, nil
		}
		return []float64{math.Log(arg) / L}, nil
	}
	if R == 0 {
		// Launched at terminal velocity, displacement is linear.
		return []float64{pos / C}, nil
	}
	m := (R - pos) / C
	z := -(L * R / C) * math.Pow(q, -m)
	var ticks []float64
	if w, ok := omath.W0(z); ok {
		ticks = append(ticks, -m-w/L)
	}
	if w, ok := omath.WM1(z); ok {
		ticks = append(ticks, -m-w/L)
	}
	sort.Float64s(ticks)
	return dedupe(ticks, 1e-9), nil
}

// InitialAndTickFromPosition jointly recovers the launch velocity and the
// observation tick of an arc passing through velocity v with displacement
// pos. Arcs are returned ascending by tick. The solve substitutes the
// velocity relation into the displacement relation and unwinds the result
// with the two real Lambert W branches, so only the arcs those branches
// reach are enumerated; an empty result is a valid "no branch" answer.
func (p Params) InitialAndTickFromPosition(v, pos float64) ([]Arc, error) {
	if err := p.check("InitialAndTickFromPosition"); err != nil {
		return nil, err
	}
	if p.D == 0 {
		if p.A == 0 {
			if v == 0 {
				return nil, nil
			}
			return []Arc{{V0: v, T: pos / v}}, nil
		}
		ts := omath.Quadratic(p.A/2, p.A/2+p.K*p.A-v, pos)
		arcs := make([]Arc, 0, len(ts))
		for _, t := range ts {
			arcs = append(arcs, Arc{V0: v - p.A*t, T: t})
		}
		return arcs, nil
	}
	q := 1 - p.D
	L := p.logDecay()
	vs := p.terminal()
	C := p.slope()
	w := v - vs
	if C == 0 {
		// Displacement fixes the launch velocity directly: p = (v0-v)/D.
		v0 := v + pos*p.D
		if v0 == vs {
			return nil, nil
		}
		arg := (v - vs) / (v0 - vs)
		if arg <= 0 {
			return nil, nil
		}
		return []Arc{{V0: v0, T: math.Log(arg) / L}}, nil
	}
	mu := L / (p.D * C)
	z := -mu * w * math.Pow(q, -(w/p.D+pos)/C)
	var arcs []Arc
	if wv, ok := omath.W0(z); ok {
		arcs = append(arcs, p.arcFromBranch(wv, v, pos))
	}
	if wv, ok := omath.WM1(z); ok {
		arcs = append(arcs, p.arcFromBranch(wv, v, pos))
	}
	sort.Slice(arcs, func(i, j int) bool { return arcs[i].T < arcs[j].T })
	out := arcs[:0]
	for _, a := range arcs {
		if len(out) == 0 || math.Abs(a.T-out[len(out)-1].T) > 1e-9 {
			out = append(out, a)
		}
	}
	return out, nil
}

// arcFromBranch maps one Lambert W branch value back to a joint solution.
func (p Params) arcFromBranch(w, v, pos float64) Arc {
	vs := p.terminal()
	v0 := vs - w*p.D*p.slope()/p.logDecay()
	return Arc{V0: v0, T: (pos - (v0-v)/p.D) / p.slope()}
}

// InitialFromMaxHeight recovers every launch velocity whose arc peaks at
// height h, ascending. Up to two exist: a slow arc that peaks early and a
// fast one that coasts further against drag. Each Lambert branch candidate
// is validated by re-substitution into the apex relation before being
// returned, rejecting branch artifacts; an empty result means no arc peaks
// at h.
func (p Params) InitialFromMaxHeight(h float64) ([]float64, error) {
	if err := p.check("InitialFromMaxHeight"); err != nil {
		return nil, err
	}
	var cands []float64
	if p.D == 0 {
		b := p.A * (1 + 2*p.K)
		disc := b*b - 8*p.A*h
		if disc < 0 {
			return nil, nil
		}
		r := math.Sqrt(disc)
		cands = []float64{(b - r) / 2, (b + r) / 2}
	} else {
		q := 1 - p.D
		L := p.logDecay()
		vs := p.terminal()
		C := p.slope()
		if C == 0 {
			// Apex height is v0/D regardless of the path to it.
			switch {
			case p.A == 0:
				// Pure decay climbs towards the limit without cresting, so
				// no finite apex tick exists for the validation below.
				if h <= 0 {
					return nil, nil
				}
				return []float64{h * p.D}, nil
			case vs > 0:
				// The velocity settles on a positive terminal value and
				// never turns the arc over.
				return nil, nil
			default:
				cands = append(cands, h*p.D)
			}
		} else {
			z := (L * vs / (p.D * C)) * math.Pow(q, -(h-vs/p.D)/C)
			if w, ok := omath.W0(z); ok {
				cands = append(cands, vs-w*p.D*C/L)
			}
			if w, ok := omath.WM1(z); ok {
				cands = append(cands, vs-w*p.D*C/L)
			}
		}
	}
	var out []float64
	for _, v0 := range cands {
		if v0 <= 0 {
			continue
		}
		hh, ok := p.apexHeight(v0)
		if !ok || math.Abs(hh-h) > 1e-6*math.Max(1, math.Abs(h)) {
			continue
		}
		out = append(out, v0)
	}
	sort.Float64s(out)
	return dedupe(out, 1e-9), nil
}

// dedupe collapses ascending values closer than tol into one.
func dedupe(xs []float64, tol float64) []float64 {
	out := xs[:0]
	for _, x := range xs {
		if len(out) == 0 || math.Abs(x-out[len(out)-1]) > tol {
			out = append(out, x)
		}
	}
	return out
}
