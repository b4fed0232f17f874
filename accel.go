package motion

import (
	"math"
	"sort"

	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/omath"
)

// The six recovery solvers below share one dispatch policy: with zero drag
// the recurrences are linear or quadratic in the acceleration and every path
// is an exact algebraic solve, so an empty result is a proof that no real
// acceleration fits. With drag, the three pairings that include a
// velocity/position observation have no closed form; they substitute
// x = (1-D)^t to collapse the system into one (ax+b)·ln x + cx + d equation,
// enumerate its roots and validate every mapped-back candidate against the
// full observation set. On those paths an empty result after validation is
// reported as non-convergence, never as a confident "no solution".

// AccelFromVT recovers the acceleration from two velocity observations at
// known ticks. Closed form in both drag regimes.
func (m Medium) AccelFromVT(s1, s2 VT) (float64, error) {
	if err := m.check("AccelFromVT"); err != nil {
		return 0, err
	}
	if s1.T == s2.T {
		return 0, oerror.New(oerror.KindDomain, "AccelFromVT", "observations share tick %v", s1.T)
	}
	if m.D == 0 {
		return (s2.V - s1.V) / (s2.T - s1.T), nil
	}
	q := 1 - m.D
	q1, q2 := math.Pow(q, s1.T), math.Pow(q, s2.T)
	den := q2 - q1
	if den == 0 {
		return 0, oerror.New(oerror.KindDomain, "AccelFromVT", "decay factors coincide at ticks %v and %v", s1.T, s2.T)
	}
	return (s1.V*q2 - s2.V*q1) / den / m.terminalRatio(), nil
}

// AccelFromPT recovers the acceleration from two position observations at
// known ticks. Closed form in both drag regimes; the launch velocity is
// eliminated between the two displacement equations.
func (m Medium) AccelFromPT(s1, s2 PT) (float64, error) {
	if err := m.check("AccelFromPT"); err != nil {
		return 0, err
	}
	if s1.T == s2.T {
		return 0, oerror.New(oerror.KindDomain, "AccelFromPT", "observations share tick %v", s1.T)
	}
	if s1.T == 0 || s2.T == 0 {
		return 0, oerror.New(oerror.KindDomain, "AccelFromPT", "displacement at tick zero carries no information")
	}
	if m.D == 0 {
		return 2 * (s1.P/s1.T - s2.P/s2.T) / (s1.T - s2.T), nil
	}
	lam := m.terminalRatio()
	e1 := (1 - math.Pow(1-m.D, s1.T)) / m.D
	e2 := (1 - math.Pow(1-m.D, s2.T)) / m.D
	den := (lam - m.K) * (s1.T*e2 - s2.T*e1)
	if den == 0 {
		return 0, oerror.New(oerror.KindDegenerate, "AccelFromPT", "displacement is independent of the acceleration in this medium")
	}
	return (s1.P*e2 - s2.P*e1) / den, nil
}

// AccelFromVTPT recovers the acceleration from a velocity observation and a
// position observation, both at known ticks. Closed form in both drag
// regimes.
func (m Medium) AccelFromVTPT(s1 VT, s2 PT) (float64, error) {
	if err := m.check("AccelFromVTPT"); err != nil {
		return 0, err
	}
	if s2.T == 0 {
		return 0, oerror.New(oerror.KindDomain, "AccelFromVTPT", "displacement at tick zero carries no information")
	}
	if m.D == 0 {
		den := s2.T * (s2.T - 2*s1.T - 1 - 2*m.K)
		if den == 0 {
			return 0, oerror.New(oerror.KindDomain, "AccelFromVTPT", "tick geometry cancels the acceleration term")
		}
		return 2 * (s2.P - s1.V*s2.T) / den, nil
	}
	lam := m.terminalRatio()
	g := math.Pow(1-m.D, -s1.T) * (1 - math.Pow(1-m.D, s2.T)) / m.D
	den := (lam-m.K)*s2.T - lam*g
	if den == 0 {
		return 0, oerror.New(oerror.KindDomain, "AccelFromVTPT", "tick geometry cancels the acceleration term")
	}
	return (s2.P - s1.V*g) / den, nil
}

// AccelFromVP recovers every acceleration consistent with two
// velocity/position observations at unknown ticks. With drag the solve is
// iterative over the decay factor between the two states; candidates are
// validated by transporting the first state onto the second and by a
// branch-cut feasibility check on each state.
func (m Medium) AccelFromVP(s1, s2 VP) ([]float64, error) {
	if err := m.check("AccelFromVP"); err != nil {
		return nil, err
	}
	if m.D == 0 {
		den := 2*(s1.P-s2.P) + (1+2*m.K)*(s1.V-s2.V)
		if den == 0 {
			return nil, oerror.New(oerror.KindDomain, "AccelFromVP", "observations do not isolate the acceleration")
		}
		a := (s1.V*s1.V - s2.V*s2.V) / den
		if a == 0 {
			// A zero-acceleration arc holds its velocity, so both states
			// must share a nonzero one.
			if s1.V != s2.V || s1.V == 0 {
				return nil, nil
			}
			return []float64{0}, nil
		}
		if !zeroDragReachable(a, m.K, s1) || !zeroDragReachable(a, m.K, s2) {
			return nil, nil
		}
		return []float64{a}, nil
	}
	L := m.logDecay()
	lam := m.terminalRatio()
	c := m.slopeRatio()
	if c == 0 {
		return nil, oerror.New(oerror.KindDegenerate, "AccelFromVP", "displacement slope vanishes for every acceleration in this medium")
	}
	shift := s2.P - s1.P + (s2.V-s1.V)/m.D
	xs := omath.LogLinearRoots(c*s1.V, -c*s2.V, -L*shift, L*shift)
	var out []float64
	for _, x := range xs {
		// x = 1 is the zero-transport artifact of the substitution.
		if math.Abs(x-1) < 1e-12 {
			continue
		}
		a := L * shift / (c * math.Log(x)) / lam
		if a == 0 {
			// Pure decay has no displacement slope for the transport check
			// to ride on; validate against the decay arc directly. The two
			// implied launch velocities round through a multiplication, the
			// shift above through a division, so they can disagree by ulps.
			v01, v02 := s1.V+s1.P*m.D, s2.V+s2.P*m.D
			if m.onDecayArc(s1) && m.onDecayArc(s2) &&
				math.Abs(v01-v02) <= 1e-9*math.Max(1, math.Abs(v01)) {
				out = append(out, 0)
			}
			continue
		}
		if m.transportFeasible(a, s1, s2) {
			out = append(out, a)
		}
	}
	return m.finishIterative("AccelFromVP", out)
}

// AccelFromVTVP recovers every acceleration consistent with a velocity
// observation at a known tick and a velocity/position observation at an
// unknown one. Iterative when drag is present, quadratic otherwise.
func (m Medium) AccelFromVTVP(s1 VT, s2 VP) ([]float64, error) {
	if err := m.check("AccelFromVTVP"); err != nil {
		return nil, err
	}
	if m.D == 0 {
		qa := s1.T*s1.T + (1+2*m.K)*s1.T
		qb := 2*s2.P + (1+2*m.K)*(s2.V-s1.V) - 2*s1.V*s1.T
		qc := s1.V*s1.V - s2.V*s2.V
		return m.zeroDragCandidates("AccelFromVTVP", qa, qb, qc, s1.V, s2)
	}
	q := 1 - m.D
	L := m.logDecay()
	lam := m.terminalRatio()
	c := m.slopeRatio()
	if c == 0 {
		return nil, oerror.New(oerror.KindDegenerate, "AccelFromVTVP", "displacement slope vanishes for every acceleration in this medium")
	}
	g := math.Pow(q, -s1.T)
	ca := c * s1.V * g
	cb := -c * s2.V
	cc := -L * g * ((s2.V-s1.V)/m.D + s2.P)
	cd := L * (g*(s2.V-s1.V)/m.D + s2.P)
	xs := omath.LogLinearRoots(ca, cb, cc, cd)
	var out []float64
	for _, x := range xs {
		den := g*x - 1
		if den == 0 {
			continue
		}
		vs := (s1.V*g*x - s2.V) / den
		a := vs / lam
		v0 := vs + (s1.V-vs)*g
		if m.arcThroughVP(a, v0, s2) {
			out = append(out, a)
		}
	}
	return m.finishIterative("AccelFromVTVP", out)
}

// AccelFromPTVP recovers every acceleration consistent with a position
// observation at a known tick and a velocity/position observation at an
// unknown one. Iterative when drag is present, quadratic otherwise.
func (m Medium) AccelFromPTVP(s1 PT, s2 VP) ([]float64, error) {
	if err := m.check("AccelFromPTVP"); err != nil {
		return nil, err
	}
	if s1.T == 0 {
		return nil, oerror.New(oerror.KindDomain, "AccelFromPTVP", "displacement at tick zero carries no information")
	}
	if m.D == 0 {
		pp := s1.P / s1.T
		qq := (1-s1.T)/2 + m.K
		qa := qq * ((1 + 2*m.K) - qq)
		qb := (1+2*m.K)*(pp-s2.V) - 2*pp*qq - 2*s2.P
		qc := s2.V*s2.V - pp*pp
		return m.zeroDragCandidates("AccelFromPTVP", qa, qb, qc, pp, s2)
	}
	q := 1 - m.D
	L := m.logDecay()
	lam := m.terminalRatio()
	c := m.slopeRatio()
	if c == 0 {
		return nil, oerror.New(oerror.KindDegenerate, "AccelFromPTVP", "displacement slope vanishes for every acceleration in this medium")
	}
	e1 := 1 - math.Pow(q, s1.T)
	if e1 == 0 {
		return nil, oerror.New(oerror.KindDomain, "AccelFromPTVP", "decay factor vanishes at tick %v", s1.T)
	}
	ca := -c * m.D * s1.P
	cb := c * e1 * s2.V
	cc := L * (s2.P*c*m.D*s1.T - (s1.P - c*s1.T*s2.V))
	cd := L * ((s1.P - c*s1.T*s2.V) - s2.P*e1)
	xs := omath.LogLinearRoots(ca, cb, cc, cd)
	var out []float64
	for _, x := range xs {
		den := e1 - c*m.D*s1.T*x
		if den == 0 {
			continue
		}
		vs := (e1*s2.V - m.D*s1.P*x) / den
		a := vs / lam
		p := Params{A: a, Medium: m}
		v0 := vs + m.D*(s1.P-p.slope()*s1.T)/e1
		if m.arcThroughVP(a, v0, s2) {
			out = append(out, a)
		}
	}
	return m.finishIterative("AccelFromPTVP", out)
}

// zeroDragCandidates solves the drag-free quadratic for the acceleration and
// filters candidates through the reachability check on the unanchored state.
// constV is the launch velocity the anchored observation pins on a
// zero-acceleration arc, which holds that velocity forever.
func (m Medium) zeroDragCandidates(op string, qa, qb, qc, constV float64, s VP) ([]float64, error) {
	var cands []float64
	if qa == 0 {
		if qb == 0 {
			return nil, oerror.New(oerror.KindDomain, op, "observations do not isolate the acceleration")
		}
		cands = []float64{-qc / qb}
	} else {
		cands = omath.Quadratic(qa, qb, qc)
	}
	var out []float64
	for _, a := range cands {
		if a == 0 {
			if s.V != constV || (constV == 0 && s.P != 0) {
				continue
			}
		} else if !zeroDragReachable(a, m.K, s) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// onDecayArc reports whether the state lies on some zero-acceleration arc:
// the launch velocity it implies must decay through the observed one.
func (m Medium) onDecayArc(s VP) bool {
	v0 := s.V + s.P*m.D
	if v0 == 0 {
		return s.V == 0
	}
	return s.V/v0 > 0
}

// finishIterative orders and reports the validated candidates of an
// iterative path. An empty set is surfaced as non-convergence: the
// enumeration is best-effort and cannot prove absence.
func (m Medium) finishIterative(op string, out []float64) ([]float64, error) {
	if len(out) == 0 {
		return nil, oerror.New(oerror.KindNonConvergence, op, "no candidate acceleration satisfied both observations within tolerance")
	}
	sort.Float64s(out)
	res := out[:0]
	for _, a := range out {
		if len(res) == 0 || a != res[len(res)-1] {
			res = append(res, a)
		}
	}
	return res, nil
}

// zeroDragReachable reports whether any launch velocity places a drag-free
// arc with acceleration a through the observed state.
func zeroDragReachable(a, k float64, s VP) bool {
	b := s.V - a/2 - k*a
	return b*b-2*a*s.P >= -1e-12
}

// transportFeasible validates a candidate acceleration against two unanchored
// states: transporting the first along the arc must reproduce the second
// velocity, and each state must lie on the reachable side of the Lambert
// branch cut. The tick delta comes from the displacement relation, which
// stays finite on constant arcs where the velocity ratio is 0/0.
func (m Medium) transportFeasible(a float64, s1, s2 VP) bool {
	p := Params{A: a, Medium: m}
	vs := p.terminal()
	c := p.slope()
	if c == 0 {
		return false
	}
	dt := (s2.P - s1.P + (s2.V-s1.V)/m.D) / c
	e := dt * m.logDecay()
	if e > 700 {
		return false
	}
	v2 := (s1.V-vs)*math.Exp(e) + vs
	if math.Abs(v2-s2.V) > 1e-6*math.Max(1, math.Abs(s2.V)) {
		return false
	}
	return m.lambertFeasible(a, s1) && m.lambertFeasible(a, s2)
}

// lambertFeasible reports whether the state can sit on any arc with
// acceleration a: the Lambert argument of the joint inversion must stay
// above the branch point at -1/e. Evaluated in log space so extreme decay
// exponents cannot overflow.
func (m Medium) lambertFeasible(a float64, s VP) bool {
	p := Params{A: a, Medium: m}
	vs := p.terminal()
	c := p.slope()
	w := s.V - vs
	if w == 0 {
		return true
	}
	if c == 0 {
		v0 := s.V + s.P*m.D
		den := v0 - vs
		return den != 0 && w/den > 0
	}
	L := m.logDecay()
	mu := L / (m.D * c)
	if -mu*w > 0 {
		return true
	}
	lnAbsZ := math.Log(math.Abs(mu*w)) + (-(w/m.D+s.P)/c)*L
	return lnAbsZ <= -1+1e-12
}

// arcThroughVP reports whether the arc with acceleration a launched at v0
// passes through the state within tolerance. The tick comes from the
// velocity relation when usable and from the displacement relation
// otherwise.
func (m Medium) arcThroughVP(a, v0 float64, s VP) bool {
	p := Params{A: a, Medium: m}
	vs := p.terminal()
	c := p.slope()
	var t float64
	num, den := s.V-vs, v0-vs
	switch {
	case den != 0 && num/den > 0:
		t = math.Log(num/den) / m.logDecay()
	case c != 0:
		t = (s.P - (v0-s.V)/m.D) / c
	default:
		return false
	}
	return math.Abs(p.velAt(v0, t)-s.V) <= 1e-6*math.Max(1, math.Abs(s.V)) &&
		math.Abs(p.posAt(v0, t)-s.P) <= 1e-6*math.Max(1, math.Abs(s.P))
}
