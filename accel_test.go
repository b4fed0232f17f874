package motion

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/oerror"
)

// observe synthesizes the two-tick observation set of a known arc.
func observe(p Params, v0, t1, t2 float64) (VT, VT, PT, PT, VP, VP) {
	v1, _ := p.VelocityAt(v0, t1)
	v2, _ := p.VelocityAt(v0, t2)
	p1, _ := p.PositionAt(v0, t1)
	p2, _ := p.PositionAt(v0, t2)
	return VT{V: v1, T: t1}, VT{V: v2, T: t2}, PT{P: p1, T: t1}, PT{P: p2, T: t2}, VP{V: v1, P: p1}, VP{V: v2, P: p2}
}

var accelMedia = []Medium{
	{D: 0.02, After: true, K: 1},
	{D: 0.01, After: false, K: 0},
	{D: 0.05, After: true, K: 0},
	{D: 0.25, After: false, K: 0.5},
	{D: 0, After: true, K: 1},
	{D: 0, After: false, K: 0},
}

func TestAccelClosedForms(t *testing.T) {
	for _, m := range accelMedia {
		for _, a := range []float64{0.04, -0.08, 0.013} {
			for _, v0 := range []float64{0.9, -0.35, 2.1} {
				for _, tt := range [][2]float64{{1, 4}, {2, 9}, {3.5, 6.25}} {
					p := Params{A: a, Medium: m}
					vt1, vt2, pt1, pt2, _, _ := observe(p, v0, tt[0], tt[1])

					got, err := m.AccelFromVT(vt1, vt2)
					if err != nil {
						t.Fatalf("AccelFromVT(%+v): %v", m, err)
					}
					if !mgl64.FloatEqualThreshold(got, a, 1e-8) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromVT = %v", m, a, v0, tt, got)
					}

					got, err = m.AccelFromPT(pt1, pt2)
					if err != nil {
						t.Fatalf("AccelFromPT(%+v): %v", m, err)
					}
					if !mgl64.FloatEqualThreshold(got, a, 1e-7) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromPT = %v", m, a, v0, tt, got)
					}

					got, err = m.AccelFromVTPT(vt1, pt2)
					if err != nil {
						t.Fatalf("AccelFromVTPT(%+v): %v", m, err)
					}
					if !mgl64.FloatEqualThreshold(got, a, 1e-7) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromVTPT = %v", m, a, v0, tt, got)
					}
				}
			}
		}
	}
}

func TestAccelIterative(t *testing.T) {
	for _, m := range accelMedia {
		for _, a := range []float64{0.04, -0.08, 0.013} {
			for _, v0 := range []float64{0.9, -0.35, 2.1} {
				for _, tt := range [][2]float64{{1, 4}, {2, 9}, {3.5, 6.25}} {
					p := Params{A: a, Medium: m}
					vt1, _, pt1, _, vp1, vp2 := observe(p, v0, tt[0], tt[1])

					got, err := m.AccelFromVP(vp1, vp2)
					if err != nil {
						t.Fatalf("AccelFromVP(%+v a=%v v0=%v t=%v): %v", m, a, v0, tt, err)
					}
					if !containsFloat(got, a, 1e-6) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromVP = %v", m, a, v0, tt, got)
					}

					got, err = m.AccelFromVTVP(vt1, vp2)
					if err != nil {
						t.Fatalf("AccelFromVTVP(%+v a=%v v0=%v t=%v): %v", m, a, v0, tt, err)
					}
					if !containsFloat(got, a, 1e-6) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromVTVP = %v", m, a, v0, tt, got)
					}

					got, err = m.AccelFromPTVP(pt1, vp2)
					if err != nil {
						t.Fatalf("AccelFromPTVP(%+v a=%v v0=%v t=%v): %v", m, a, v0, tt, err)
					}
					if !containsFloat(got, a, 1e-6) {
						t.Fatalf("%+v a=%v v0=%v t=%v: AccelFromPTVP = %v", m, a, v0, tt, got)
					}
				}
			}
		}
	}
}

// Two arcs thread these observations and their roots sit 0.018 apart in the
// decay factor, with the residual between them peaking below 1e-4. Grid
// sampling misses the second root; the monotone-piece walk must not.
func TestAccelIterativeNearTangent(t *testing.T) {
	m := Medium{D: 0.02, After: true, K: 1}
	s1 := VT{V: -0.19230217626564272, T: 3.5}
	s2 := VP{V: -0.07598677644879448, P: -1.7006611775602725}
	got, err := m.AccelFromVTVP(s1, s2)
	if err != nil {
		t.Fatalf("AccelFromVTVP: %v", err)
	}
	if !containsFloat(got, 0.04, 1e-6) {
		t.Fatalf("AccelFromVTVP = %v, missing 0.04", got)
	}
	if !containsFloat(got, 0.02838552588608862, 1e-6) {
		t.Fatalf("AccelFromVTVP = %v, missing the second arc", got)
	}
}

// An arc riding its terminal velocity shows the same velocity at both
// observations; the acceleration still follows from the displacement slope.
func TestAccelIterativeConstantArc(t *testing.T) {
	m := Medium{D: 0.02, After: true, K: 1}
	got, err := m.AccelFromVP(VP{V: 0.5, P: 0.9795918367346939}, VP{V: 0.5, P: 4.408163265306122})
	if err != nil {
		t.Fatalf("AccelFromVP: %v", err)
	}
	if !containsFloat(got, 0.010204081632653062, 1e-9) {
		t.Fatalf("AccelFromVP = %v, want the terminal-riding acceleration", got)
	}
}

// A zero-acceleration arc is pure decay: the displacement slope every
// transport check rides on vanishes, so the candidate is validated against
// the decay arc itself.
func TestAccelPureDecayArc(t *testing.T) {
	m := Medium{D: 0.5, After: true, K: 0}
	got, err := m.AccelFromVP(VP{V: 1, P: 0}, VP{V: 0.5, P: 1})
	if err != nil {
		t.Fatalf("AccelFromVP: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("AccelFromVP = %v, want exactly [0]", got)
	}

	// Same velocities with the displacement flipped off the decay arc: the
	// only arc through both states runs them in reverse tick order, braking
	// towards its terminal velocity.
	got, err = m.AccelFromVP(VP{V: 1, P: 0}, VP{V: 0.5, P: -1})
	if err != nil {
		t.Fatalf("AccelFromVP off-arc: %v", err)
	}
	if containsFloat(got, 0, 0) {
		t.Fatalf("AccelFromVP off-arc = %v, the decay arc does not pass these states", got)
	}
	if !containsFloat(got, 1.2442629818012994, 1e-9) {
		t.Fatalf("AccelFromVP off-arc = %v, missing the braking arc", got)
	}
}

// Observations lifted off the live recurrence carry its rounding: between
// two ticks of one decay arc the velocity and position shifts can cancel
// exactly while the launch velocities the two states imply land an ulp
// apart. The zero-acceleration candidate has to survive that disagreement.
func TestAccelPureDecayArcRounded(t *testing.T) {
	m := Medium{D: 0.1, After: true, K: 0}
	p := Params{A: 0, Medium: m}
	v, pos := 0.9, 0.0
	for i := 0; i < 6; i++ {
		v, pos = tickOnce(v, pos, p)
	}
	s1 := VP{V: v, P: pos}
	for i := 0; i < 2; i++ {
		v, pos = tickOnce(v, pos, p)
	}
	s2 := VP{V: v, P: pos}
	got, err := m.AccelFromVP(s1, s2)
	if err != nil {
		t.Fatalf("AccelFromVP: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("AccelFromVP = %v, want exactly [0]", got)
	}
}

// Without drag the quadratic can root at a = 0; that candidate only stands
// when the unanchored state holds the anchored velocity.
func TestAccelZeroDragZeroAccel(t *testing.T) {
	m := Medium{D: 0, After: true, K: 0}

	got, err := m.AccelFromVTVP(VT{V: 2, T: 3}, VP{V: 2, P: 10})
	if err != nil {
		t.Fatalf("AccelFromVTVP: %v", err)
	}
	if len(got) != 2 || !containsFloat(got, 0, 0) || !containsFloat(got, -2.0/3.0, 1e-12) {
		t.Fatalf("AccelFromVTVP = %v, want the coasting and braking arcs", got)
	}

	// v² matches only through the sign flip, which no constant arc allows.
	got, err = m.AccelFromVTVP(VT{V: 2, T: 3}, VP{V: -2, P: 34})
	if err != nil {
		t.Fatalf("AccelFromVTVP flipped: %v", err)
	}
	if containsFloat(got, 0, 0) {
		t.Fatalf("AccelFromVTVP flipped = %v, zero acceleration cannot reverse a velocity", got)
	}
}

func TestAccelZeroDragExact(t *testing.T) {
	m := Medium{D: 0, After: true, K: 1}
	p := Params{A: -0.06, Medium: m}
	vt1, vt2, pt1, pt2, vp1, vp2 := observe(p, 1.2, 3, 8)

	if got, err := m.AccelFromVT(vt1, vt2); err != nil || !mgl64.FloatEqualThreshold(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromVT = %v, %v", got, err)
	}
	if got, err := m.AccelFromPT(pt1, pt2); err != nil || !mgl64.FloatEqualThreshold(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromPT = %v, %v", got, err)
	}
	if got, err := m.AccelFromVTPT(vt1, pt2); err != nil || !mgl64.FloatEqualThreshold(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromVTPT = %v, %v", got, err)
	}
	if got, err := m.AccelFromVP(vp1, vp2); err != nil || !containsFloat(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromVP = %v, %v", got, err)
	}
	if got, err := m.AccelFromVTVP(vt1, vp2); err != nil || !containsFloat(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromVTVP = %v, %v", got, err)
	}
	if got, err := m.AccelFromPTVP(pt1, vp2); err != nil || !containsFloat(got, -0.06, 1e-9) {
		t.Fatalf("AccelFromPTVP = %v, %v", got, err)
	}
}

// Two zero-velocity states at different displacements cannot share an arc:
// a zero must be the arc's single extremum, where displacement is pinned.
func TestAccelNonConvergence(t *testing.T) {
	m := Medium{D: 0.02, After: true, K: 1}
	_, err := m.AccelFromVP(VP{V: 0, P: 5}, VP{V: 0, P: 7})
	if !errors.Is(err, oerror.ErrNonConvergence) {
		t.Fatalf("AccelFromVP on contradictory states: %v, want non-convergence", err)
	}
}

func TestAccelDegenerateMedium(t *testing.T) {
	// K equal to the terminal ratio cancels the displacement slope for every
	// acceleration, so no displacement-based recovery can see a.
	m := Medium{D: 0.5, After: false, K: 2}
	if _, err := m.AccelFromVP(VP{V: 1, P: 2}, VP{V: 0.5, P: 3}); !errors.Is(err, oerror.ErrDegenerate) {
		t.Fatalf("AccelFromVP with vanishing slope: %v, want degenerate-parameter error", err)
	}
	if _, err := m.AccelFromPT(PT{P: 1, T: 2}, PT{P: 2, T: 5}); !errors.Is(err, oerror.ErrDegenerate) {
		t.Fatalf("AccelFromPT with vanishing slope: %v, want degenerate-parameter error", err)
	}
}

func TestAccelObservationDomainErrors(t *testing.T) {
	m := Medium{D: 0.02, After: true, K: 1}
	if _, err := m.AccelFromVT(VT{V: 1, T: 3}, VT{V: 2, T: 3}); !errors.Is(err, oerror.ErrDomain) {
		t.Fatalf("AccelFromVT shared tick: %v, want domain error", err)
	}
	if _, err := m.AccelFromPT(PT{P: 1, T: 0}, PT{P: 2, T: 5}); !errors.Is(err, oerror.ErrDomain) {
		t.Fatalf("AccelFromPT zero tick: %v, want domain error", err)
	}
	if _, err := m.AccelFromVTPT(VT{V: 1, T: 3}, PT{P: 2, T: 0}); !errors.Is(err, oerror.ErrDomain) {
		t.Fatalf("AccelFromVTPT zero tick: %v, want domain error", err)
	}
	if _, err := m.AccelFromPTVP(PT{P: 1, T: 0}, VP{V: 1, P: 2}); !errors.Is(err, oerror.ErrDomain) {
		t.Fatalf("AccelFromPTVP zero tick: %v, want domain error", err)
	}
}

// Strategy dispatch: zero drag stays on the algebraic path and produces
// confident empties, never non-convergence.
func TestAccelZeroDragConfidentEmpty(t *testing.T) {
	m := Medium{D: 0, After: true, K: 0}
	got, err := m.AccelFromVTVP(VT{V: 1, T: 1}, VP{V: 0.1, P: 1.45})
	if err != nil {
		t.Fatalf("AccelFromVTVP zero-drag: %v, want confident empty, no error", err)
	}
	if len(got) != 0 {
		t.Fatalf("AccelFromVTVP zero-drag = %v, want empty", got)
	}
}

func TestAccelVTZeroDrag(t *testing.T) {
	m := Medium{D: 0}
	got, err := m.AccelFromVT(VT{V: 1, T: 2}, VT{V: 2.5, T: 7})
	if err != nil {
		t.Fatalf("AccelFromVT: %v", err)
	}
	if got != 0.3 {
		t.Fatalf("AccelFromVT = %v, want exact 0.3", got)
	}
}
