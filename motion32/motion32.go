// Package motion32 evaluates the forward closed forms in float32, the
// precision the game itself simulates in. Consumers replicating game
// behavior bit-for-bit want predictions that round the way the client
// rounds; the float64 package stays the source of truth for everything
// else. Only the forward surface is mirrored: the recovery solvers need
// the full float64 mantissa near the Lambert branch point and are not
// worth running at half precision.
package motion32

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/motion/oerror"
)

// Params32 carries the parameter set of a motion arc in float32. It is the
// flat counterpart of motion.Params.
type Params32 struct {
	// A is the signed per-tick acceleration.
	A float32
	// D is the drag coefficient, valid on [0, 1).
	D float32
	// After selects whether drag multiplies the velocity after the
	// acceleration has been added.
	After bool
	// K is the acceleration-drag coefficient of the position update.
	K float32
}

// DefaultParams32 returns the falling-block parameter set.
func DefaultParams32() Params32 {
	return Params32{A: 0.04, D: 0.02, After: true, K: 1}
}

func (p Params32) check(op string) error {
	if p.D < 0 || p.D >= 1 || math32.IsNaN(p.D) {
		return oerror.New(oerror.KindDegenerate, op, "drag coefficient %v outside [0, 1)", p.D)
	}
	return nil
}

// terminal returns the fixed point of the velocity recurrence. Requires
// D != 0.
func (p Params32) terminal() float32 {
	if p.After {
		return p.A * (1 - p.D) / p.D
	}
	return p.A / p.D
}

// VelocityAt returns the velocity t ticks after moving at v0.
func (p Params32) VelocityAt(v0, t float32) (float32, error) {
	if err := p.check("motion32.VelocityAt"); err != nil {
		return 0, err
	}
	if p.D == 0 {
		return v0 + p.A*t, nil
	}
	vs := p.terminal()
	return (v0-vs)*math32.Pow(1-p.D, t) + vs, nil
}

// PositionAt returns the position t ticks after moving at v0, relative to
// the starting position.
func (p Params32) PositionAt(v0, t float32) (float32, error) {
	if err := p.check("motion32.PositionAt"); err != nil {
		return 0, err
	}
	if p.D == 0 {
		return v0*t + p.A*t*(t-1)/2 - p.K*p.A*t, nil
	}
	vs := p.terminal()
	return (vs-p.K*p.A)*t + (v0-vs)*(1-math32.Pow(1-p.D, t))/p.D, nil
}

// Step advances the per-tick recurrence once, exactly as the game does:
// position gains the pre-tick velocity minus the acceleration drag, then
// the velocity updates.
func (p Params32) Step(v, pos float32) (float32, float32) {
	pos += v - p.K*p.A
	if p.After {
		v = (v + p.A) * (1 - p.D)
	} else {
		v = v*(1-p.D) + p.A
	}
	return v, pos
}
