// Package motion solves the per-tick motion recurrences used by Bedrock
// entities in closed form. Velocity evolves by an affine recurrence, either
// v' = (v+a)(1-d) when drag is applied after acceleration or v' = v(1-d)+a
// when it is applied before, and position accumulates the pre-tick velocity
// minus an acceleration-drag offset k·a. The package maps an initial velocity
// and a tick count to exact velocity and position, and inverts those maps to
// recover initial velocity, elapsed ticks or the acceleration itself from
// partial observations.
//
// Every function is a pure computation over float64 scalars along a single
// axis; callers apply it per axis. Values are returned mathematically exact:
// the game's velocity-zero clamp (velocities beyond a per-entity ceiling
// reset to zero) is deliberately not applied here, since the thresholds vary
// per entity type and per axis. Apply clamp policy at the call site.
package motion

import (
	"math"

	"github.com/oomph-ac/motion/assert"
	"github.com/oomph-ac/motion/oerror"
)

// Medium describes the drag environment an entity moves through. The zero
// value is a drag-free medium.
type Medium struct {
	// D is the drag coefficient, valid on [0, 1). At D = 0 the recurrence
	// degenerates to pure linear motion and every solver switches to its
	// exact algebraic path.
	D float64
	// After selects the order of operations within a tick: true when drag
	// multiplies the velocity after the acceleration has been added.
	After bool
	// K is the acceleration-drag coefficient, the positional offset caused
	// by where in the tick the acceleration lands. 0 or 1 in practice,
	// accepted as any real.
	K float64
}

// Params carries the full parameter set of a motion arc: the medium plus the
// per-tick acceleration.
type Params struct {
	// A is the signed per-tick acceleration.
	A float64
	Medium
}

// DefaultParams returns the parameters of a falling block, the conventional
// reference entity: a = 0.04 downward gravity units, 2% drag applied after
// acceleration, full acceleration drag.
func DefaultParams() Params {
	return Params{A: 0.04, Medium: Medium{D: 0.02, After: true, K: 1}}
}

// VT is a velocity observed at a known tick.
type VT struct {
	V float64
	T float64
}

// PT is a position observed at a known tick.
type PT struct {
	P float64
	T float64
}

// VP is a velocity and position observed together at an unknown tick.
type VP struct {
	V float64
	P float64
}

// Arc is one joint solution of an inversion that recovers both the initial
// velocity and the tick of the observation.
type Arc struct {
	V0 float64
	T  float64
}

// check rejects drag coefficients for which the closed forms are undefined.
func (m Medium) check(op string) error {
	if m.D < 0 || m.D >= 1 || math.IsNaN(m.D) {
		return oerror.New(oerror.KindDegenerate, op, "drag coefficient %v outside [0, 1)", m.D)
	}
	return nil
}

// logDecay returns ln(1-D), the log of the per-tick retention factor.
// Negative for any D in (0, 1).
func (m Medium) logDecay() float64 {
	return math.Log(1 - m.D)
}

// terminalRatio returns the ratio of the terminal velocity to the
// acceleration: v* = terminalRatio() · a. Requires D != 0.
func (m Medium) terminalRatio() float64 {
	assert.IsTrue(m.D != 0, "terminal ratio is undefined in a drag-free medium")
	if m.After {
		return (1 - m.D) / m.D
	}
	return 1 / m.D
}

// slopeRatio returns C/v*, the position slope per unit of terminal velocity.
// Constant in the acceleration, which is what makes the recovery solvers'
// canonical substitution work. Requires D != 0.
func (m Medium) slopeRatio() float64 {
	return 1 - m.K/m.terminalRatio()
}

// terminal returns the fixed point v* of the velocity recurrence. Requires
// D != 0.
func (p Params) terminal() float64 {
	return p.A * p.terminalRatio()
}

// slope returns C = v* - K·A, the coefficient of the linear-in-t term of the
// position closed form. Requires D != 0.
func (p Params) slope() float64 {
	return p.terminal() - p.K*p.A
}
