package motion

import (
	"math"

	"github.com/oomph-ac/motion/oerror"
)

// VelocityAt returns the velocity after t ticks of an arc launched at v0.
// t is treated as continuous; integer values reproduce the recurrence
// exactly up to rounding.
func (p Params) VelocityAt(v0, t float64) (float64, error) {
	if err := p.check("VelocityAt"); err != nil {
		return 0, err
	}
	return p.velAt(v0, t), nil
}

// PositionAt returns the displacement accumulated after t ticks of an arc
// launched at v0. Position advances by the pre-tick velocity minus K·A each
// tick, so p(1) already includes one acceleration-drag offset.
func (p Params) PositionAt(v0, t float64) (float64, error) {
	if err := p.check("PositionAt"); err != nil {
		return 0, err
	}
	return p.posAt(v0, t), nil
}

// velAt evaluates the velocity closed form without revalidating the medium.
func (p Params) velAt(v0, t float64) float64 {
	if p.D == 0 {
		return v0 + p.A*t
	}
	vs := p.terminal()
	return (v0-vs)*math.Pow(1-p.D, t) + vs
}

// posAt evaluates the displacement closed form without revalidating the
// medium.
func (p Params) posAt(v0, t float64) float64 {
	if p.D == 0 {
		return v0*t + p.A*t*(t-1)/2 - p.K*p.A*t
	}
	vs := p.terminal()
	return vs*t + (v0-vs)*(1-math.Pow(1-p.D, t))/p.D - p.K*p.A*t
}

// MaxHeightTick returns the last tick at which the arc launched at v0 is
// still rising: the floor of the real root of v(t) = 0. An arc that never
// rises (v0 <= 0) peaks at tick 0. Arcs whose velocity never crosses zero
// have no apex and report a domain error.
func (p Params) MaxHeightTick(v0 float64) (float64, error) {
	if err := p.check("MaxHeightTick"); err != nil {
		return 0, err
	}
	if v0 <= 0 {
		return 0, nil
	}
	tr, ok := p.apexTick(v0)
	if !ok {
		return 0, oerror.New(oerror.KindDomain, "MaxHeightTick", "velocity never crosses zero from v0=%v with a=%v", v0, p.A)
	}
	return math.Floor(tr), nil
}

// MaxHeight returns the greatest displacement the arc launched at v0 reaches
// at an integer tick, p(⌊t*⌋). An arc that never rises peaks at 0. With no
// acceleration the velocity only decays, so the height is the limit of the
// geometric series, v0/D; without drag either such an arc climbs forever and
// has no maximum.
func (p Params) MaxHeight(v0 float64) (float64, error) {
	if err := p.check("MaxHeight"); err != nil {
		return 0, err
	}
	if v0 <= 0 {
		return 0, nil
	}
	if p.A == 0 {
		if p.D == 0 {
			return 0, oerror.New(oerror.KindDomain, "MaxHeight", "undamped arc with zero acceleration climbs without bound")
		}
		return v0 / p.D, nil
	}
	tr, ok := p.apexTick(v0)
	if !ok {
		return 0, oerror.New(oerror.KindDomain, "MaxHeight", "velocity never crosses zero from v0=%v with a=%v", v0, p.A)
	}
	return p.posAt(v0, math.Floor(tr)), nil
}

// apexTick returns the real-valued tick at which v(t) crosses zero, before
// flooring. Reports false when no forward-time crossing exists.
func (p Params) apexTick(v0 float64) (float64, bool) {
	if p.D == 0 {
		if p.A == 0 {
			return 0, false
		}
		t := -v0 / p.A
		return t, t >= 0
	}
	vs := p.terminal()
	if vs == v0 {
		return 0, false
	}
	arg := vs / (vs - v0)
	if arg <= 0 {
		return 0, false
	}
	t := math.Log(arg) / p.logDecay()
	return t, t >= 0
}

// apexHeight returns the displacement at the real-valued apex tick, the
// supremum of the continuous trajectory. The discrete maximum reported by
// MaxHeight sits at most one tick's travel below it.
func (p Params) apexHeight(v0 float64) (float64, bool) {
	tr, ok := p.apexTick(v0)
	if !ok {
		return 0, false
	}
	if p.D == 0 {
		return -v0*v0/(2*p.A) + (0.5+p.K)*v0, true
	}
	// At the apex v(t*) = 0, so p(t*) = C·t* + v0/D.
	return p.slope()*tr + v0/p.D, true
}
