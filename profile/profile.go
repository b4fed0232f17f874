// Package profile carries the per-entity-type motion constant table. The
// engine itself is 1-D and parameter-agnostic; profiles resolve an entity
// type into the per-axis parameters callers feed it.
package profile

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/motion"
	"github.com/oomph-ac/motion/assert"
)

// Profile holds the per-tick motion constants of one entity type.
type Profile struct {
	// Name identifies the entity type, e.g. "falling_block".
	Name string
	// A is the per-tick vertical acceleration of the entity.
	A float64
	// DragV is the drag coefficient applied on the vertical axis.
	DragV float64
	// DragH is the drag coefficient applied on the horizontal axes. Some
	// entities carry a different horizontal coefficient (mobs use 0.09
	// horizontally but 0.02 vertically).
	DragH float64
	// After reports whether drag is applied after acceleration each tick.
	After bool
	// K is the coefficient of the acceleration term the position update
	// subtracts each tick.
	K float64
	// Bounds is the bounding box of the entity at its origin.
	Bounds cube.BBox
}

// Vertical returns the 1-D parameters of the profile's vertical axis.
func (p Profile) Vertical() motion.Params {
	return motion.Params{A: p.A, Medium: motion.Medium{D: p.DragV, After: p.After, K: p.K}}
}

// Horizontal returns the 1-D parameters of the profile's horizontal axes.
// Horizontal motion is drag-only: no entity in the table accelerates
// sideways on its own.
func (p Profile) Horizontal() motion.Params {
	return motion.Params{Medium: motion.Medium{D: p.DragH, After: p.After, K: p.K}}
}

// BoundsAt returns the profile's bounding box displaced vertically by the
// closed-form position t ticks after launch with vertical velocity v0.
func (p Profile) BoundsAt(v0, t float64) (cube.BBox, error) {
	pos, err := p.Vertical().PositionAt(v0, t)
	if err != nil {
		return cube.BBox{}, err
	}
	return p.Bounds.Translate(mgl32.Vec3{0, float32(pos), 0}), nil
}

// AABBFromDimensions returns a bounding box from the given dimensions.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, 0, -h,
		h, height, h,
	)
}

// Preset profiles, matching the constants the game applies to each entity
// type. All of them are registered on init.
var (
	FallingBlock = Profile{
		Name: "falling_block", A: 0.04, DragV: 0.02, DragH: 0.02, After: true, K: 1,
		Bounds: AABBFromDimensions(0.98, 0.98),
	}
	PrimedTNT = Profile{
		Name: "primed_tnt", A: 0.04, DragV: 0.02, DragH: 0.02, After: true, K: 1,
		Bounds: AABBFromDimensions(0.98, 0.98),
	}
	Fireball = Profile{
		Name: "fireball", A: 0, DragV: 0.05, DragH: 0.05, After: true, K: 0,
		Bounds: AABBFromDimensions(1, 1),
	}
	SplashPotion = Profile{
		Name: "splash_potion", A: 0.05, DragV: 0.01, DragH: 0.01, After: false, K: 1,
		Bounds: AABBFromDimensions(0.25, 0.25),
	}
	Mob = Profile{
		Name: "mob", A: 0.08, DragV: 0.02, DragH: 0.09, After: true, K: 0,
		Bounds: AABBFromDimensions(0.6, 1.8),
	}
)

var (
	regMu    sync.Mutex
	registry = orderedmap.NewOrderedMap[string, Profile]()
)

func init() {
	Register(FallingBlock)
	Register(PrimedTNT)
	Register(Fireball)
	Register(SplashPotion)
	Register(Mob)
}

// Register adds a profile to the registry. Registering an empty name, an
// out-of-range drag coefficient, or a name that is already taken is a
// programmer error.
func Register(p Profile) {
	assert.IsTrue(p.Name != "", "profile registered with an empty name")
	assert.IsTrue(p.DragV >= 0 && p.DragV < 1, "profile %s: vertical drag %v out of range", p.Name, p.DragV)
	assert.IsTrue(p.DragH >= 0 && p.DragH < 1, "profile %s: horizontal drag %v out of range", p.Name, p.DragH)

	regMu.Lock()
	defer regMu.Unlock()

	_, dup := registry.Get(p.Name)
	assert.IsTrue(!dup, "profile %s registered twice", p.Name)
	registry.Set(p.Name, p)
}

// Lookup returns the profile registered under the given name.
func Lookup(name string) (Profile, bool) {
	regMu.Lock()
	defer regMu.Unlock()

	return registry.Get(name)
}

// All returns every registered profile in registration order.
func All() []Profile {
	regMu.Lock()
	defer regMu.Unlock()

	all := make([]Profile, 0, registry.Len())
	for _, name := range registry.Keys() {
		p, _ := registry.Get(name)
		all = append(all, p)
	}
	return all
}
