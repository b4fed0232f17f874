package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/oomph-ac/motion"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/profile"
	"github.com/oomph-ac/motion/worker"
	"github.com/sirupsen/logrus"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

var log = logrus.New()

// The following program prints the closed-form trajectory of an entity and
// then recovers the launch parameters back from samples of it. Passing
// "soak" instead of a velocity stresses the recovery solvers across all
// cores.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: ./bin <profile> <initial_velocity|soak>")
		return
	}

	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	prof, ok := profile.Lookup(os.Args[1])
	if !ok {
		log.Fatalf("unknown profile %q, registered: %v", os.Args[1], names())
	}

	if os.Args[2] == "soak" {
		soak(prof)
		return
	}

	v0, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		log.Fatalf("initial velocity: %v", err)
	}
	demo(prof, v0)
}

// demo walks one vertical arc tick by tick and then runs every recovery
// direction on samples taken from it.
func demo(prof profile.Profile, v0 float64) {
	p := prof.Vertical()
	log.Infof("%s: a=%v d=%v after=%v k=%v", prof.Name, p.A, p.D, p.After, p.K)

	for t := float64(0); t <= 10; t++ {
		v, err := p.VelocityAt(v0, t)
		if err != nil {
			log.Fatalf("velocity at tick %v: %v", t, err)
		}
		pos, _ := p.PositionAt(v0, t)
		bb, _ := prof.BoundsAt(v0, t)
		log.Infof("tick %2.0f: v=%+.6f p=%+.6f box_floor=%+.4f", t, v, pos, bb.Min().Y())
	}

	if tick, err := p.MaxHeightTick(v0); err == nil {
		h, _ := p.MaxHeight(v0)
		log.Infof("apex: tick %v, height %v", tick, h)
	} else if errors.Is(err, oerror.ErrDomain) {
		log.Infof("no apex: this arc never turns over")
	}

	// Sample the arc at two ticks and recover what produced it.
	v1, _ := p.VelocityAt(v0, 2)
	pos1, _ := p.PositionAt(v0, 2)
	v2, _ := p.VelocityAt(v0, 9)
	pos2, _ := p.PositionAt(v0, 9)

	back, err := p.InitialFromPosition(pos2, 9)
	if err != nil {
		log.Fatalf("initial velocity from position: %v", err)
	}
	log.Infof("v0 recovered from p(9): %v", back)

	accels, err := p.Medium.AccelFromVP(motion.VP{V: v1, P: pos1}, motion.VP{V: v2, P: pos2})
	if err != nil {
		log.Fatalf("acceleration from samples: %v", err)
	}
	log.Infof("accelerations matching both samples: %v", accels)

	arcs, err := p.InitialAndTickFromPosition(v2, pos2)
	if err != nil {
		log.Fatalf("arcs through sample: %v", err)
	}
	for _, arc := range arcs {
		log.Infof("arc through (v=%.6f, p=%.6f): v0=%.6f at tick %.3f", v2, pos2, arc.V0, arc.T)
	}
}

// soak fans randomized round-trips over the worker pool: synthesize an arc,
// sample it, recover the acceleration, count the ones that come back wrong.
func soak(prof profile.Profile) {
	const batch = 4096
	m := prof.Vertical().Medium

	var missed atomic.Int32
	start := time.Now()
	worker.Each(batch, func(i int) {
		a := 0.01 + 0.04*rand.Float64()
		v0 := 0.5 + 1.5*rand.Float64()
		trial := motion.Params{A: a, Medium: m}

		v1, _ := trial.VelocityAt(v0, 2)
		p1, _ := trial.PositionAt(v0, 2)
		v2, _ := trial.VelocityAt(v0, 7)
		p2, _ := trial.PositionAt(v0, 7)

		roots, err := m.AccelFromVP(motion.VP{V: v1, P: p1}, motion.VP{V: v2, P: p2})
		if err != nil {
			missed.Add(1)
			return
		}
		for _, r := range roots {
			if r > a-1e-6 && r < a+1e-6 {
				return
			}
		}
		missed.Add(1)
	})

	log.Infof("%d recoveries through %s in %s, %d missed", batch, prof.Name, time.Since(start), missed.Load())
}

func names() []string {
	all := profile.All()
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = p.Name
	}
	return out
}
