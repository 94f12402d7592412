package mobility

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// Model generates one timeline per device. Generation is deterministic: the
// model derives an independent stream per device from its base seed, so
// device k's trajectory does not depend on how many timelines were built
// before it.
type Model interface {
	Name() string
	Timeline(device int, horizon float64) *Timeline
}

// New constructs the mobility model named in the scenario spec.
func New(spec *scenario.Spec, seed uint64) (Model, error) {
	switch spec.Mobility.Model {
	case "nomadic":
		return &Nomadic{spec: spec, seed: seed}, nil
	case "waypoint":
		return &Waypoint{spec: spec, seed: seed}, nil
	default:
		return nil, fmt.Errorf("mobility: unknown model %q", spec.Mobility.Model)
	}
}

// placeLocation converts a place table entry to a Location snapshot.
func placeLocation(spec *scenario.Spec, idx int) Location {
	p := spec.Places[idx]
	return Location{
		PlaceID:        idx,
		Attractiveness: p.Attractiveness,
		WlanID:         p.WlanID,
		X:              p.X,
		Y:              p.Y,
	}
}

// Nomadic is the discrete-jump model: a device rests at a place for an
// exponentially distributed sojourn whose mean depends on the place's
// attractiveness class, then jumps to a uniformly-random different place.
type Nomadic struct {
	spec *scenario.Spec
	seed uint64
}

func (m *Nomadic) Name() string { return "nomadic" }

// Timeline precomputes the device's jump sequence until it covers the
// horizon. The first keyframe is at t=0 so lookups are defined over the
// whole run.
func (m *Nomadic) Timeline(device int, horizon float64) *Timeline {
	src := rand.NewSource(m.seed + uint64(device))
	rng := rand.New(src)

	sojourn := make([]distuv.Exponential, len(m.spec.Mobility.DwellMeans))
	for i, mean := range m.spec.Mobility.DwellMeans {
		sojourn[i] = distuv.Exponential{Rate: 1 / mean, Src: src}
	}

	places := len(m.spec.Places)
	current := rng.Intn(places)
	keys := []Keyframe{{Time: 0, Loc: placeLocation(m.spec, current)}}

	t := 0.0
	for t < horizon {
		t += sojourn[m.spec.Places[current].Attractiveness].Rand()
		if places > 1 {
			// Uniform over the other places, never the current one.
			current = (current + 1 + rng.Intn(places-1)) % places
		}
		keys = append(keys, Keyframe{Time: t, Loc: placeLocation(m.spec, current)})
	}

	return &Timeline{device: device, keys: keys}
}
