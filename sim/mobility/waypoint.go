package mobility

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// Waypoint is the continuous random-waypoint model: a device picks a
// uniformly random destination in the scenario area, walks there at a
// sampled speed, pauses for a sampled duration, and repeats. Positions
// between keyframes are linearly interpolated and bound to the nearest
// access point at query time.
type Waypoint struct {
	spec *scenario.Spec
	seed uint64
}

func (m *Waypoint) Name() string { return "waypoint" }

func (m *Waypoint) Timeline(device int, horizon float64) *Timeline {
	src := rand.NewSource(m.seed + uint64(device))
	cfg := m.spec.Mobility

	xDist := distuv.Uniform{Min: 0, Max: cfg.AreaWidth, Src: src}
	yDist := distuv.Uniform{Min: 0, Max: cfg.AreaHeight, Src: src}
	speedDist := distuv.Normal{Mu: cfg.SpeedMean, Sigma: cfg.SpeedStddev, Src: src}
	pauseDist := distuv.Normal{Mu: cfg.PauseMean, Sigma: cfg.PauseStddev, Src: src}

	aps := make([]Location, len(m.spec.Places))
	for i := range m.spec.Places {
		aps[i] = placeLocation(m.spec, i)
	}

	x, y := xDist.Rand(), yDist.Rand()
	keys := []Keyframe{{Time: 0, Loc: nearest(aps, x, y)}}

	t := 0.0
	for t < horizon {
		destX, destY := xDist.Rand(), yDist.Rand()
		dist := distance(x, y, destX, destY)
		if dist == 0 {
			continue
		}
		speed := math.Abs(speedDist.Rand())
		if speed == 0 {
			speed = cfg.SpeedMean
		}

		// Arrival keyframe: the segment back to the previous keyframe is a
		// movement segment and interpolates.
		t += dist / speed
		keys = append(keys, Keyframe{Time: t, Loc: nearest(aps, destX, destY)})

		// Pause keyframe at the same position marks a resting segment.
		if pause := math.Abs(pauseDist.Rand()); pause > 0 {
			t += pause
			keys = append(keys, Keyframe{Time: t, Loc: nearest(aps, destX, destY)})
		}
		x, y = destX, destY
	}

	return &Timeline{device: device, keys: keys, aps: aps}
}
