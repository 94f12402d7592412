package mobility

import (
	"fmt"
	"sort"
)

// Keyframe anchors a location at a point in virtual time.
type Keyframe struct {
	Time float64
	Loc  Location
}

// Timeline is one device's precomputed trajectory: keyframes sorted by
// strictly increasing time, first keyframe at t=0. Lookups use a
// binary-search floor: the active keyframe is the one with the largest time
// not exceeding the query. Waypoint timelines additionally interpolate
// between the endpoints of a movement segment and rebind the interpolated
// position to its nearest access point.
type Timeline struct {
	device int
	keys   []Keyframe
	aps    []Location // non-nil enables interpolation between moving keyframes
}

// NewTimeline builds a timeline from explicit keyframes, sorted by time.
// aps may be nil for pure keyframe trajectories; passing the scenario's
// access points enables interpolation between moving keyframes. Callers
// composing trajectories by hand must still start them at t=0 and extend
// them past the horizon for Covers to hold.
func NewTimeline(device int, keys []Keyframe, aps []Location) *Timeline {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Timeline{device: device, keys: sorted, aps: aps}
}

// Device returns the id of the device owning this timeline.
func (tl *Timeline) Device() int { return tl.device }

// Len returns the number of keyframes.
func (tl *Timeline) Len() int { return len(tl.keys) }

// LastKeyTime returns the time of the final keyframe. A valid timeline has
// LastKeyTime >= horizon before the run starts.
func (tl *Timeline) LastKeyTime() float64 {
	if len(tl.keys) == 0 {
		return 0
	}
	return tl.keys[len(tl.keys)-1].Time
}

// Covers reports whether the timeline spans [0, horizon].
func (tl *Timeline) Covers(horizon float64) bool {
	return len(tl.keys) > 0 && tl.keys[0].Time == 0 && tl.LastKeyTime() >= horizon
}

// LocationAt returns the device's location at time t. Queries beyond the
// last keyframe resolve to it (the device stays put once its trajectory
// ends); a query before the first keyframe has no covering entry and is an
// error the caller must treat as fatal.
func (tl *Timeline) LocationAt(t float64) (Location, error) {
	if len(tl.keys) == 0 {
		return Location{}, fmt.Errorf("device %d has an empty timeline", tl.device)
	}
	// First index with key time strictly greater than t; the floor is the
	// entry just before it.
	idx := sort.Search(len(tl.keys), func(i int) bool { return tl.keys[i].Time > t })
	if idx == 0 {
		return Location{}, fmt.Errorf("device %d has no keyframe covering t=%.6f (first key at t=%.6f)",
			tl.device, t, tl.keys[0].Time)
	}
	floor := tl.keys[idx-1]
	if tl.aps == nil || idx == len(tl.keys) {
		return floor.Loc, nil
	}

	next := tl.keys[idx]
	if floor.Loc.X == next.Loc.X && floor.Loc.Y == next.Loc.Y {
		// Resting segment: both endpoints at the same position.
		return floor.Loc, nil
	}
	frac := (t - floor.Time) / (next.Time - floor.Time)
	x := floor.Loc.X + (next.Loc.X-floor.Loc.X)*frac
	y := floor.Loc.Y + (next.Loc.Y-floor.Loc.Y)*frac
	return nearest(tl.aps, x, y), nil
}
