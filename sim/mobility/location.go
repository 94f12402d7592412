// Package mobility precomputes per-device location timelines and answers
// point-in-time location queries against them. Timelines are generated once
// before a run, cover the whole simulation horizon, and are immutable
// afterwards; the rest of the engine only ever reads them.
package mobility

import "math"

// Location is a device position snapshot: the place it is attached to, the
// access point serving it, and its coordinates. Value type, freely copied.
type Location struct {
	PlaceID        int
	Attractiveness int
	WlanID         int
	X, Y           float64
}

// SameAP reports whether two locations are served by the same access point.
// This is the test the delivery check uses; coordinates are irrelevant to it.
func (l Location) SameAP(other Location) bool {
	return l.WlanID == other.WlanID
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// nearest returns the access point location closest to (x, y) by Euclidean
// distance. Ties resolve to the lowest index so binding is deterministic.
func nearest(aps []Location, x, y float64) Location {
	best := 0
	bestDist := math.Inf(1)
	for i, ap := range aps {
		if d := distance(x, y, ap.X, ap.Y); d < bestDist {
			best = i
			bestDist = d
		}
	}
	loc := aps[best]
	loc.X = x
	loc.Y = y
	return loc
}
