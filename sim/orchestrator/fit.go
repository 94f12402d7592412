package orchestrator

import (
	"math/rand"

	"github.com/offload-sim/offload-sim/sim/compute"
)

// RandomFit samples one candidate uniformly and takes it only if it fits.
// There is no second draw: a busy pick is a rejection even when an idle VM
// sits next to it.
type RandomFit struct {
	rng *rand.Rand
}

func (p *RandomFit) Name() string { return "random" }

func (p *RandomFit) Select(snap *Snapshot) (compute.ResourceRef, bool) {
	n := len(snap.Candidates)
	if n == 0 {
		return compute.ResourceRef{}, false
	}
	c := snap.Candidates[p.rng.Intn(n)]
	if snap.Demand <= c.Residual {
		return c.Ref, true
	}
	return compute.ResourceRef{}, false
}

// FirstFit scans candidates in order and takes the first one with room.
type FirstFit struct{}

func (p *FirstFit) Name() string { return "first" }

func (p *FirstFit) Select(snap *Snapshot) (compute.ResourceRef, bool) {
	for _, c := range snap.Candidates {
		if snap.Demand <= c.Residual {
			return c.Ref, true
		}
	}
	return compute.ResourceRef{}, false
}

type poolKey struct {
	tier  string
	place int
}

// NextFit resumes scanning where the previous selection for the same pool
// left off, wrapping once around the candidate list. Cursors are keyed by
// tier and place so every access point rotates independently.
type NextFit struct {
	next map[poolKey]int
}

func (p *NextFit) Name() string { return "next" }

func (p *NextFit) Select(snap *Snapshot) (compute.ResourceRef, bool) {
	n := len(snap.Candidates)
	if n == 0 {
		return compute.ResourceRef{}, false
	}
	key := poolKey{tier: string(snap.Tier), place: snap.Candidates[0].Ref.Place}
	start := p.next[key]
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if snap.Demand <= snap.Candidates[idx].Residual {
			p.next[key] = (idx + 1) % n
			return snap.Candidates[idx].Ref, true
		}
	}
	return compute.ResourceRef{}, false
}

// BestFit takes the fitting candidate with the least residual capacity,
// packing VMs tightly before opening fresh ones.
type BestFit struct{}

func (p *BestFit) Name() string { return "best" }

func (p *BestFit) Select(snap *Snapshot) (compute.ResourceRef, bool) {
	best := 101.0
	var ref compute.ResourceRef
	found := false
	for _, c := range snap.Candidates {
		if snap.Demand <= c.Residual && c.Residual < best {
			best = c.Residual
			ref = c.Ref
			found = true
		}
	}
	return ref, found
}

// WorstFit takes the fitting candidate with the most residual capacity,
// spreading load across the pool. Ties keep the earliest candidate.
type WorstFit struct{}

func (p *WorstFit) Name() string { return "worst" }

func (p *WorstFit) Select(snap *Snapshot) (compute.ResourceRef, bool) {
	best := 0.0
	var ref compute.ResourceRef
	found := false
	for _, c := range snap.Candidates {
		if snap.Demand <= c.Residual && c.Residual > best {
			best = c.Residual
			ref = c.Ref
			found = true
		}
	}
	return ref, found
}
