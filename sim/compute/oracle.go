// Package compute answers capacity questions for the execution tiers. The
// engine only ever talks to the Oracle interface: can this resource take
// this task, commit it and estimate its service time, and release it when
// execution finishes. The reference implementation models per-tier VM pools
// with additive percentage utilization.
package compute

import (
	"fmt"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// ResourceRef names one VM without exposing its internals. Place is the
// serving access point for edge VMs, the owning device for local VMs, and
// -1 for cloud VMs.
type ResourceRef struct {
	Tier  scenario.Tier
	Place int
	Index int
}

func (r ResourceRef) String() string {
	if r.Tier == scenario.TierCloud {
		return fmt.Sprintf("cloud/vm%d", r.Index)
	}
	return fmt.Sprintf("%s/%d/vm%d", r.Tier, r.Place, r.Index)
}

// Candidate is a resource offered to an orchestration policy together with
// its residual capacity (percent) at snapshot time.
type Candidate struct {
	Ref      ResourceRef
	Residual float64
}

// Oracle is the capacity interface the engine consumes.
//
// Bind is the only committing operation: it re-checks capacity at call time
// (the system may have changed since the placement decision) and either
// commits the task and returns its service-time estimate, or reports a
// capacity rejection. Rejection is an ordinary outcome, not an error.
type Oracle interface {
	PredictUtilization(tier scenario.Tier, app int) float64
	Candidates(tier scenario.Tier, place int) []Candidate
	CheckCapacity(ref ResourceRef, app int) bool
	Bind(ref ResourceRef, app int, lengthMI float64) (serviceTime float64, ok bool)
	Release(ref ResourceRef, app int)
}

type vm struct {
	mips float64
	util float64
}

func (v *vm) residual() float64 { return 100 - v.util }

// Pools is the reference oracle: a fixed VM pool per tier, utilization
// accounted as the sum of the predicted per-task percentages of the tasks
// currently bound, capped at 100.
type Pools struct {
	spec  *scenario.Spec
	edge  [][]*vm // indexed by access point id
	cloud []*vm
	local []*vm // indexed by device id; nil unless the scenario has local VMs
}

// NewPools builds the pools the scenario's compute section describes.
func NewPools(spec *scenario.Spec, devices int) *Pools {
	p := &Pools{spec: spec}

	p.edge = make([][]*vm, len(spec.Places))
	for _, place := range spec.Places {
		pool := make([]*vm, spec.Compute.EdgeVMsPerPlace)
		for i := range pool {
			pool[i] = &vm{mips: spec.Compute.EdgeVMMips}
		}
		p.edge[place.WlanID] = pool
	}

	p.cloud = make([]*vm, spec.Compute.CloudVMs)
	for i := range p.cloud {
		p.cloud[i] = &vm{mips: spec.Compute.CloudVMMips}
	}

	if spec.Compute.LocalVMMips > 0 {
		p.local = make([]*vm, devices)
		for i := range p.local {
			p.local[i] = &vm{mips: spec.Compute.LocalVMMips}
		}
	}
	return p
}

func (p *Pools) vmAt(ref ResourceRef) *vm {
	switch ref.Tier {
	case scenario.TierEdge:
		if ref.Place < 0 || ref.Place >= len(p.edge) {
			return nil
		}
		pool := p.edge[ref.Place]
		if ref.Index < 0 || ref.Index >= len(pool) {
			return nil
		}
		return pool[ref.Index]
	case scenario.TierCloud:
		if ref.Index < 0 || ref.Index >= len(p.cloud) {
			return nil
		}
		return p.cloud[ref.Index]
	case scenario.TierLocal:
		if ref.Place < 0 || ref.Place >= len(p.local) {
			return nil
		}
		return p.local[ref.Place]
	}
	return nil
}

// PredictUtilization returns the percentage load one task of the given
// application adds to a VM of the tier, straight from the scenario table.
func (p *Pools) PredictUtilization(tier scenario.Tier, app int) float64 {
	return p.spec.Apps[app].VMUtilizationOn.OnTier(tier)
}

// Candidates lists the resources a policy may choose from: the VMs at the
// given access point for the edge tier, the whole pool for the cloud tier,
// and the owning device's single VM for the local tier.
func (p *Pools) Candidates(tier scenario.Tier, place int) []Candidate {
	switch tier {
	case scenario.TierEdge:
		if place < 0 || place >= len(p.edge) {
			return nil
		}
		out := make([]Candidate, len(p.edge[place]))
		for i, v := range p.edge[place] {
			out[i] = Candidate{
				Ref:      ResourceRef{Tier: tier, Place: place, Index: i},
				Residual: v.residual(),
			}
		}
		return out
	case scenario.TierCloud:
		out := make([]Candidate, len(p.cloud))
		for i, v := range p.cloud {
			out[i] = Candidate{
				Ref:      ResourceRef{Tier: tier, Place: -1, Index: i},
				Residual: v.residual(),
			}
		}
		return out
	case scenario.TierLocal:
		if place < 0 || place >= len(p.local) {
			return nil
		}
		return []Candidate{{
			Ref:      ResourceRef{Tier: tier, Place: place, Index: 0},
			Residual: p.local[place].residual(),
		}}
	}
	return nil
}

// CheckCapacity reports whether the resource can take one more task of the
// application right now. Purely advisory; nothing is committed.
func (p *Pools) CheckCapacity(ref ResourceRef, app int) bool {
	v := p.vmAt(ref)
	return v != nil && p.PredictUtilization(ref.Tier, app) <= v.residual()
}

// Bind commits the task if the resource still has room and returns the
// service-time estimate length/MIPS. The ok result is false when capacity
// ran out between the placement decision and now.
func (p *Pools) Bind(ref ResourceRef, app int, lengthMI float64) (float64, bool) {
	v := p.vmAt(ref)
	if v == nil {
		return 0, false
	}
	demand := p.PredictUtilization(ref.Tier, app)
	if demand > v.residual() {
		return 0, false
	}
	v.util += demand
	return lengthMI / v.mips, true
}

// Release returns the task's share of the VM when execution completes.
func (p *Pools) Release(ref ResourceRef, app int) {
	v := p.vmAt(ref)
	if v == nil {
		return
	}
	v.util -= p.PredictUtilization(ref.Tier, app)
	if v.util < 0 {
		v.util = 0
	}
}
