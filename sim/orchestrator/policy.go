// Package orchestrator decides where a task runs. Tier selection is a
// function of the scenario architecture; within a tier, a pluggable fit
// policy picks one VM from the candidates the capacity oracle offers.
package orchestrator

import (
	"math/rand"

	"github.com/offload-sim/offload-sim/sim/compute"
	"github.com/offload-sim/offload-sim/sim/scenario"
)

// Snapshot is everything a policy may look at when choosing a resource. It
// is a copy: policies never reach into live simulation state.
type Snapshot struct {
	Now        float64
	Tier       scenario.Tier
	Demand     float64
	Candidates []compute.Candidate
}

// Policy picks one resource from a snapshot. The second result is false
// when no candidate can take the task, which the engine records as a
// capacity rejection.
type Policy interface {
	Name() string
	Select(snap *Snapshot) (compute.ResourceRef, bool)
}

// New builds the named fit policy. Policies that randomize draw from rng
// and nothing else, so runs with the same seed reproduce their choices.
func New(name string, rng *rand.Rand) (Policy, error) {
	switch name {
	case "random":
		return &RandomFit{rng: rng}, nil
	case "first":
		return &FirstFit{}, nil
	case "next":
		return &NextFit{next: make(map[poolKey]int)}, nil
	case "best":
		return &BestFit{}, nil
	case "worst":
		return &WorstFit{}, nil
	}
	return nil, &scenario.ConfigError{Field: "policy", Reason: "unknown fit policy " + name}
}

// SelectTier maps the architecture to an execution tier for one task.
//
// Single-tier always offloads to the edge. Two-tier rolls an integer in
// [0,100] against the application's cloud selection probability. Hybrid
// keeps the task on the device when its own VM has room and offloads to
// the edge otherwise.
func SelectTier(arch scenario.Architecture, app *scenario.App, localResidual, localDemand float64, rng *rand.Rand) scenario.Tier {
	switch arch {
	case scenario.Hybrid:
		if localDemand <= localResidual {
			return scenario.TierLocal
		}
		return scenario.TierEdge
	case scenario.TwoTier:
		if float64(rng.Intn(101)) <= app.CloudSelectProb {
			return scenario.TierCloud
		}
		return scenario.TierEdge
	}
	return scenario.TierEdge
}
