package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RNG subsystem names. Each subsystem draws from its own stream so that,
// for example, adding an orchestrator draw never shifts the mobility
// trajectories of an otherwise identical run.
const (
	// SubsystemLoadgen seeds the task arrival schedule.
	SubsystemLoadgen = "loadgen"

	// SubsystemMobility seeds device trajectories.
	SubsystemMobility = "mobility"

	// SubsystemOrchestrator seeds tier rolls and randomized fit policies.
	SubsystemOrchestrator = "orchestrator"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.SeedFor(name)))
	p.subsystems[name] = rng
	return rng
}

// SeedFor returns the derived seed for the named subsystem without
// constructing a generator. Sub-packages that run their own samplers
// (mobility, loadgen) seed from this.
func (p *PartitionedRNG) SeedFor(name string) int64 {
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
