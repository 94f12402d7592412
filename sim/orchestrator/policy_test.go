package orchestrator

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/offload-sim/offload-sim/sim/compute"
	"github.com/offload-sim/offload-sim/sim/scenario"
)

// edgeSnap builds a snapshot of one edge pool with the given residuals.
func edgeSnap(demand float64, residuals ...float64) *Snapshot {
	cands := make([]compute.Candidate, len(residuals))
	for i, r := range residuals {
		cands[i] = compute.Candidate{
			Ref:      compute.ResourceRef{Tier: scenario.TierEdge, Place: 0, Index: i},
			Residual: r,
		}
	}
	return &Snapshot{Tier: scenario.TierEdge, Demand: demand, Candidates: cands}
}

// === Registry Tests ===

func TestNew_KnownPolicies(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, name := range []string{"random", "first", "next", "best", "worst"} {
		pol, err := New(name, rng)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if pol.Name() != name {
			t.Errorf("Name() = %q, want %q", pol.Name(), name)
		}
	}
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New("tightest", rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("New accepted an unknown policy name")
	}
	if _, ok := err.(*scenario.ConfigError); !ok {
		t.Errorf("error type = %T, want *scenario.ConfigError", err)
	}
}

// === Fit Policy Tests ===

func TestFitPolicies_Selection(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		snap    *Snapshot
		wantIdx int // -1 means rejection
	}{
		{"first takes the earliest fit", &FirstFit{}, edgeSnap(10, 5, 50, 90), 1},
		{"first takes index zero when it fits", &FirstFit{}, edgeSnap(4, 5, 50, 90), 0},
		{"first rejects when nothing fits", &FirstFit{}, edgeSnap(95, 5, 50, 90), -1},

		{"best packs the tightest fit", &BestFit{}, edgeSnap(10, 90, 30, 60), 1},
		{"best skips candidates without room", &BestFit{}, edgeSnap(40, 90, 30, 60), 2},
		{"best keeps the earliest tie", &BestFit{}, edgeSnap(10, 50, 50, 80), 0},
		{"best rejects when nothing fits", &BestFit{}, edgeSnap(95, 5, 50, 90), -1},

		{"worst spreads to the emptiest vm", &WorstFit{}, edgeSnap(10, 90, 30, 60), 0},
		{"worst keeps the earliest tie", &WorstFit{}, edgeSnap(10, 30, 90, 90), 1},
		{"worst rejects when nothing fits", &WorstFit{}, edgeSnap(95, 5, 50, 90), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := tt.policy.Select(tt.snap)
			if tt.wantIdx < 0 {
				if ok {
					t.Fatalf("Select picked %v, want rejection", ref)
				}
				return
			}
			if !ok {
				t.Fatal("Select rejected, want a pick")
			}
			if ref.Index != tt.wantIdx {
				t.Errorf("Select picked index %d, want %d", ref.Index, tt.wantIdx)
			}
		})
	}
}

func TestFitPolicies_EmptyPool(t *testing.T) {
	policies := []Policy{
		&RandomFit{rng: rand.New(rand.NewSource(1))},
		&FirstFit{},
		&NextFit{next: make(map[poolKey]int)},
		&BestFit{},
		&WorstFit{},
	}
	for _, pol := range policies {
		if _, ok := pol.Select(edgeSnap(10)); ok {
			t.Errorf("%s picked from an empty pool", pol.Name())
		}
	}
}

// GIVEN a pool where every VM fits
// WHEN next-fit selects repeatedly
// THEN picks rotate through the pool, resuming after the last pick, and a
// full VM is skipped in passing
func TestNextFit_Rotation(t *testing.T) {
	pol := &NextFit{next: make(map[poolKey]int)}

	snap := edgeSnap(10, 100, 100, 100)
	for _, want := range []int{0, 1, 2, 0} {
		ref, ok := pol.Select(snap)
		if !ok {
			t.Fatal("Select rejected with room everywhere")
		}
		if ref.Index != want {
			t.Fatalf("Select picked index %d, want %d", ref.Index, want)
		}
	}

	// Cursor now points at VM 1. Filling it sends the next pick to VM 2.
	snap = edgeSnap(10, 100, 5, 100)
	ref, ok := pol.Select(snap)
	if !ok || ref.Index != 2 {
		t.Errorf("Select = (%v, %v), want index 2 after skipping the full VM", ref, ok)
	}
}

func TestNextFit_CursorsPerPool(t *testing.T) {
	pol := &NextFit{next: make(map[poolKey]int)}

	poolAt := func(place int) *Snapshot {
		snap := edgeSnap(10, 100, 100)
		for i := range snap.Candidates {
			snap.Candidates[i].Ref.Place = place
		}
		return snap
	}

	a1, _ := pol.Select(poolAt(0))
	b1, _ := pol.Select(poolAt(1))
	a2, _ := pol.Select(poolAt(0))
	if a1.Index != 0 || b1.Index != 0 || a2.Index != 1 {
		t.Errorf("picks = %d/%d/%d, want 0/0/1: pools must rotate independently", a1.Index, b1.Index, a2.Index)
	}
}

// GIVEN a pool with one full and one idle VM
// WHEN random-fit samples many times
// THEN some picks land on the full VM and are rejected outright, with no
// second draw
func TestRandomFit_SingleSample(t *testing.T) {
	pol := &RandomFit{rng: rand.New(rand.NewSource(3))}
	snap := edgeSnap(10, 5, 100)

	accepted, rejected := 0, 0
	for i := 0; i < 200; i++ {
		ref, ok := pol.Select(snap)
		if ok {
			if ref.Index != 1 {
				t.Fatalf("accepted index %d, but only VM 1 has room", ref.Index)
			}
			accepted++
		} else {
			rejected++
		}
	}
	if accepted == 0 || rejected == 0 {
		t.Errorf("accepted=%d rejected=%d: a single uniform sample must produce both", accepted, rejected)
	}
}

func TestRandomFit_Deterministic(t *testing.T) {
	a := &RandomFit{rng: rand.New(rand.NewSource(7))}
	b := &RandomFit{rng: rand.New(rand.NewSource(7))}
	snap := edgeSnap(10, 100, 100, 100, 100)
	for i := 0; i < 50; i++ {
		refA, okA := a.Select(snap)
		refB, okB := b.Select(snap)
		if refA != refB || okA != okB {
			t.Fatalf("draw %d diverged: (%v,%v) vs (%v,%v)", i, refA, okA, refB, okB)
		}
	}
}

// GIVEN a snapshot handed to every policy
// WHEN Select runs repeatedly
// THEN the snapshot stays untouched; capacity commits only at bind time
func TestFitPolicies_LeaveSnapshotUntouched(t *testing.T) {
	for _, name := range []string{"random", "first", "next", "best", "worst"} {
		t.Run(name, func(t *testing.T) {
			pol, err := New(name, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			snap := edgeSnap(10, 50, 5, 80)
			want := make([]compute.Candidate, len(snap.Candidates))
			copy(want, snap.Candidates)

			pol.Select(snap)
			pol.Select(snap)

			if snap.Demand != 10 {
				t.Errorf("demand mutated to %v", snap.Demand)
			}
			if !reflect.DeepEqual(snap.Candidates, want) {
				t.Errorf("candidates mutated: %v, want %v", snap.Candidates, want)
			}
		})
	}
}

// === Tier Selection Tests ===

func TestSelectTier_SingleTier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	app := &scenario.App{CloudSelectProb: 100}
	for i := 0; i < 20; i++ {
		if got := SelectTier(scenario.SingleTier, app, 0, 0, rng); got != scenario.TierEdge {
			t.Fatalf("SelectTier = %s, want edge", got)
		}
	}
}

func TestSelectTier_Hybrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	app := &scenario.App{}
	tests := []struct {
		name     string
		residual float64
		demand   float64
		want     scenario.Tier
	}{
		{"room on the device", 30, 20, scenario.TierLocal},
		{"exact fit stays local", 30, 30, scenario.TierLocal},
		{"device full", 30, 31, scenario.TierEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectTier(scenario.Hybrid, app, tt.residual, tt.demand, rng); got != tt.want {
				t.Errorf("SelectTier = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectTier_TwoTier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	always := &scenario.App{CloudSelectProb: 100}
	for i := 0; i < 50; i++ {
		if got := SelectTier(scenario.TwoTier, always, 0, 0, rng); got != scenario.TierCloud {
			t.Fatalf("SelectTier with probability 100 = %s, want cloud", got)
		}
	}

	half := &scenario.App{CloudSelectProb: 50}
	seen := map[scenario.Tier]int{}
	for i := 0; i < 300; i++ {
		seen[SelectTier(scenario.TwoTier, half, 0, 0, rng)]++
	}
	if seen[scenario.TierEdge] == 0 || seen[scenario.TierCloud] == 0 {
		t.Errorf("split at probability 50 = %v, want both tiers represented", seen)
	}
}
