// Package testutil provides shared test infrastructure for the offloading
// simulator: canned scenarios with round-number parameters and assertion
// helpers used across sim/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// UniformScenario returns a single-application, single-tier scenario whose
// parameters are chosen so the analytic delay values come out in closed
// form: one app at 100% usage, mean inter-arrival 5 s, task sizes 1000 KB
// both ways, ten access points sharing the population evenly, and a
// 100,000 Kbps WLAN under M/M/1.
//
// With 100 devices the WLAN arrival rate is (100/10)/5 = 2/s against a
// service rate of 12.5/s, so the averaged-model transfer delay is exactly
// 1/10.5 s.
func UniformScenario() *scenario.Spec {
	places := make([]scenario.Place, 10)
	for i := range places {
		places[i] = scenario.Place{
			WlanID:         i,
			Attractiveness: 0,
			X:              float64(i) * 300,
			Y:              0,
		}
	}
	return &scenario.Spec{
		Apps: []scenario.App{{
			Name:            "UNIFORM_APP",
			UsagePercentage: 100,
			CloudSelectProb: 0,
			PoissonMean:     5,
			ActivePeriod:    3600,
			IdlePeriod:      1,
			UploadKB:        1000,
			DownloadKB:      1000,
			TaskLength:      3000,
			VMUtilizationOn: scenario.UtilizationRow{Edge: 10, Cloud: 1, Local: 25},
		}},
		Places: places,
		Network: scenario.Network{
			Model:          "averaged",
			Queue:          "mm1",
			WlanBandwidth:  100000,
			WanBandwidth:   50000,
			WanPropagation: 0.15,
		},
		Compute: scenario.Compute{
			EdgeVMsPerPlace: 4,
			EdgeVMMips:      10000,
			CloudVMs:        4,
			CloudVMMips:     75000,
		},
		Mobility: scenario.Mobility{
			Model:      "nomadic",
			DwellMeans: []float64{600},
		},
		Simulation: scenario.Simulation{
			Architecture: scenario.SingleTier,
			Horizon:      600,
			WarmUp:       10,
		},
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
