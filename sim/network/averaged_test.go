package network

import (
	"testing"

	"github.com/offload-sim/offload-sim/sim/internal/testutil"
	"github.com/offload-sim/offload-sim/sim/scenario"
)

// GIVEN the uniform scenario shared across the engine tests: 100 devices
// over 10 access points, 5 s inter-arrival, 1000 KB transfers, 100,000 Kbps
// WLAN
// WHEN the averaged model prices a WLAN transfer
// THEN the delay is exactly 1/10.5 s in both directions, independent of the
// access point and of any link-state hook calls
func TestAveraged_UniformClosedForm(t *testing.T) {
	m := NewAveraged(testutil.UniformScenario(), 100)
	want := 1.0 / 10.5

	for ap := 0; ap < 10; ap++ {
		testutil.AssertFloat64Equal(t, "upload delay", want, m.UploadDelay(ap, scenario.TierEdge), 1e-9)
		testutil.AssertFloat64Equal(t, "download delay", want, m.DownloadDelay(scenario.TierEdge, ap), 1e-9)
	}

	// Hooks are no-ops here; the delay must not move.
	m.UploadStarted(0, scenario.TierEdge)
	m.DownloadStarted(0, scenario.TierEdge)
	testutil.AssertFloat64Equal(t, "upload delay after hooks", want, m.UploadDelay(0, scenario.TierEdge), 1e-9)
}

func TestAveraged_CloudAddsWanLeg(t *testing.T) {
	m := NewAveraged(scenario.Default(), 100)

	edge := m.UploadDelay(0, scenario.TierEdge)
	cloud := m.UploadDelay(0, scenario.TierCloud)
	if edge <= 0 || cloud <= 0 {
		t.Fatalf("delays should be finite here: edge=%v cloud=%v", edge, cloud)
	}
	// The WAN leg carries at least the propagation delay on top of the WLAN
	// leg.
	if cloud < edge+0.15 {
		t.Errorf("cloud delay %v does not include the wan leg above edge delay %v", cloud, edge)
	}
}

func TestAveraged_WlanSaturation(t *testing.T) {
	// 630 devices over 10 places: lambda = 63/5 = 12.6/s against mu = 12.5/s.
	m := NewAveraged(testutil.UniformScenario(), 630)
	if got := m.UploadDelay(0, scenario.TierEdge); got > 0 {
		t.Errorf("UploadDelay = %v, want saturation", got)
	}
	if got := m.DownloadDelay(scenario.TierEdge, 0); got > 0 {
		t.Errorf("DownloadDelay = %v, want saturation", got)
	}
}

func TestAveraged_NoCloudTrafficSaturatesWan(t *testing.T) {
	// The uniform scenario never selects the cloud, so the wan inter-arrival
	// mean is zero and any cloud-bound transfer must be rejected.
	m := NewAveraged(testutil.UniformScenario(), 100)
	if got := m.UploadDelay(0, scenario.TierCloud); got != Saturated {
		t.Errorf("UploadDelay(cloud) = %v, want the saturation sentinel", got)
	}
}
