package network

import "github.com/offload-sim/offload-sim/sim/scenario"

// Averaged is the reference analytic model. The offered load on an access
// point is approximated by the static population devices/places, transfer
// sizes by the usage-weighted mean output size (upload and download are
// symmetric), and the WAN by the full device population at the stretched
// cloud-traffic inter-arrival time. It ignores the link-state hooks
// entirely; the same inputs always produce the same delay.
type Averaged struct {
	queue           string
	wlanBW, wanBW   float64
	wanPropagation  float64
	poissonMean     float64
	wanPoissonMean  float64
	meanOutputKB    float64
	devicesPerPlace int
	devices         int
}

// NewAveraged derives the model parameters from the scenario's application
// mix and the device population of this run.
func NewAveraged(spec *scenario.Spec, devices int) *Averaged {
	poissonMean, _, downloadKB := spec.WeightedMeans()
	return &Averaged{
		queue:           spec.Network.Queue,
		wlanBW:          spec.Network.WlanBandwidth,
		wanBW:           spec.Network.WanBandwidth,
		wanPropagation:  spec.Network.WanPropagation,
		poissonMean:     poissonMean,
		wanPoissonMean:  spec.CloudPoissonMean(),
		meanOutputKB:    downloadKB,
		devicesPerPlace: devices / len(spec.Places),
		devices:         devices,
	}
}

func (m *Averaged) wlanDelay() float64 {
	return queueDelay(m.queue, 0, m.wlanBW, m.poissonMean, m.meanOutputKB, m.devicesPerPlace)
}

func (m *Averaged) wanDelay() float64 {
	return queueDelay(m.queue, m.wanPropagation, m.wanBW, m.wanPoissonMean, m.meanOutputKB, m.devices)
}

func (m *Averaged) UploadDelay(ap int, dst scenario.Tier) float64 {
	wlan := m.wlanDelay()
	if dst != scenario.TierCloud || wlan <= 0 {
		return wlan
	}
	wan := m.wanDelay()
	if wan <= 0 {
		return Saturated
	}
	return wlan + wan
}

func (m *Averaged) DownloadDelay(src scenario.Tier, ap int) float64 {
	// Symmetric by construction: both directions are sized by the mean
	// output transfer.
	return m.UploadDelay(ap, src)
}

func (m *Averaged) UploadStarted(ap int, dst scenario.Tier)    {}
func (m *Averaged) UploadFinished(ap int, dst scenario.Tier)   {}
func (m *Averaged) DownloadStarted(ap int, src scenario.Tier)  {}
func (m *Averaged) DownloadFinished(ap int, src scenario.Tier) {}
