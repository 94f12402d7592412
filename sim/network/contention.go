package network

import "github.com/offload-sim/offload-sim/sim/scenario"

// Contention sizes the offered load from the transfers currently in flight
// on each link rather than from a population average: a link carrying n
// active transfers prices a new one as if n+1 devices competed for it. The
// lifecycle hooks keep the counters current.
type Contention struct {
	queue          string
	wlanBW, wanBW  float64
	wanPropagation float64
	poissonMean    float64
	wanPoissonMean float64
	meanOutputKB   float64
	state          *LinkState
}

// NewContention builds the contention-tracked model with fresh counters.
func NewContention(spec *scenario.Spec) *Contention {
	poissonMean, _, downloadKB := spec.WeightedMeans()
	return &Contention{
		queue:          spec.Network.Queue,
		wlanBW:         spec.Network.WlanBandwidth,
		wanBW:          spec.Network.WanBandwidth,
		wanPropagation: spec.Network.WanPropagation,
		poissonMean:    poissonMean,
		wanPoissonMean: spec.CloudPoissonMean(),
		meanOutputKB:   downloadKB,
		state:          NewLinkState(len(spec.Places)),
	}
}

// State exposes the live counters, chiefly for tests.
func (m *Contention) State() *LinkState { return m.state }

func (m *Contention) UploadDelay(ap int, dst scenario.Tier) float64 {
	wlan := queueDelay(m.queue, 0, m.wlanBW, m.poissonMean, m.meanOutputKB,
		m.state.ActiveUploads(ap)+1)
	if dst != scenario.TierCloud || wlan <= 0 {
		return wlan
	}
	wan := queueDelay(m.queue, m.wanPropagation, m.wanBW, m.wanPoissonMean, m.meanOutputKB,
		m.state.ActiveWanUploads()+1)
	if wan <= 0 {
		return Saturated
	}
	return wlan + wan
}

func (m *Contention) DownloadDelay(src scenario.Tier, ap int) float64 {
	wlan := queueDelay(m.queue, 0, m.wlanBW, m.poissonMean, m.meanOutputKB,
		m.state.ActiveDownloads(ap)+1)
	if src != scenario.TierCloud || wlan <= 0 {
		return wlan
	}
	wan := queueDelay(m.queue, m.wanPropagation, m.wanBW, m.wanPoissonMean, m.meanOutputKB,
		m.state.ActiveWanDownloads()+1)
	if wan <= 0 {
		return Saturated
	}
	return wlan + wan
}

func (m *Contention) UploadStarted(ap int, dst scenario.Tier)  { m.state.startUpload(ap, dst) }
func (m *Contention) UploadFinished(ap int, dst scenario.Tier) { m.state.finishUpload(ap, dst) }
func (m *Contention) DownloadStarted(ap int, src scenario.Tier) {
	m.state.startDownload(ap, src)
}
func (m *Contention) DownloadFinished(ap int, src scenario.Tier) {
	m.state.finishDownload(ap, src)
}
