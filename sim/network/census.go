package network

import "github.com/offload-sim/offload-sim/sim/scenario"

// censusCap bounds a single transfer's delay. A computed delay above it
// means the cell is effectively congested and the transfer is refused.
const censusCap = 5

// Census sizes the offered load from the devices actually co-located at an
// access point when the transfer starts, queried through the mobility
// timelines. Uploads are sized by the mean input transfer and downloads by
// the mean output transfer, and the WAN hop of a cloud path is evaluated at
// the moment the WLAN hop completes.
type Census struct {
	queue          string
	wlanBW, wanBW  float64
	wanPropagation float64
	poissonMean    float64
	wanPoissonMean float64
	meanInputKB    float64
	meanOutputKB   float64
	count          func(ap int, t float64) int
	now            func() float64
}

// NewCensus builds the census model; count reports how many devices an
// access point serves at a virtual time and now reports the current clock.
func NewCensus(spec *scenario.Spec, count func(ap int, t float64) int, now func() float64) *Census {
	poissonMean, uploadKB, downloadKB := spec.WeightedMeans()
	return &Census{
		queue:          spec.Network.Queue,
		wlanBW:         spec.Network.WlanBandwidth,
		wanBW:          spec.Network.WanBandwidth,
		wanPropagation: spec.Network.WanPropagation,
		poissonMean:    poissonMean,
		wanPoissonMean: spec.CloudPoissonMean(),
		meanInputKB:    uploadKB,
		meanOutputKB:   downloadKB,
		count:          count,
		now:            now,
	}
}

// capped maps delays above censusCap to the saturation sentinel.
func capped(delay float64) float64 {
	if delay > censusCap {
		return Saturated
	}
	return delay
}

func (m *Census) wlanDelay(ap int, t float64, sizeKB float64) float64 {
	return capped(queueDelay(m.queue, 0, m.wlanBW, m.poissonMean, sizeKB, m.count(ap, t)))
}

func (m *Census) wanDelay(ap int, t float64, sizeKB float64) float64 {
	return capped(queueDelay(m.queue, m.wanPropagation, m.wanBW, m.wanPoissonMean, sizeKB, m.count(ap, t)))
}

func (m *Census) UploadDelay(ap int, dst scenario.Tier) float64 {
	t := m.now()
	wlan := m.wlanDelay(ap, t, m.meanInputKB)
	if dst != scenario.TierCloud || wlan <= 0 {
		return wlan
	}
	// The WAN hop starts once the WLAN hop has delivered the payload to
	// the access point.
	wan := m.wanDelay(ap, t+wlan, m.meanInputKB)
	if wan <= 0 {
		return Saturated
	}
	return wlan + wan
}

func (m *Census) DownloadDelay(src scenario.Tier, ap int) float64 {
	t := m.now()
	if src != scenario.TierCloud {
		return m.wlanDelay(ap, t, m.meanOutputKB)
	}
	wan := m.wanDelay(ap, t, m.meanOutputKB)
	if wan <= 0 {
		return Saturated
	}
	wlan := m.wlanDelay(ap, t+wan, m.meanOutputKB)
	if wlan <= 0 {
		return Saturated
	}
	return wan + wlan
}

func (m *Census) UploadStarted(ap int, dst scenario.Tier)    {}
func (m *Census) UploadFinished(ap int, dst scenario.Tier)   {}
func (m *Census) DownloadStarted(ap int, src scenario.Tier)  {}
func (m *Census) DownloadFinished(ap int, src scenario.Tier) {}
