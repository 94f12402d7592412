package network

import (
	"fmt"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// Model estimates transfer delays between a device's serving access point
// and an execution tier, and is notified when transfers start and finish so
// contention-aware variants can track live load. A delay <= 0 means the
// link is saturated and the transfer must be rejected.
//
// The four hooks are called by the task lifecycle in matched pairs; models
// that do not track contention treat them as no-ops.
type Model interface {
	UploadDelay(ap int, dst scenario.Tier) float64
	DownloadDelay(src scenario.Tier, ap int) float64

	UploadStarted(ap int, dst scenario.Tier)
	UploadFinished(ap int, dst scenario.Tier)
	DownloadStarted(ap int, src scenario.Tier)
	DownloadFinished(ap int, src scenario.Tier)
}

// New constructs the delay model named in the scenario spec. The census
// callback reports how many devices are attached to an access point at a
// virtual time, and now reports the current clock; only the census variant
// consumes them.
func New(spec *scenario.Spec, devices int, census func(ap int, t float64) int, now func() float64) (Model, error) {
	switch spec.Network.Model {
	case "averaged":
		return NewAveraged(spec, devices), nil
	case "census":
		if census == nil || now == nil {
			return nil, fmt.Errorf("network: census model needs census and clock callbacks")
		}
		return NewCensus(spec, census, now), nil
	case "contention":
		return NewContention(spec), nil
	default:
		return nil, fmt.Errorf("network: unknown model %q", spec.Network.Model)
	}
}

// LinkState counts the transfers currently active on each link class: one
// counter pair per access point for the WLAN segment and one pair for the
// shared WAN. Counters are mutated only by the lifecycle hooks, which the
// single-threaded engine serializes.
type LinkState struct {
	wlanUploads   []int
	wlanDownloads []int
	wanUploads    int
	wanDownloads  int
}

// NewLinkState creates counters for the given number of access points.
func NewLinkState(places int) *LinkState {
	return &LinkState{
		wlanUploads:   make([]int, places),
		wlanDownloads: make([]int, places),
	}
}

func (s *LinkState) startUpload(ap int, dst scenario.Tier) {
	s.wlanUploads[ap]++
	if dst == scenario.TierCloud {
		s.wanUploads++
	}
}

func (s *LinkState) finishUpload(ap int, dst scenario.Tier) {
	s.wlanUploads[ap]--
	if dst == scenario.TierCloud {
		s.wanUploads--
	}
}

func (s *LinkState) startDownload(ap int, src scenario.Tier) {
	s.wlanDownloads[ap]++
	if src == scenario.TierCloud {
		s.wanDownloads++
	}
}

func (s *LinkState) finishDownload(ap int, src scenario.Tier) {
	s.wlanDownloads[ap]--
	if src == scenario.TierCloud {
		s.wanDownloads--
	}
}

// ActiveUploads returns the number of uploads in flight at an access point.
func (s *LinkState) ActiveUploads(ap int) int { return s.wlanUploads[ap] }

// ActiveDownloads returns the number of downloads in flight at an access point.
func (s *LinkState) ActiveDownloads(ap int) int { return s.wlanDownloads[ap] }

// ActiveWanUploads returns the number of uploads crossing the WAN.
func (s *LinkState) ActiveWanUploads() int { return s.wanUploads }

// ActiveWanDownloads returns the number of downloads crossing the WAN.
func (s *LinkState) ActiveWanDownloads() int { return s.wanDownloads }
