// Package scenario defines the input tables for an offloading simulation:
// the application mix, the edge places, the network links, the compute
// capacities, and the mobility parameters. Specs are loaded from YAML once
// per run and are read-only afterwards; every knob the engine consumes comes
// from here or from the CLI flags layered on top.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is an execution location class for a task.
type Tier string

const (
	TierLocal Tier = "local"
	TierEdge  Tier = "edge"
	TierCloud Tier = "cloud"
)

// Architecture selects which tiers participate in orchestration.
type Architecture string

const (
	// SingleTier sends every offloaded task to the edge.
	SingleTier Architecture = "single-tier"
	// TwoTier splits tasks between edge and cloud using each application's
	// cloud selection probability.
	TwoTier Architecture = "two-tier"
	// Hybrid prefers the device's own processing unit when it has spare
	// capacity and falls back to the edge otherwise.
	Hybrid Architecture = "hybrid"
)

// ConfigError reports a malformed or missing scenario input. It is fatal:
// the run never starts with an invalid spec.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scenario: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// App is one row of the application lookup table. Sizes are KB, periods and
// inter-arrival times are seconds, length is million instructions, and the
// utilization columns are the percentage load one task of this type puts on
// a VM of the respective tier.
type App struct {
	Name             string         `yaml:"name"`
	UsagePercentage  float64        `yaml:"usage_percentage"`
	CloudSelectProb  float64        `yaml:"cloud_select_probability"`
	PoissonMean      float64        `yaml:"poisson_interarrival"`
	ActivePeriod     float64        `yaml:"active_period"`
	IdlePeriod       float64        `yaml:"idle_period"`
	UploadKB         float64        `yaml:"data_upload"`
	DownloadKB       float64        `yaml:"data_download"`
	TaskLength       float64        `yaml:"task_length"`
	VMUtilizationOn  UtilizationRow `yaml:"vm_utilization"`
	DelaySensitivity float64        `yaml:"delay_sensitivity,omitempty"`
}

// UtilizationRow holds the predicted per-task VM load for each tier.
type UtilizationRow struct {
	Edge  float64 `yaml:"edge"`
	Cloud float64 `yaml:"cloud"`
	Local float64 `yaml:"local"`
}

// OnTier returns the predicted utilization for the given tier.
func (u UtilizationRow) OnTier(t Tier) float64 {
	switch t {
	case TierEdge:
		return u.Edge
	case TierCloud:
		return u.Cloud
	case TierLocal:
		return u.Local
	}
	return 0
}

// Place is one edge location: an access point with a position and an
// attractiveness class indexing into the dwell-time table.
type Place struct {
	WlanID         int     `yaml:"wlan_id"`
	Attractiveness int     `yaml:"attractiveness"`
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
}

// Network configures the link models. Bandwidths are Kbps, the propagation
// delay is seconds. Queue selects the analytic discipline (mm1 or mm2) and
// Model the delay model variant (averaged, census, or contention).
type Network struct {
	Model          string  `yaml:"model"`
	Queue          string  `yaml:"queue"`
	WlanBandwidth  float64 `yaml:"wlan_bandwidth_kbps"`
	WanBandwidth   float64 `yaml:"wan_bandwidth_kbps"`
	WanPropagation float64 `yaml:"wan_propagation"`
}

// Compute configures the VM pools behind the capacity oracle.
type Compute struct {
	EdgeVMsPerPlace int     `yaml:"edge_vms_per_place"`
	EdgeVMMips      float64 `yaml:"edge_vm_mips"`
	CloudVMs        int     `yaml:"cloud_vms"`
	CloudVMMips     float64 `yaml:"cloud_vm_mips"`
	LocalVMMips     float64 `yaml:"local_vm_mips"`
}

// Mobility configures timeline generation. DwellMeans is indexed by
// attractiveness class (nomadic model); the speed and pause parameters feed
// the waypoint model, with positions drawn inside AreaWidth x AreaHeight.
type Mobility struct {
	Model       string    `yaml:"model"`
	DwellMeans  []float64 `yaml:"dwell_means"`
	AreaWidth   float64   `yaml:"area_width,omitempty"`
	AreaHeight  float64   `yaml:"area_height,omitempty"`
	SpeedMean   float64   `yaml:"speed_mean,omitempty"`
	SpeedStddev float64   `yaml:"speed_stddev,omitempty"`
	PauseMean   float64   `yaml:"pause_mean,omitempty"`
	PauseStddev float64   `yaml:"pause_stddev,omitempty"`
}

// Simulation holds the run-level parameters shared by every device.
type Simulation struct {
	Architecture Architecture `yaml:"architecture"`
	Horizon      float64      `yaml:"horizon"`
	WarmUp       float64      `yaml:"warmup"`
	Progress     float64      `yaml:"progress_interval,omitempty"`
}

// Spec is the top-level scenario configuration, loaded from YAML.
type Spec struct {
	Name       string     `yaml:"name"`
	Apps       []App      `yaml:"apps"`
	Places     []Place    `yaml:"places"`
	Network    Network    `yaml:"network"`
	Compute    Compute    `yaml:"compute"`
	Mobility   Mobility   `yaml:"mobility"`
	Simulation Simulation `yaml:"simulation"`
}

// Load reads and validates a scenario spec from a YAML file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the spec tables for internal consistency. It returns a
// *ConfigError describing the first problem found.
func (s *Spec) Validate() error {
	if len(s.Apps) == 0 {
		return configErr("apps", "at least one application profile is required")
	}
	usageTotal := 0.0
	for i, app := range s.Apps {
		field := fmt.Sprintf("apps[%d] (%s)", i, app.Name)
		if app.Name == "" {
			return configErr(field, "name must not be empty")
		}
		if app.UsagePercentage < 0 || app.UsagePercentage > 100 {
			return configErr(field, "usage_percentage %.2f outside [0,100]", app.UsagePercentage)
		}
		if app.CloudSelectProb < 0 || app.CloudSelectProb > 100 {
			return configErr(field, "cloud_select_probability %.2f outside [0,100]", app.CloudSelectProb)
		}
		if app.PoissonMean <= 0 {
			return configErr(field, "poisson_interarrival must be positive, got %.2f", app.PoissonMean)
		}
		if app.ActivePeriod <= 0 || app.IdlePeriod < 0 {
			return configErr(field, "active_period must be positive and idle_period non-negative")
		}
		if app.UploadKB <= 0 || app.DownloadKB <= 0 {
			return configErr(field, "data_upload and data_download must be positive")
		}
		if app.TaskLength <= 0 {
			return configErr(field, "task_length must be positive, got %.2f", app.TaskLength)
		}
		for _, u := range []float64{app.VMUtilizationOn.Edge, app.VMUtilizationOn.Cloud, app.VMUtilizationOn.Local} {
			if u < 0 || u > 100 {
				return configErr(field, "vm_utilization %.2f outside [0,100]", u)
			}
		}
		usageTotal += app.UsagePercentage
	}
	if usageTotal <= 0 {
		return configErr("apps", "usage percentages sum to zero; no application can ever be picked")
	}

	if len(s.Places) == 0 {
		return configErr("places", "at least one place is required")
	}
	seen := make(map[int]bool, len(s.Places))
	for i, p := range s.Places {
		field := fmt.Sprintf("places[%d]", i)
		if p.WlanID < 0 || p.WlanID >= len(s.Places) {
			return configErr(field, "wlan_id %d outside [0,%d)", p.WlanID, len(s.Places))
		}
		if seen[p.WlanID] {
			return configErr(field, "duplicate wlan_id %d", p.WlanID)
		}
		seen[p.WlanID] = true
		if p.Attractiveness < 0 || p.Attractiveness >= len(s.Mobility.DwellMeans) {
			return configErr(field, "attractiveness class %d has no dwell_means entry", p.Attractiveness)
		}
	}

	switch s.Network.Model {
	case "averaged", "census", "contention":
	default:
		return configErr("network.model", "unknown model %q (want averaged, census, or contention)", s.Network.Model)
	}
	switch s.Network.Queue {
	case "mm1", "mm2":
	default:
		return configErr("network.queue", "unknown queue discipline %q (want mm1 or mm2)", s.Network.Queue)
	}
	if s.Network.WlanBandwidth <= 0 {
		return configErr("network.wlan_bandwidth_kbps", "must be positive, got %.2f", s.Network.WlanBandwidth)
	}
	if s.Simulation.Architecture == TwoTier && s.Network.WanBandwidth <= 0 {
		return configErr("network.wan_bandwidth_kbps", "must be positive in a two-tier scenario")
	}
	if s.Network.WanPropagation < 0 {
		return configErr("network.wan_propagation", "must be non-negative, got %.2f", s.Network.WanPropagation)
	}

	if s.Compute.EdgeVMsPerPlace < 1 || s.Compute.EdgeVMMips <= 0 {
		return configErr("compute", "edge pool needs at least one VM per place with positive MIPS")
	}
	if s.Simulation.Architecture == TwoTier && (s.Compute.CloudVMs < 1 || s.Compute.CloudVMMips <= 0) {
		return configErr("compute", "two-tier scenario needs a cloud pool with positive MIPS")
	}
	if s.Simulation.Architecture == Hybrid && s.Compute.LocalVMMips <= 0 {
		return configErr("compute", "hybrid scenario needs local_vm_mips > 0")
	}

	switch s.Mobility.Model {
	case "nomadic":
		if len(s.Mobility.DwellMeans) == 0 {
			return configErr("mobility.dwell_means", "nomadic model needs at least one dwell mean")
		}
		for i, m := range s.Mobility.DwellMeans {
			if m <= 0 {
				return configErr("mobility.dwell_means", "entry %d must be positive, got %.2f", i, m)
			}
		}
	case "waypoint":
		if s.Mobility.AreaWidth <= 0 || s.Mobility.AreaHeight <= 0 {
			return configErr("mobility", "waypoint model needs a positive area_width and area_height")
		}
		if s.Mobility.SpeedMean <= 0 {
			return configErr("mobility.speed_mean", "must be positive, got %.2f", s.Mobility.SpeedMean)
		}
		if s.Mobility.PauseMean < 0 {
			return configErr("mobility.pause_mean", "must be non-negative, got %.2f", s.Mobility.PauseMean)
		}
	default:
		return configErr("mobility.model", "unknown model %q (want nomadic or waypoint)", s.Mobility.Model)
	}

	switch s.Simulation.Architecture {
	case SingleTier, TwoTier, Hybrid:
	default:
		return configErr("simulation.architecture", "unknown architecture %q", s.Simulation.Architecture)
	}
	if s.Simulation.Horizon <= 0 {
		return configErr("simulation.horizon", "must be positive, got %.2f", s.Simulation.Horizon)
	}
	if s.Simulation.WarmUp < 0 || s.Simulation.WarmUp >= s.Simulation.Horizon {
		return configErr("simulation.warmup", "must be in [0, horizon), got %.2f", s.Simulation.WarmUp)
	}
	if s.Simulation.Progress < 0 {
		return configErr("simulation.progress_interval", "must be non-negative, got %.2f", s.Simulation.Progress)
	}
	return nil
}

// PlaceByWlan returns the place serving the given access point id, or nil.
func (s *Spec) PlaceByWlan(wlanID int) *Place {
	for i := range s.Places {
		if s.Places[i].WlanID == wlanID {
			return &s.Places[i]
		}
	}
	return nil
}

// WeightedMeans returns the usage-weighted mean inter-arrival time and mean
// upload/download sizes across the application mix, each accumulated as
// value*weight and normalized by the number of contributing profiles. These
// feed the averaged delay models.
func (s *Spec) WeightedMeans() (poissonMean, uploadKB, downloadKB float64) {
	active := 0.0
	for _, app := range s.Apps {
		weight := app.UsagePercentage / 100
		if weight == 0 {
			continue
		}
		poissonMean += app.PoissonMean * weight
		uploadKB += app.UploadKB * weight
		downloadKB += app.DownloadKB * weight
		active++
	}
	if active == 0 {
		return 0, 0, 0
	}
	return poissonMean / active, uploadKB / active, downloadKB / active
}

// CloudPoissonMean returns the usage-weighted mean inter-arrival time of
// cloud-bound traffic: each profile's inter-arrival stretched by the inverse
// of its cloud selection probability. Profiles that never select the cloud
// contribute nothing.
func (s *Spec) CloudPoissonMean() float64 {
	mean, active := 0.0, 0.0
	for _, app := range s.Apps {
		weight := app.UsagePercentage / 100
		if weight == 0 || app.CloudSelectProb == 0 {
			continue
		}
		mean += app.PoissonMean * (100 / app.CloudSelectProb) * weight
		active++
	}
	if active == 0 {
		return 0
	}
	return mean / active
}
