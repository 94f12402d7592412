package sim

import (
	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

// Config holds the per-run knobs that are not part of the scenario file.
type Config struct {
	// Scenario is the validated scenario to run. Required.
	Scenario *scenario.Spec

	// Devices is the mobile device population. Required, positive.
	Devices int

	// Seed is the master seed every RNG subsystem derives from.
	Seed int64

	// Policy names the edge fit policy; see orchestrator.New for the set.
	Policy string

	// RunID tags every emitted record. Generated when empty; set it to
	// tie records to an externally registered run.
	RunID string

	// Sinks receive records in addition to the in-memory collector. The
	// caller owns their lifecycle and closes them after Run.
	Sinks []stats.Sink
}
