// Package loadgen produces the task arrival schedule for a run before the
// clock starts. Each device picks one application by usage weight, then
// alternates active and idle windows, emitting Poisson arrivals only while
// active. The whole schedule is a pure function of scenario and seed.
package loadgen

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

// Task is one generated arrival. Sizes and length are per-task exponential
// draws around the application's configured means.
type Task struct {
	Device     int
	App        int
	Time       float64
	UploadKB   float64
	DownloadKB float64
	LengthMI   float64
}

// Generator holds the inputs of the schedule.
type Generator struct {
	spec *scenario.Spec
	seed uint64
}

func New(spec *scenario.Spec, seed uint64) *Generator {
	return &Generator{spec: spec, seed: seed}
}

// Tasks generates the full schedule for the device population, sorted by
// arrival time. Each device draws from its own stream seeded from the
// generator seed and the device id, so the population can grow without
// perturbing existing devices.
func (g *Generator) Tasks(devices int, horizon float64) []Task {
	var out []Task
	for d := 0; d < devices; d++ {
		out = append(out, g.deviceTasks(d, horizon)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Device < out[j].Device
	})
	return out
}

func (g *Generator) deviceTasks(device int, horizon float64) []Task {
	src := rand.NewSource(g.seed + uint64(device))

	app := pickApp(g.spec.Apps, distuv.Uniform{Min: 0, Max: 100, Src: src}.Rand())
	cfg := &g.spec.Apps[app]

	warmup := g.spec.Simulation.WarmUp
	start := distuv.Uniform{Min: warmup, Max: 2 * warmup, Src: src}
	inter := distuv.Exponential{Rate: 1 / cfg.PoissonMean, Src: src}
	upload := distuv.Exponential{Rate: 1 / cfg.UploadKB, Src: src}
	download := distuv.Exponential{Rate: 1 / cfg.DownloadKB, Src: src}
	length := distuv.Exponential{Rate: 1 / cfg.TaskLength, Src: src}

	var out []Task
	activeStart := start.Rand()
	t := activeStart
	for t < horizon {
		t += inter.Rand()
		if t > activeStart+cfg.ActivePeriod {
			// Arrival fell in the idle window; resume at the next
			// active window without emitting.
			activeStart += cfg.ActivePeriod + cfg.IdlePeriod
			t = activeStart
			continue
		}
		if t >= horizon {
			break
		}
		out = append(out, Task{
			Device:     device,
			App:        app,
			Time:       t,
			UploadKB:   upload.Rand(),
			DownloadKB: download.Rand(),
			LengthMI:   length.Rand(),
		})
	}
	return out
}

// pickApp walks the cumulative usage percentages and returns the first
// application whose band contains the selector. A selector past the last
// band (weights summing under 100) falls through to the last application.
func pickApp(apps []scenario.App, selector float64) int {
	cum := 0.0
	for i := range apps {
		cum += apps[i].UsagePercentage
		if selector <= cum {
			return i
		}
	}
	return len(apps) - 1
}
