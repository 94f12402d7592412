package loadgen

import (
	"reflect"
	"testing"

	"github.com/offload-sim/offload-sim/sim/internal/testutil"
	"github.com/offload-sim/offload-sim/sim/scenario"
)

// === Application Pick Tests ===

func TestPickApp(t *testing.T) {
	apps := []scenario.App{
		{Name: "a", UsagePercentage: 30},
		{Name: "b", UsagePercentage: 20},
		{Name: "c", UsagePercentage: 50},
	}
	tests := []struct {
		selector float64
		want     int
	}{
		{0, 0},
		{15, 0},
		{30, 0}, // band edges are inclusive
		{30.01, 1},
		{50, 1},
		{50.5, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := pickApp(apps, tt.selector); got != tt.want {
			t.Errorf("pickApp(%.2f) = %d, want %d", tt.selector, got, tt.want)
		}
	}
}

func TestPickApp_UnderweightedMixFallsThrough(t *testing.T) {
	apps := []scenario.App{
		{Name: "a", UsagePercentage: 30},
		{Name: "b", UsagePercentage: 20},
	}
	if got := pickApp(apps, 80); got != 1 {
		t.Errorf("pickApp(80) = %d, want the last application", got)
	}
}

// === Schedule Tests ===

func TestGenerator_Deterministic(t *testing.T) {
	spec := testutil.UniformScenario()
	first := New(spec, 42).Tasks(20, spec.Simulation.Horizon)
	second := New(spec, 42).Tasks(20, spec.Simulation.Horizon)
	if len(first) == 0 {
		t.Fatal("generator produced no tasks")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different schedules")
	}
}

func TestGenerator_SeedChangesSchedule(t *testing.T) {
	spec := testutil.UniformScenario()
	a := New(spec, 42).Tasks(20, spec.Simulation.Horizon)
	b := New(spec, 43).Tasks(20, spec.Simulation.Horizon)
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical schedules")
	}
}

// GIVEN a generated schedule
// WHEN walked in order
// THEN arrivals are sorted by time with device id breaking ties, all times
// fall after the warm-up and before the horizon, and every draw is positive
func TestGenerator_ScheduleIsWellFormed(t *testing.T) {
	spec := testutil.UniformScenario()
	horizon := spec.Simulation.Horizon
	tasks := New(spec, 42).Tasks(50, horizon)
	if len(tasks) == 0 {
		t.Fatal("generator produced no tasks")
	}

	for i, task := range tasks {
		if task.Time < spec.Simulation.WarmUp || task.Time >= horizon {
			t.Errorf("task %d at t=%.3f outside [warmup, horizon)", i, task.Time)
		}
		if task.UploadKB <= 0 || task.DownloadKB <= 0 || task.LengthMI <= 0 {
			t.Errorf("task %d has non-positive draws: %+v", i, task)
		}
		if task.App != 0 {
			t.Errorf("task %d picked app %d in a single-app scenario", i, task.App)
		}
		if i == 0 {
			continue
		}
		prev := tasks[i-1]
		if task.Time < prev.Time || (task.Time == prev.Time && task.Device < prev.Device) {
			t.Errorf("task %d at (t=%.6f, device %d) sorts before (t=%.6f, device %d)",
				i, task.Time, task.Device, prev.Time, prev.Device)
		}
	}
}

// GIVEN devices alternating 30 s active and 170 s idle windows
// WHEN their schedules are clustered at gaps wider than any active window
// THEN every cluster spans at most one active window and no arrival falls
// into an idle window
func TestGenerator_IdleWindowsEmitNothing(t *testing.T) {
	spec := testutil.UniformScenario()
	spec.Apps[0].PoissonMean = 2
	spec.Apps[0].ActivePeriod = 30
	spec.Apps[0].IdlePeriod = 170

	tasks := New(spec, 7).Tasks(10, spec.Simulation.Horizon)
	if len(tasks) == 0 {
		t.Fatal("generator produced no tasks")
	}

	byDevice := make(map[int][]float64)
	for _, task := range tasks {
		byDevice[task.Device] = append(byDevice[task.Device], task.Time)
	}
	for device, times := range byDevice {
		clusterStart := times[0]
		for i := 1; i < len(times); i++ {
			if gap := times[i] - times[i-1]; gap > 100 {
				// Crossing an idle window forces a gap above 170 s;
				// in-window gaps stay under the 30 s width.
				clusterStart = times[i]
				continue
			}
			if span := times[i] - clusterStart; span > 30 {
				t.Errorf("device %d: cluster spanning %.3f s exceeds the active window", device, span)
			}
		}
	}
}

// GIVEN a population larger than an earlier run's
// WHEN both schedules are generated with the same seed
// THEN the devices present in both runs emit identical tasks
func TestGenerator_GrowingPopulationKeepsExistingDevices(t *testing.T) {
	spec := testutil.UniformScenario()
	horizon := spec.Simulation.Horizon

	small := New(spec, 42).Tasks(5, horizon)
	large := New(spec, 42).Tasks(15, horizon)

	filter := func(tasks []Task, device int) []Task {
		var out []Task
		for _, task := range tasks {
			if task.Device == device {
				out = append(out, task)
			}
		}
		return out
	}
	for device := 0; device < 5; device++ {
		if !reflect.DeepEqual(filter(small, device), filter(large, device)) {
			t.Errorf("device %d schedule changed when the population grew", device)
		}
	}
}

func TestGenerator_UsageSplitsDevicesAcrossApps(t *testing.T) {
	spec := testutil.UniformScenario()
	spec.Apps = []scenario.App{
		{Name: "a", UsagePercentage: 50, PoissonMean: 5, ActivePeriod: 3600, IdlePeriod: 1,
			UploadKB: 1000, DownloadKB: 1000, TaskLength: 3000},
		{Name: "b", UsagePercentage: 50, PoissonMean: 5, ActivePeriod: 3600, IdlePeriod: 1,
			UploadKB: 1000, DownloadKB: 1000, TaskLength: 3000},
	}

	tasks := New(spec, 42).Tasks(40, spec.Simulation.Horizon)
	seen := map[int]bool{}
	for _, task := range tasks {
		seen[task.App] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("app usage split never picked one side: %v", seen)
	}
}
