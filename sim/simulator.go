package sim

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/offload-sim/offload-sim/sim/compute"
	"github.com/offload-sim/offload-sim/sim/loadgen"
	"github.com/offload-sim/offload-sim/sim/mobility"
	"github.com/offload-sim/offload-sim/sim/network"
	"github.com/offload-sim/offload-sim/sim/orchestrator"
	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

// Simulation is one self-contained run: clock, device timelines, network
// and compute models, policies, and collected records. Nothing is shared
// between Simulations, so a sweep can build many in one process.
type Simulation struct {
	spec  *scenario.Spec
	cfg   Config
	runID string

	rng     *PartitionedRNG
	orchRNG *rand.Rand
	sched   *Scheduler

	timelines   []*mobility.Timeline
	net         network.Model
	oracle      compute.Oracle
	edgePolicy  orchestrator.Policy
	cloudPolicy orchestrator.Policy

	tasks     []*Task
	done      int
	collector *stats.Collector
	sinks     []stats.Sink
}

// New validates the configuration and builds a ready-to-run simulation.
func New(cfg Config) (*Simulation, error) {
	if cfg.Scenario == nil {
		return nil, &scenario.ConfigError{Field: "scenario", Reason: "no scenario loaded"}
	}
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, err
	}
	if cfg.Devices <= 0 {
		return nil, &scenario.ConfigError{Field: "devices", Reason: "device count must be positive"}
	}

	s := &Simulation{
		spec:      cfg.Scenario,
		cfg:       cfg,
		runID:     cfg.RunID,
		rng:       NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		sched:     NewScheduler(),
		collector: stats.NewCollector(),
		sinks:     cfg.Sinks,
	}
	if s.runID == "" {
		s.runID = uuid.New().String()
	}
	s.orchRNG = s.rng.ForSubsystem(SubsystemOrchestrator)

	model, err := mobility.New(s.spec, uint64(s.rng.SeedFor(SubsystemMobility)))
	if err != nil {
		return nil, err
	}
	horizon := s.spec.Simulation.Horizon
	s.timelines = make([]*mobility.Timeline, cfg.Devices)
	for d := 0; d < cfg.Devices; d++ {
		tl := model.Timeline(d, horizon)
		if !tl.Covers(horizon) {
			return nil, invariantf("mobility.coverage", 0,
				"device %d timeline stops before the horizon", d)
		}
		s.timelines[d] = tl
	}

	s.oracle = compute.NewPools(s.spec, cfg.Devices)

	s.net, err = network.New(s.spec, cfg.Devices, s.censusCount, s.sched.Now)
	if err != nil {
		return nil, err
	}

	s.edgePolicy, err = orchestrator.New(cfg.Policy, s.orchRNG)
	if err != nil {
		return nil, err
	}
	// The cloud pool is always balanced, whatever the edge policy.
	s.cloudPolicy = &orchestrator.WorstFit{}

	return s, nil
}

// censusCount reports how many devices the access point serves at time at.
func (s *Simulation) censusCount(ap int, at float64) int {
	n := 0
	for _, tl := range s.timelines {
		loc, err := tl.LocationAt(at)
		if err != nil {
			continue
		}
		if loc.WlanID == ap {
			n++
		}
	}
	return n
}

// Now returns the current virtual time.
func (s *Simulation) Now() float64 { return s.sched.Now() }

// RunID returns the identifier stamped on every record of this run.
func (s *Simulation) RunID() string { return s.runID }

// Collector returns the run's in-memory record store.
func (s *Simulation) Collector() *stats.Collector { return s.collector }

// Run generates the task schedule, drains the event queue up to the
// horizon, then sweeps tasks still in flight as incomplete. It returns
// the run summary; an InvariantError aborts the run.
func (s *Simulation) Run() (*stats.Summary, error) {
	if err := s.buildSchedule(); err != nil {
		return nil, err
	}
	logrus.Infof("run %s: %d devices, %d tasks, horizon %.0fs",
		s.runID, s.cfg.Devices, len(s.tasks), s.spec.Simulation.Horizon)

	if err := s.drain(s.spec.Simulation.Horizon); err != nil {
		return nil, err
	}
	if err := s.sweep(); err != nil {
		return nil, err
	}
	return s.collector.Summarize(), nil
}

// buildSchedule pre-generates the run's arrivals and enqueues them, plus
// the first progress tick when the scenario asks for one.
func (s *Simulation) buildSchedule() error {
	gen := loadgen.New(s.spec, uint64(s.rng.SeedFor(SubsystemLoadgen)))
	schedule := gen.Tasks(s.cfg.Devices, s.spec.Simulation.Horizon)
	s.tasks = make([]*Task, len(schedule))
	for i, lt := range schedule {
		t := &Task{
			ID:         i,
			Device:     lt.Device,
			App:        lt.App,
			CreatedAt:  lt.Time,
			UploadKB:   lt.UploadKB,
			DownloadKB: lt.DownloadKB,
			LengthMI:   lt.LengthMI,
		}
		s.tasks[i] = t
		if err := s.sched.Schedule(lt.Time, &TaskArrivalEvent{Task: t}); err != nil {
			return err
		}
	}
	if step := s.spec.Simulation.Progress; step > 0 {
		return s.sched.Schedule(step, &ProgressEvent{})
	}
	return nil
}

// drain executes pending events up to and including the horizon. Events
// scheduled past it stay in the queue, abandoned.
func (s *Simulation) drain(horizon float64) error {
	for {
		next, ok := s.sched.PeekTime()
		if !ok || next > horizon {
			return nil
		}
		ev, err := s.sched.Pop()
		if err != nil {
			return err
		}
		if err := ev.Execute(s); err != nil {
			return err
		}
	}
}

// sweep records every task still in flight as incomplete. Abandonment at
// the horizon is not a failure.
func (s *Simulation) sweep() error {
	for _, t := range s.tasks {
		if t.State.Terminal() {
			continue
		}
		if err := t.transition(TaskIncomplete, s.sched.Now()); err != nil {
			return err
		}
		s.done++
		if err := s.emit(t); err != nil {
			return err
		}
	}
	return nil
}
