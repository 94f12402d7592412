package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/offload-sim/offload-sim/sim/compute"
	"github.com/offload-sim/offload-sim/sim/orchestrator"
	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

// handleTaskArrival runs the submission step: stamp the submission
// location, decide tier and resource, then start the upload. The local
// tier has no network leg and binds immediately.
func (s *Simulation) handleTaskArrival(t *Task) error {
	now := s.sched.Now()
	loc, err := s.timelines[t.Device].LocationAt(now)
	if err != nil {
		return invariantWrap("device.submit", now, "submission location", err)
	}
	t.Submitted = loc

	arch := s.spec.Simulation.Architecture
	app := &s.spec.Apps[t.App]
	var localResidual, localDemand float64
	if arch == scenario.Hybrid {
		localDemand = s.oracle.PredictUtilization(scenario.TierLocal, t.App)
		if cands := s.oracle.Candidates(scenario.TierLocal, t.Device); len(cands) > 0 {
			localResidual = cands[0].Residual
		}
	}
	t.Tier = orchestrator.SelectTier(arch, app, localResidual, localDemand, s.orchRNG)

	if t.Tier == scenario.TierLocal {
		return s.bindLocal(t, now)
	}

	place := -1
	if t.Tier == scenario.TierEdge {
		place = loc.WlanID
	}
	snap := &orchestrator.Snapshot{
		Now:        now,
		Tier:       t.Tier,
		Demand:     s.oracle.PredictUtilization(t.Tier, t.App),
		Candidates: s.oracle.Candidates(t.Tier, place),
	}
	pol := s.edgePolicy
	if t.Tier == scenario.TierCloud {
		pol = s.cloudPolicy
	}
	ref, ok := pol.Select(snap)
	if !ok {
		logrus.Debugf("task %d: no %s capacity at t=%.3f", t.ID, t.Tier, now)
		return s.finish(t, TaskRejectedCapacity)
	}
	t.Resource = ref
	if err := t.transition(TaskDecided, now); err != nil {
		return err
	}

	delay := s.net.UploadDelay(loc.WlanID, t.Tier)
	if delay <= 0 {
		return s.finish(t, TaskRejectedBandwidth)
	}
	t.UploadDelay = delay
	if err := t.transition(TaskUploading, now); err != nil {
		return err
	}
	s.net.UploadStarted(loc.WlanID, t.Tier)
	return s.sched.Schedule(delay, &UploadArrivalEvent{Task: t})
}

// bindLocal executes a task on the device's own VM without touching the
// network. The only failure mode is a full VM.
func (s *Simulation) bindLocal(t *Task, now float64) error {
	t.Resource = compute.ResourceRef{Tier: scenario.TierLocal, Place: t.Device}
	if err := t.transition(TaskDecided, now); err != nil {
		return err
	}
	serviceTime, ok := s.oracle.Bind(t.Resource, t.App, t.LengthMI)
	if !ok {
		return s.finish(t, TaskRejectedCapacity)
	}
	t.ExecDelay = serviceTime
	if err := t.transition(TaskExecuting, now); err != nil {
		return err
	}
	return s.sched.Schedule(serviceTime, &ExecutionCompleteEvent{Task: t})
}

// handleUploadArrival binds the task at its tier once the input lands.
// The bind re-checks capacity: the pool may have filled while the upload
// was in flight, in which case the task is rejected here.
func (s *Simulation) handleUploadArrival(t *Task) error {
	now := s.sched.Now()
	s.net.UploadFinished(t.Submitted.WlanID, t.Tier)
	if err := t.transition(TaskQueuedRemote, now); err != nil {
		return err
	}
	serviceTime, ok := s.oracle.Bind(t.Resource, t.App, t.LengthMI)
	if !ok {
		logrus.Debugf("task %d: %s filled during upload at t=%.3f", t.ID, t.Resource, now)
		return s.finish(t, TaskRejectedCapacity)
	}
	t.ExecDelay = serviceTime
	if err := t.transition(TaskExecuting, now); err != nil {
		return err
	}
	return s.sched.Schedule(serviceTime, &ExecutionCompleteEvent{Task: t})
}

// handleExecutionComplete releases the resource and starts the result
// download. The result is addressed to the submission access point, so a
// device predicted to be elsewhere at delivery time loses the task.
func (s *Simulation) handleExecutionComplete(t *Task) error {
	now := s.sched.Now()
	s.oracle.Release(t.Resource, t.App)

	if t.Tier == scenario.TierLocal {
		return s.finish(t, TaskCompleted)
	}

	delay := s.net.DownloadDelay(t.Tier, t.Submitted.WlanID)
	if delay <= 0 {
		return s.finish(t, TaskRejectedBandwidth)
	}
	future, err := s.timelines[t.Device].LocationAt(now + delay)
	if err != nil {
		return invariantWrap("device.download", now, "delivery location", err)
	}
	if !future.SameAP(t.Submitted) {
		logrus.Debugf("task %d: device %d moved ap %d -> %d before delivery",
			t.ID, t.Device, t.Submitted.WlanID, future.WlanID)
		return s.finish(t, TaskFailedMobility)
	}
	t.DownloadDelay = delay
	if err := t.transition(TaskDownloading, now); err != nil {
		return err
	}
	s.net.DownloadStarted(t.Submitted.WlanID, t.Tier)
	return s.sched.Schedule(delay, &ResultDeliveryEvent{Task: t})
}

// handleResultDelivery completes the task once the output reaches the
// device.
func (s *Simulation) handleResultDelivery(t *Task) error {
	s.net.DownloadFinished(t.Submitted.WlanID, t.Tier)
	return s.finish(t, TaskCompleted)
}

func (s *Simulation) handleProgress(e *ProgressEvent) error {
	now := s.sched.Now()
	logrus.Infof("t=%.0fs: %d/%d tasks terminal", now, s.done, len(s.tasks))
	step := s.spec.Simulation.Progress
	if now+step <= s.spec.Simulation.Horizon {
		return s.sched.Schedule(step, e)
	}
	return nil
}

// finish moves the task to a terminal state and emits its record.
func (s *Simulation) finish(t *Task, st TaskState) error {
	if err := t.transition(st, s.sched.Now()); err != nil {
		return err
	}
	s.done++
	return s.emit(t)
}

func (s *Simulation) emit(t *Task) error {
	rec := &stats.TaskRecord{
		RunID:         s.runID,
		TaskID:        t.ID,
		DeviceID:      t.Device,
		App:           s.spec.Apps[t.App].Name,
		Tier:          string(t.Tier),
		InputKB:       t.UploadKB,
		OutputKB:      t.DownloadKB,
		LengthMI:      t.LengthMI,
		CreatedAt:     t.CreatedAt,
		UploadDelay:   t.UploadDelay,
		ExecDelay:     t.ExecDelay,
		DownloadDelay: t.DownloadDelay,
		Outcome:       t.State.Outcome(),
	}
	if err := s.collector.Record(rec); err != nil {
		return err
	}
	for _, sink := range s.sinks {
		if err := sink.Record(rec); err != nil {
			return fmt.Errorf("record task %d: %w", t.ID, err)
		}
	}
	return nil
}
