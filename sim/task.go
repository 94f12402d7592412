package sim

import (
	"github.com/offload-sim/offload-sim/sim/compute"
	"github.com/offload-sim/offload-sim/sim/mobility"
	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

// TaskState tracks a task through its lifecycle. States from Completed on
// are terminal; a task reaches exactly one terminal state, at most once.
type TaskState int

const (
	TaskCreated TaskState = iota
	TaskDecided
	TaskUploading
	TaskQueuedRemote
	TaskExecuting
	TaskDownloading
	TaskCompleted
	TaskRejectedCapacity
	TaskRejectedBandwidth
	TaskFailedMobility
	TaskIncomplete
)

var taskStateNames = map[TaskState]string{
	TaskCreated:           "created",
	TaskDecided:           "decided",
	TaskUploading:         "uploading",
	TaskQueuedRemote:      "queued_remote",
	TaskExecuting:         "executing",
	TaskDownloading:       "downloading",
	TaskCompleted:         "completed",
	TaskRejectedCapacity:  "rejected_capacity",
	TaskRejectedBandwidth: "rejected_bandwidth",
	TaskFailedMobility:    "failed_mobility",
	TaskIncomplete:        "incomplete",
}

func (st TaskState) String() string {
	if name, ok := taskStateNames[st]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the state ends the task's lifecycle.
func (st TaskState) Terminal() bool { return st >= TaskCompleted }

// Outcome maps a terminal state to its statistics outcome. Non-terminal
// states map to incomplete, which is what the horizon sweep records for
// tasks still in flight.
func (st TaskState) Outcome() stats.Outcome {
	switch st {
	case TaskCompleted:
		return stats.OutcomeCompleted
	case TaskRejectedCapacity:
		return stats.OutcomeRejectedCapacity
	case TaskRejectedBandwidth:
		return stats.OutcomeRejectedBandwidth
	case TaskFailedMobility:
		return stats.OutcomeFailedMobility
	}
	return stats.OutcomeIncomplete
}

// Task is one offloadable unit of work moving through the pipeline.
type Task struct {
	ID     int
	Device int
	App    int

	CreatedAt  float64
	UploadKB   float64
	DownloadKB float64
	LengthMI   float64

	State     TaskState
	Tier      scenario.Tier
	Resource  compute.ResourceRef
	Submitted mobility.Location

	UploadDelay   float64
	ExecDelay     float64
	DownloadDelay float64
}

// transition moves the task to a new state. Leaving a terminal state is
// an engine bug.
func (t *Task) transition(to TaskState, now float64) error {
	if t.State.Terminal() {
		return invariantf("task.transition", now,
			"task %d already terminal in %s, refused move to %s", t.ID, t.State, to)
	}
	t.State = to
	return nil
}
