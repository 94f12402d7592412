// Package stats collects per-task outcome records and aggregates them into
// run summaries. The record types are pure data with no dependency on the
// engine packages, so sinks and external analysis consume them directly.
package stats

// Outcome is the terminal state a task reached. Every generated task ends
// in exactly one of these.
type Outcome string

const (
	// OutcomeCompleted means the result reached the device.
	OutcomeCompleted Outcome = "completed"
	// OutcomeRejectedCapacity means no VM had room when the task arrived
	// at its tier.
	OutcomeRejectedCapacity Outcome = "rejected_capacity"
	// OutcomeRejectedBandwidth means a network leg was saturated.
	OutcomeRejectedBandwidth Outcome = "rejected_bandwidth"
	// OutcomeFailedMobility means the device left its submission access
	// point before the result came back.
	OutcomeFailedMobility Outcome = "failed_mobility"
	// OutcomeIncomplete means the run horizon ended mid-flight.
	OutcomeIncomplete Outcome = "incomplete"
)

// TaskRecord is one task's full story. Delay fields are zero for phases
// the task never reached.
type TaskRecord struct {
	RunID         string
	TaskID        int
	DeviceID      int
	App           string
	Tier          string
	InputKB       float64
	OutputKB      float64
	LengthMI      float64
	CreatedAt     float64
	UploadDelay   float64
	ExecDelay     float64
	DownloadDelay float64
	Outcome       Outcome
}

// EndToEnd is the task's total latency, the sum of its phase delays.
func (r *TaskRecord) EndToEnd() float64 {
	return r.UploadDelay + r.ExecDelay + r.DownloadDelay
}

// Sink receives records as tasks reach terminal states. Close flushes
// whatever the sink buffers; a sink must tolerate Close without records.
type Sink interface {
	Record(rec *TaskRecord) error
	Close() error
}
