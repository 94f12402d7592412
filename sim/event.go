package sim

// Event is a scheduled action. Implementations form a closed set: every
// event the engine processes is one of the types below, and each delegates
// to a Simulation handler so all state changes live in one place.
type Event interface {
	Execute(s *Simulation) error
}

// TaskArrivalEvent fires when a device submits a task, at its generated
// arrival time.
type TaskArrivalEvent struct {
	Task *Task
}

func (e *TaskArrivalEvent) Execute(s *Simulation) error {
	return s.handleTaskArrival(e.Task)
}

// UploadArrivalEvent fires when a task's input finishes its network
// transfer and reaches the chosen tier.
type UploadArrivalEvent struct {
	Task *Task
}

func (e *UploadArrivalEvent) Execute(s *Simulation) error {
	return s.handleUploadArrival(e.Task)
}

// ExecutionCompleteEvent fires when a bound task's service time elapses.
type ExecutionCompleteEvent struct {
	Task *Task
}

func (e *ExecutionCompleteEvent) Execute(s *Simulation) error {
	return s.handleExecutionComplete(e.Task)
}

// ResultDeliveryEvent fires when a task's output reaches the device.
type ResultDeliveryEvent struct {
	Task *Task
}

func (e *ResultDeliveryEvent) Execute(s *Simulation) error {
	return s.handleResultDelivery(e.Task)
}

// ProgressEvent fires periodically to report run progress, then
// reschedules itself until the horizon.
type ProgressEvent struct{}

func (e *ProgressEvent) Execute(s *Simulation) error {
	return s.handleProgress(e)
}
