package sim

import (
	"container/heap"
	"math"
)

// scheduledEvent pairs an event with its firing time and its scheduling
// sequence number. The sequence breaks timestamp ties so that events
// sharing a timestamp execute in the order they were scheduled.
type scheduledEvent struct {
	time float64
	seq  uint64
	ev   Event
}

// eventQueue implements heap.Interface ordered by (time, seq).
type eventQueue []*scheduledEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*scheduledEvent)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Scheduler owns the virtual clock and the pending event set. Time is in
// seconds and only ever moves forward; a regression is an InvariantError,
// not a panic.
type Scheduler struct {
	clock float64
	seq   uint64
	queue eventQueue
}

func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(eventQueue, 0)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 { return s.clock }

// Len returns the number of pending events.
func (s *Scheduler) Len() int { return len(s.queue) }

// Schedule enqueues ev to fire delay seconds from now. A negative or NaN
// delay is rejected with ErrInvalidDelay; +Inf is rejected too since such
// an event could never fire.
func (s *Scheduler) Schedule(delay float64, ev Event) error {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return ErrInvalidDelay
	}
	s.seq++
	heap.Push(&s.queue, &scheduledEvent{time: s.clock + delay, seq: s.seq, ev: ev})
	return nil
}

// PeekTime returns the timestamp of the earliest pending event. The
// boolean is false when the queue is empty.
func (s *Scheduler) PeekTime() (float64, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].time, true
}

// Pop removes the earliest pending event and advances the clock to its
// timestamp. Returns nil when the queue is empty.
func (s *Scheduler) Pop() (Event, error) {
	if len(s.queue) == 0 {
		return nil, nil
	}
	se := heap.Pop(&s.queue).(*scheduledEvent)
	if se.time < s.clock {
		return nil, invariantf("scheduler.pop", s.clock, "clock regression to t=%.6f", se.time)
	}
	s.clock = se.time
	return se.ev, nil
}
