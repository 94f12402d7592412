package stats

// Collector is the in-memory sink every run carries. It keeps all records
// and derives the run summary from them.
type Collector struct {
	records []TaskRecord
}

func NewCollector() *Collector {
	return &Collector{records: make([]TaskRecord, 0)}
}

func (c *Collector) Record(rec *TaskRecord) error {
	c.records = append(c.records, *rec)
	return nil
}

func (c *Collector) Close() error { return nil }

// Records returns the collected records in arrival order of their terminal
// states. Callers must not mutate the returned slice.
func (c *Collector) Records() []TaskRecord { return c.records }

// Summary aggregates one run. Mean delays cover completed tasks only;
// rejected and failed tasks never finished the phases being averaged.
type Summary struct {
	Total             int
	ByOutcome         map[Outcome]int
	CompletedByTier   map[string]int
	MeanUploadDelay   float64
	MeanExecDelay     float64
	MeanDownloadDelay float64
	MeanEndToEnd      float64
}

// CompletedRatio is the fraction of tasks that reached the device, in
// [0,1]. Zero-task runs report 0.
func (s *Summary) CompletedRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByOutcome[OutcomeCompleted]) / float64(s.Total)
}

// Summarize computes the run summary. Safe on an empty collector.
func (c *Collector) Summarize() *Summary {
	s := &Summary{
		ByOutcome:       make(map[Outcome]int),
		CompletedByTier: make(map[string]int),
	}
	s.Total = len(c.records)

	completed := 0
	var upload, exec, download, total float64
	for i := range c.records {
		r := &c.records[i]
		s.ByOutcome[r.Outcome]++
		if r.Outcome != OutcomeCompleted {
			continue
		}
		completed++
		s.CompletedByTier[r.Tier]++
		upload += r.UploadDelay
		exec += r.ExecDelay
		download += r.DownloadDelay
		total += r.EndToEnd()
	}
	if completed > 0 {
		n := float64(completed)
		s.MeanUploadDelay = upload / n
		s.MeanExecDelay = exec / n
		s.MeanDownloadDelay = download / n
		s.MeanEndToEnd = total / n
	}
	return s
}
