package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{
	"run_id", "task_id", "device_id", "app", "tier",
	"input_kb", "output_kb", "length_mi", "created_at",
	"upload_delay", "exec_delay", "download_delay", "end_to_end", "outcome",
}

// CSVSink streams records to a CSV file, one row per task.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv output: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &CSVSink{f: f, w: w}, nil
}

func (s *CSVSink) Record(rec *TaskRecord) error {
	row := []string{
		rec.RunID,
		strconv.Itoa(rec.TaskID),
		strconv.Itoa(rec.DeviceID),
		rec.App,
		rec.Tier,
		formatFloat(rec.InputKB),
		formatFloat(rec.OutputKB),
		formatFloat(rec.LengthMI),
		formatFloat(rec.CreatedAt),
		formatFloat(rec.UploadDelay),
		formatFloat(rec.ExecDelay),
		formatFloat(rec.DownloadDelay),
		formatFloat(rec.EndToEnd()),
		string(rec.Outcome),
	}
	return s.w.Write(row)
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
