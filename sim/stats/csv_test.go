package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCSVSink_WritesOneRowPerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	if err := sink.Record(record(7, "edge", OutcomeCompleted, 0.25, 0.5, 0.25)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := sink.Record(record(8, "cloud", OutcomeRejectedBandwidth, 0, 0, 0)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("file holds %d rows, want header plus 2 records", len(rows))
	}
	if !reflect.DeepEqual(rows[0], csvHeader) {
		t.Errorf("header = %v, want %v", rows[0], csvHeader)
	}

	first := rows[1]
	if first[0] != "run-1" || first[1] != "7" || first[4] != "edge" {
		t.Errorf("row 1 identity columns = %v", first[:5])
	}
	if first[12] != "1" {
		t.Errorf("end_to_end column = %q, want %q", first[12], "1")
	}
	if first[13] != string(OutcomeCompleted) {
		t.Errorf("outcome column = %q, want %q", first[13], OutcomeCompleted)
	}

	second := rows[2]
	if second[13] != string(OutcomeRejectedBandwidth) {
		t.Errorf("outcome column = %q, want %q", second[13], OutcomeRejectedBandwidth)
	}
}

func TestCSVSink_CloseWithoutRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("file holds %d rows, want the header only", len(rows))
	}
}

func TestCSVSink_UnwritablePath(t *testing.T) {
	if _, err := NewCSVSink(filepath.Join(t.TempDir(), "missing", "tasks.csv")); err == nil {
		t.Error("NewCSVSink created a file under a nonexistent directory")
	}
}
