package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

// captureStdout redirects os.Stdout to a pipe while fn runs and returns
// what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestPrintSummary_ReportsOutcomesAndDelays(t *testing.T) {
	// GIVEN a summary with completed and rejected tasks
	s := &stats.Summary{
		Total: 10,
		ByOutcome: map[stats.Outcome]int{
			stats.OutcomeCompleted:        8,
			stats.OutcomeRejectedCapacity: 2,
		},
		CompletedByTier:   map[string]int{"edge": 8},
		MeanUploadDelay:   0.1,
		MeanExecDelay:     0.5,
		MeanDownloadDelay: 0.1,
		MeanEndToEnd:      0.7,
	}

	// WHEN the summary is printed
	output := captureStdout(t, func() { printSummary(s, 250*time.Millisecond) })

	// THEN every outcome and the delay means appear on stdout
	assert.Contains(t, output, "=== Simulation Results ===")
	assert.Contains(t, output, "Tasks generated      : 10")
	assert.Contains(t, output, "Completed            : 8 (80.0%)")
	assert.Contains(t, output, "Rejected (capacity)  : 2")
	assert.Contains(t, output, "Completed on edge    : 8")
	assert.Contains(t, output, "Mean end-to-end      : 0.7000 s")
}

func TestPrintSummary_SkipsDelaysWithoutCompletions(t *testing.T) {
	// GIVEN a summary where every task was rejected
	s := &stats.Summary{
		Total:           4,
		ByOutcome:       map[stats.Outcome]int{stats.OutcomeRejectedBandwidth: 4},
		CompletedByTier: map[string]int{},
	}

	// WHEN the summary is printed
	output := captureStdout(t, func() { printSummary(s, time.Second) })

	// THEN delay means are omitted; they would be meaningless zeros
	assert.Contains(t, output, "Rejected (bandwidth) : 4")
	assert.NotContains(t, output, "Mean end-to-end")
}

func TestLoadSpec_DefaultsAndHorizonOverride(t *testing.T) {
	// GIVEN no scenario path and a horizon override flag
	scenarioPath = ""
	horizonFlag = 900
	defer func() { horizonFlag = 0 }()

	// WHEN the scenario is loaded
	spec := loadSpec()

	// THEN the built-in default is used with the overridden horizon
	require.NoError(t, spec.Validate())
	assert.Equal(t, 900.0, spec.Simulation.Horizon)
	assert.NotEmpty(t, spec.Apps)
}

func TestOpenSinks_NoFlagsMeansNoSinks(t *testing.T) {
	sqlitePath = ""
	csvOut = ""

	sinks, runID := openSinks(scenario.Default(), "next", 100, 1)

	assert.Empty(t, sinks)
	assert.Empty(t, runID)
}

func TestOpenSinks_SQLiteSinkSuppliesRunID(t *testing.T) {
	// GIVEN a --sqlite flag pointing into a temp dir
	sqlitePath = filepath.Join(t.TempDir(), "results.db")
	csvOut = ""
	defer func() { sqlitePath = "" }()

	// WHEN sinks are opened
	sinks, runID := openSinks(scenario.Default(), "next", 100, 7)

	// THEN the database sink is returned along with its run id
	require.Len(t, sinks, 1)
	assert.NotEmpty(t, runID)
	closeSinks(sinks)
}
