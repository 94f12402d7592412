package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/offload-sim/offload-sim/sim"
	"github.com/offload-sim/offload-sim/sim/scenario"
	"github.com/offload-sim/offload-sim/sim/stats"
)

var (
	// CLI flags shared by run and sweep
	scenarioPath string  // Path to scenario YAML; empty uses the built-in default
	devices      int     // Mobile device population
	seed         int64   // Master seed for all RNG subsystems
	policy       string  // Edge fit policy name
	logLevel     string  // Log verbosity level
	horizonFlag  float64 // Horizon override (seconds); 0 keeps the scenario value
	csvOut       string  // CSV output path for task records
	sqlitePath   string  // SQLite results database path

	// CLI flags for sweep
	sweepSeeds    int      // Number of consecutive seeds per combination
	sweepPolicies []string // Policies to sweep over
	sweepDevices  []int    // Device counts to sweep over; empty uses --devices
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "offload-sim",
	Short: "Discrete-event simulator for mobile edge computation offloading",
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one offloading simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		spec := loadSpec()

		sinks, runID := openSinks(spec, policy, devices, seed)
		startTime := time.Now()

		s, err := sim.New(sim.Config{
			Scenario: spec,
			Devices:  devices,
			Seed:     seed,
			Policy:   policy,
			RunID:    runID,
			Sinks:    sinks,
		})
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		summary, err := s.Run()
		if err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}
		closeSinks(sinks)

		printSummary(summary, time.Since(startTime))
	},
}

// sweepCmd executes a batch of simulations across policies, device counts,
// and seeds. A failed iteration is reported and skipped; the sweep keeps
// going.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a batch of simulations across policies, device counts, and seeds",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		spec := loadSpec()

		deviceCounts := sweepDevices
		if len(deviceCounts) == 0 {
			deviceCounts = []int{devices}
		}

		startTime := time.Now()
		total, failed := 0, 0
		for _, pol := range sweepPolicies {
			for _, dc := range deviceCounts {
				for i := 0; i < sweepSeeds; i++ {
					runSeed := seed + int64(i)
					total++
					sinks, runID := openSinks(spec, pol, dc, runSeed)
					s, err := sim.New(sim.Config{
						Scenario: spec,
						Devices:  dc,
						Seed:     runSeed,
						Policy:   pol,
						RunID:    runID,
						Sinks:    sinks,
					})
					if err != nil {
						logrus.Errorf("policy=%s devices=%d seed=%d: invalid configuration: %v", pol, dc, runSeed, err)
						closeSinks(sinks)
						failed++
						continue
					}
					summary, err := s.Run()
					if err != nil {
						logrus.Errorf("policy=%s devices=%d seed=%d: aborted: %v", pol, dc, runSeed, err)
						closeSinks(sinks)
						failed++
						continue
					}
					closeSinks(sinks)
					fmt.Printf("policy=%-6s devices=%-5d seed=%-4d tasks=%-6d completed=%5.1f%% mean_e2e=%.4fs\n",
						pol, dc, runSeed, summary.Total, 100*summary.CompletedRatio(), summary.MeanEndToEnd)
				}
			}
		}
		fmt.Printf("sweep finished in %.1fs (%d runs, %d failed)\n",
			time.Since(startTime).Seconds(), total, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadSpec reads the scenario file, or falls back to the built-in default
// scenario, and applies the horizon override.
func loadSpec() *scenario.Spec {
	var spec *scenario.Spec
	if scenarioPath == "" {
		spec = scenario.Default()
	} else {
		var err error
		spec, err = scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
	}
	if horizonFlag > 0 {
		spec.Simulation.Horizon = horizonFlag
	}
	return spec
}

// openSinks builds the record sinks the flags ask for. When a SQLite sink
// is open its run id is reused for all sinks so rows join across outputs.
func openSinks(spec *scenario.Spec, pol string, deviceCount int, runSeed int64) ([]stats.Sink, string) {
	var sinks []stats.Sink
	runID := ""
	if sqlitePath != "" {
		sink, err := stats.NewSQLiteSink(sqlitePath, stats.RunMeta{
			Scenario:     scenarioPath,
			Architecture: string(spec.Simulation.Architecture),
			Policy:       pol,
			Devices:      deviceCount,
			Seed:         uint64(runSeed),
		})
		if err != nil {
			logrus.Fatalf("Unable to open results database: %v", err)
		}
		sinks = append(sinks, sink)
		runID = sink.RunID()
	}
	if csvOut != "" {
		sink, err := stats.NewCSVSink(csvOut)
		if err != nil {
			logrus.Fatalf("Unable to open CSV output: %v", err)
		}
		sinks = append(sinks, sink)
	}
	return sinks, runID
}

func closeSinks(sinks []stats.Sink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			logrus.Errorf("Closing sink: %v", err)
		}
	}
}

func printSummary(s *stats.Summary, elapsed time.Duration) {
	fmt.Println("=== Simulation Results ===")
	fmt.Printf("Tasks generated      : %d\n", s.Total)
	fmt.Printf("Completed            : %d (%.1f%%)\n", s.ByOutcome[stats.OutcomeCompleted], 100*s.CompletedRatio())
	fmt.Printf("Rejected (capacity)  : %d\n", s.ByOutcome[stats.OutcomeRejectedCapacity])
	fmt.Printf("Rejected (bandwidth) : %d\n", s.ByOutcome[stats.OutcomeRejectedBandwidth])
	fmt.Printf("Failed (mobility)    : %d\n", s.ByOutcome[stats.OutcomeFailedMobility])
	fmt.Printf("Incomplete (horizon) : %d\n", s.ByOutcome[stats.OutcomeIncomplete])
	for _, tier := range []string{"local", "edge", "cloud"} {
		if n := s.CompletedByTier[tier]; n > 0 {
			fmt.Printf("Completed on %-8s: %d\n", tier, n)
		}
	}
	if s.ByOutcome[stats.OutcomeCompleted] > 0 {
		fmt.Printf("Mean upload delay    : %.4f s\n", s.MeanUploadDelay)
		fmt.Printf("Mean execution time  : %.4f s\n", s.MeanExecDelay)
		fmt.Printf("Mean download delay  : %.4f s\n", s.MeanDownloadDelay)
		fmt.Printf("Mean end-to-end      : %.4f s\n", s.MeanEndToEnd)
	}
	fmt.Printf("Wall clock           : %.2f s\n", elapsed.Seconds())
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, sweepCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (empty = built-in default)")
		c.Flags().IntVar(&devices, "devices", 100, "Number of mobile devices")
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed (sweep uses seed, seed+1, ...)")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().Float64Var(&horizonFlag, "horizon", 0, "Horizon override in seconds (0 = scenario value)")
		c.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite results database path")
	}

	runCmd.Flags().StringVar(&policy, "policy", "next", "Edge fit policy (random, first, next, best, worst)")
	runCmd.Flags().StringVar(&csvOut, "out", "", "CSV output path for task records")

	sweepCmd.Flags().IntVar(&sweepSeeds, "seeds", 5, "Number of consecutive seeds per combination")
	sweepCmd.Flags().StringSliceVar(&sweepPolicies, "policies", []string{"next", "worst", "best"}, "Fit policies to sweep")
	sweepCmd.Flags().IntSliceVar(&sweepDevices, "device-counts", nil, "Device counts to sweep (empty = --devices)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
