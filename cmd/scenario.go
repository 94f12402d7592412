package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/offload-sim/offload-sim/sim/scenario"
)

var scenarioOutPath string

// scenarioCmd materializes the built-in default scenario so users can copy
// and edit it instead of writing a scenario file from scratch.
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Print the built-in default scenario as YAML",
	Long:  "Write the built-in default scenario to stdout (or to --out) as a starting point for custom scenario files. The emitted file loads back unchanged.",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := yaml.Marshal(scenario.Default())
		if err != nil {
			logrus.Fatalf("Unable to encode scenario: %v", err)
		}
		if scenarioOutPath == "" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(scenarioOutPath, data, 0o644); err != nil {
			logrus.Fatalf("Unable to write scenario file: %v", err)
		}
		fmt.Printf("wrote %s\n", scenarioOutPath)
	},
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioOutPath, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(scenarioCmd)
}
