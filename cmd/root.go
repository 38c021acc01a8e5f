// cmd/root.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opsim/missionsim/sim"
	"github.com/opsim/missionsim/sim/mc"
)

var (
	logLevel    string
	demo        bool
	seed        int64
	iterations  int
	keepIters   bool
	runConfPath string
)

var rootCmd = &cobra.Command{
	Use:   "missionsim",
	Short: "Discrete-event simulator for aircraft mission operations",
}

var runCmd = &cobra.Command{
	Use:   "run <scenario-path>",
	Short: "Run a single DES simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		scenario, err := loadScenario(args[0])
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}

		opts := sim.Options{State: stateForRun()}
		logrus.Infof("Running DES simulation: %s (horizon=%gh)", args[0], scenario.HorizonHours)

		start := time.Now()
		results, err := sim.RunDES(scenario, opts, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		logrus.Infof("Simulation completed in %s", time.Since(start))

		printJSON(results)
		fmt.Printf("Missions requested: %d\n", results.Missions.Requested)
		fmt.Printf("Missions started:   %d\n", results.Missions.Started)
		fmt.Printf("Missions completed: %d\n", results.Missions.Completed)
		fmt.Printf("Missions rejected:  %d\n", results.Missions.Rejected)
	},
}

var monteCmd = &cobra.Command{
	Use:   "monte <scenario-path>",
	Short: "Run a Monte Carlo simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		n := resolveIterations()

		scenario, err := loadScenario(args[0])
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}

		logrus.Infof("Running Monte Carlo simulation: %s (horizon=%gh, iterations=%d)",
			args[0], scenario.HorizonHours, n)

		driver := mc.NewDriver(seed)
		start := time.Now()
		results, err := driver.Run(scenario, mc.Options{
			Iterations:     &n,
			KeepIterations: keepIters,
			State:          stateForRun(),
		})
		if err != nil {
			logrus.Fatalf("monte carlo simulation failed: %v", err)
		}
		elapsed := time.Since(start)
		logrus.Infof("Monte Carlo simulation completed in %s (%s/iteration)", elapsed, elapsed/time.Duration(n))

		printJSON(results)
		if s, ok := results.Missions["completed"]; ok {
			fmt.Printf("Avg missions completed: %.2f\n", s.Mean)
		}
		if s, ok := results.Missions["started"]; ok {
			fmt.Printf("Avg missions started: %.2f\n", s.Mean)
		}
		if s, ok := results.Missions["rejected"]; ok {
			fmt.Printf("Avg missions rejected: %.2f\n", s.Mean)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	name := logLevel
	if runConfPath != "" && !rootCmd.PersistentFlags().Changed("log") {
		cfg, err := LoadRunConfig(runConfPath)
		if err != nil {
			logrus.Fatalf("loading run config: %v", err)
		}
		if cfg.LogLevel != "" {
			name = cfg.LogLevel
		}
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// resolveIterations applies the run-config file's default (if one was
// given) underneath the --iterations flag, which always wins when set
// explicitly by the caller.
func resolveIterations() int {
	n := iterations
	if runConfPath != "" {
		cfg, err := LoadRunConfig(runConfPath)
		if err != nil {
			logrus.Fatalf("loading run config: %v", err)
		}
		if cfg.Iterations != nil && !monteCmd.Flags().Changed("iterations") {
			n = *cfg.Iterations
		}
	}
	if n <= 0 {
		n = 100
	}
	return n
}

func stateForRun() *sim.StateSnapshot {
	if demo {
		return buildDemoState()
	}
	return nil
}

func loadScenario(path string) (*sim.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %q: %w", path, err)
	}
	var scenario sim.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario JSON: %w", err)
	}
	return &scenario, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalf("encoding results: %v", err)
	}
	fmt.Println(string(out))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", true, "Use the built-in two-unit demo state snapshot (state-snapshot construction is an external input contract; no file loader is provided)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "Master simulation seed")
	rootCmd.PersistentFlags().StringVar(&runConfPath, "config", "", "Optional YAML run-configuration file")

	monteCmd.Flags().IntVar(&iterations, "iterations", 100, "Number of Monte Carlo iterations")
	monteCmd.Flags().BoolVar(&keepIters, "keep-iterations", false, "Preserve every iteration's full Results")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(monteCmd)
}
