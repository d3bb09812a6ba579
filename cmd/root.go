package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sched-sim/sched-sim/api"
	sim "github.com/sched-sim/sched-sim/sim"
	"github.com/sched-sim/sched-sim/sim/trace"
	"github.com/sched-sim/sched-sim/sim/workload"
)

var (
	// CLI flags shared by run and compare
	logLevel          string  // Log verbosity level
	scenarioPath      string  // YAML scenario describing workload and config
	algorithm         string  // Scheduling policy for the run subcommand
	timeQuantum       int64   // Round robin / feedback base quantum (in ticks)
	contextSwitchTime int64   // Cost charged to each context switch (in ticks)
	numQueues         int     // Number of feedback queue levels
	quantums          []int64 // Per-level quantum overrides for the feedback queue
	agingEnabled      bool    // Whether priority aging is applied
	agingThreshold    int64   // Ticks of waiting before a priority boost
	preemptionSlice   int64   // Dispatch granularity for the preemptive priority policy
	seed              int64   // Seed for random process generation
	randomCount       int     // Number of random processes when no scenario is given
	dynamicHorizon    int64   // Ticks of probabilistic extra arrivals (0 disables)
	outputDir         string  // Directory for CSV trace output (empty disables)
	showGantt         bool    // Whether to render the timeline as a Gantt chart

	// serve flags
	listenAddr string // Address for the HTTP API
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sched-sim",
	Short: "Discrete-event simulator for CPU scheduling policies",
}

// setupLogging applies the --log flag before any subcommand work
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadWorkload resolves the scenario file or falls back to a random workload
func loadWorkload() (sim.SchedulerConfig, []*sim.Process) {
	if scenarioPath != "" {
		scenario, err := workload.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to load scenario: %v", err)
		}
		logrus.Infof("loaded scenario %q with %d explicit processes", scenario.Name, len(scenario.Processes))
		return scenario.Config(), scenario.BuildProcesses()
	}

	cfg := sim.SchedulerConfig{
		TimeQuantum:       timeQuantum,
		ContextSwitchTime: contextSwitchTime,
		NumQueues:         numQueues,
		Quantums:          quantums,
		AgingEnabled:      agingEnabled,
		AgingThreshold:    agingThreshold,
		PreemptionSlice:   preemptionSlice,
	}
	gen := workload.NewGenerator(seed)
	procs := gen.Generate(randomCount)
	for tick := int64(0); tick < dynamicHorizon; tick++ {
		if p := gen.MaybeArrival(tick); p != nil {
			procs = append(procs, p)
		}
	}
	logrus.Infof("generated %d random processes (seed=%d)", len(procs), seed)
	return cfg, procs
}

// writeTraces emits per-run and summary CSVs into the output directory
func writeTraces(st *trace.SimulationTrace) {
	if outputDir == "" {
		return
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logrus.Fatalf("unable to create output directory: %v", err)
	}
	for _, record := range st.Runs {
		base := filepath.Join(outputDir, record.Algorithm)
		tf, err := os.Create(base + "_timeline.csv")
		if err != nil {
			logrus.Fatalf("unable to create timeline trace: %v", err)
		}
		if err := trace.WriteTimelineCSV(tf, record); err != nil {
			logrus.Fatalf("unable to write timeline trace: %v", err)
		}
		tf.Close()

		pf, err := os.Create(base + "_processes.csv")
		if err != nil {
			logrus.Fatalf("unable to create process trace: %v", err)
		}
		if err := trace.WriteProcessCSV(pf, record); err != nil {
			logrus.Fatalf("unable to write process trace: %v", err)
		}
		pf.Close()
	}

	sf, err := os.Create(filepath.Join(outputDir, "summary.csv"))
	if err != nil {
		logrus.Fatalf("unable to create summary trace: %v", err)
	}
	defer sf.Close()
	if err := st.WriteSummaryCSV(sf); err != nil {
		logrus.Fatalf("unable to write summary trace: %v", err)
	}
	logrus.Infof("wrote traces to %s", outputDir)
}

// runCmd executes a single policy over the workload
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling policy over a workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, procs := loadWorkload()
		driver := sim.NewSimulator(cfg)
		driver.SetProcesses(procs)

		res, err := driver.Run(sim.SchedulerType(algorithm))
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		res.Metrics.Print(res.Name)
		if showGantt {
			RenderGantt(os.Stdout, res.Name, res.Timeline)
			RenderProcessTable(os.Stdout, res.Processes)
		}

		st := trace.NewSimulationTrace()
		st.RecordResult(*res)
		writeTraces(st)
	},
}

// compareCmd executes every policy over the same workload
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every scheduling policy over the same workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, procs := loadWorkload()
		driver := sim.NewSimulator(cfg)
		driver.AddAllPolicies()
		driver.SetProcesses(procs)

		results := driver.RunAll()
		st := trace.NewSimulationTrace()
		for _, res := range results {
			res.Metrics.Print(res.Name)
			if showGantt {
				RenderGantt(os.Stdout, res.Name, res.Timeline)
			}
			st.RecordResult(res)
		}
		RenderComparisonTable(os.Stdout, results)
		writeTraces(st)
	},
}

// serveCmd exposes the engine over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scheduling engine as an HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := api.Serve(listenAddr); err != nil {
			logrus.Fatalf("server failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, cmd := range []*cobra.Command{runCmd, compareCmd} {
		cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (overrides workload flags)")
		cmd.Flags().Int64Var(&timeQuantum, "quantum", 4, "Time quantum for round robin and feedback queues (in ticks)")
		cmd.Flags().Int64Var(&contextSwitchTime, "context-switch-time", 1, "Cost charged per context switch (in ticks)")
		cmd.Flags().IntVar(&numQueues, "num-queues", 3, "Number of feedback queue levels")
		cmd.Flags().Int64SliceVar(&quantums, "quantums", nil, "Comma-separated per-level quantum overrides")
		cmd.Flags().BoolVar(&agingEnabled, "aging", false, "Enable priority aging")
		cmd.Flags().Int64Var(&agingThreshold, "aging-threshold", 10, "Ticks of waiting before a priority boost")
		cmd.Flags().Int64Var(&preemptionSlice, "preemption-slice", 1, "Dispatch granularity for preemptive priority (in ticks)")
		cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random process generation")
		cmd.Flags().IntVar(&randomCount, "random-count", 5, "Number of random processes when no scenario is given")
		cmd.Flags().Int64Var(&dynamicHorizon, "dynamic-horizon", 0, "Ticks of probabilistic extra arrivals on top of the batch (0 disables)")
		cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for CSV trace output")
		cmd.Flags().BoolVar(&showGantt, "gantt", false, "Render the timeline as a Gantt chart")
	}
	runCmd.Flags().StringVar(&algorithm, "algorithm", string(sim.RoundRobin), "Scheduling policy to run")

	serveCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Address for the HTTP API")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
}
