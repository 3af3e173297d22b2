package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/babyvec/internal/config"
	"github.com/san-kum/babyvec/internal/export"
	"github.com/san-kum/babyvec/internal/scenario"
	"github.com/san-kum/babyvec/internal/store"
	"github.com/san-kum/babyvec/internal/trace"
	"github.com/san-kum/babyvec/internal/vector"
	"github.com/san-kum/babyvec/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	growthName string
	factor     float64
	seed       int64
	runs       int
	maxOps     int
	pushes     int
	policies   []string
	save       bool
	usePool    bool

	cfg    *config.Config
	pool   *vector.BlockPool
	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "babyvec",
		Short:             "growable integer vector lab",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		RunE:              runPlayground,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&dataDir, "data", "", "data directory (default from config)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&growthName, "growth", "", "growth policy: exact, double, golden, geometric")
	pf.Float64Var(&factor, "factor", 0, "growth factor for --growth geometric")
	pf.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	pf.BoolVar(&usePool, "pool", false, "recycle storage blocks through a shared pool")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a builtin scenario or a scenario yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&save, "save", false, "store the run")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list builtin scenarios",
		RunE:  listScenarios,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "compare random operation sequences against a reference slice",
		RunE:  runCheck,
	}
	checkCmd.Flags().IntVar(&runs, "runs", 0, "number of random sequences (default from config)")
	checkCmd.Flags().IntVar(&maxOps, "max-ops", 0, "maximum operations per sequence (default from config)")
	checkCmd.Flags().BoolVar(&save, "save", false, "store the run")

	growthCmd := &cobra.Command{
		Use:   "growth",
		Short: "plot capacity growth and copy cost per policy",
		RunE:  plotGrowth,
	}
	growthCmd.Flags().IntVar(&pushes, "pushes", 0, "number of push_back calls (default from config)")
	growthCmd.Flags().StringSliceVar(&policies, "policy", nil, "policies to compare (default: all registered)")
	growthCmd.Flags().BoolVar(&save, "save", false, "store each policy's trace")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [file]",
		Short: "export a run's trace to CSV (stdout if no file)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "chart a run's trace as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tGROWTH\tFACTOR\tRUNS\tMAX OPS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\n", name, p.Growth, p.Factor, p.Check.Runs, p.Check.MaxOps)
			}
			return w.Flush()
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive vector playground",
		RunE:  runPlayground,
	}

	rootCmd.AddCommand(runCmd, scenariosCmd, checkCmd, growthCmd, listCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, tuiCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// resolveConfig starts from the defaults or the named preset and overlays
// the config file, if any, on top.
func resolveConfig(preset, configFile string) (*config.Config, error) {
	base := config.DefaultConfig()
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile == "" {
		return base, nil
	}
	loaded, err := config.LoadOver(configFile, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return loaded, nil
}

// setup resolves configuration (defaults, preset, file, flags in that order)
// and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = resolveConfig(preset, configFile)
	if err != nil {
		return err
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if growthName != "" {
		cfg.Growth = growthName
	}
	if factor != 0 {
		cfg.Factor = factor
	}
	if runs != 0 {
		cfg.Check.Runs = runs
	}
	if maxOps != 0 {
		cfg.Check.MaxOps = maxOps
	}
	if pushes != 0 {
		cfg.Plot.Pushes = pushes
	}
	if cmd.Flags().Changed("pool") {
		cfg.Pool = usePool
	}
	if cmd.Flags().Changed("seed") || cfg.Check.Seed == 0 {
		cfg.Check.Seed = seed
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "babyvec",
		Level:  level,
	})

	if err := cfg.Validate(); err != nil {
		return err
	}
	pool = nil
	if cfg.Pool {
		pool = vector.NewBlockPool()
	}
	logger.Debug("configuration resolved", "growth", cfg.Growth, "factor", cfg.Factor, "pool", cfg.Pool, "data", cfg.DataDir)
	return nil
}

// vectorOptions are the options shared by every vector a command builds.
func vectorOptions() []vector.Option {
	if pool == nil {
		return nil
	}
	return []vector.Option{vector.WithPool(pool)}
}

func openStore() (*store.Store, error) {
	st := store.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("failed to init data dir: %w", err)
	}
	return st, nil
}

func runPlayground(cmd *cobra.Command, args []string) error {
	g, err := cfg.GrowthPolicy()
	if err != nil {
		return err
	}
	return viz.RunPlayground(g, cfg.Check.Seed, vectorOptions()...)
}

func loadScenario(arg string) (*scenario.Scenario, error) {
	if _, err := os.Stat(arg); err == nil {
		return scenario.Load(arg)
	}
	return scenario.Builtin(arg)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	g, err := cfg.GrowthPolicy()
	if err != nil {
		return err
	}

	logger.Debug("running scenario", "name", sc.Name, "steps", len(sc.Steps), "growth", g.Name())
	res, runErr := scenario.Run(cmd.Context(), sc, append(vectorOptions(), vector.WithGrowth(g))...)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", viz.Status(res.Passed), viz.Title.Render(sc.Name))
	if sc.Description != "" {
		fmt.Fprintln(out, viz.Subtle.Render(sc.Description))
	}
	fmt.Fprintln(out, viz.RenderSlots(res.Final, int(res.Metrics["capacity"]), -1))
	fmt.Fprintln(out, viz.Metric("allocations", fmt.Sprintf("%.0f", res.Metrics["allocations"]))+"  "+
		viz.Metric("copies", fmt.Sprintf("%.0f", res.Metrics["copies"])))

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(store.Run{
			Kind:    "scenario",
			Name:    sc.Name,
			Growth:  g.Name(),
			Passed:  res.Passed,
			Metrics: res.Metrics,
			Samples: res.Samples,
		})
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", "id", runID)
	}

	return runErr
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, name := range scenario.ListBuiltin() {
		sc, err := scenario.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", name, sc.Description)
	}
	return w.Flush()
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := cfg.GrowthPolicy()
	if err != nil {
		return err
	}

	logger.Info("checking", "growth", g.Name(), "runs", cfg.Check.Runs, "max_ops", cfg.Check.MaxOps, "seed", cfg.Check.Seed)
	start := time.Now()
	report, err := scenario.Check(cmd.Context(), scenario.CheckConfig{
		Seed:   cfg.Check.Seed,
		Runs:   cfg.Check.Runs,
		MaxOps: cfg.Check.MaxOps,
		Growth: g,
		Pool:   pool,
	})
	if err != nil {
		return err
	}

	if pool != nil {
		st := pool.Stats()
		logger.Debug("block pool", "reused", st.Hits, "fresh", st.Misses)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d runs, %d ops in %v (seed %d)\n",
		viz.Status(report.Passed()), report.Runs, report.Ops, time.Since(start).Round(time.Millisecond), report.Seed)
	for _, d := range report.Failures {
		fmt.Fprintln(out, "  "+viz.StatusFail.Render(d.Error()))
	}

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(store.Run{
			Kind:   "check",
			Name:   fmt.Sprintf("seed-%d", report.Seed),
			Growth: g.Name(),
			Passed: report.Passed(),
			Metrics: map[string]float64{
				"runs":     float64(report.Runs),
				"ops":      float64(report.Ops),
				"failures": float64(len(report.Failures)),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", "id", runID)
	}

	if !report.Passed() {
		return fmt.Errorf("%d of %d runs diverged", len(report.Failures), report.Runs)
	}
	return nil
}

func plotGrowth(cmd *cobra.Command, args []string) error {
	names := policies
	if len(names) == 0 {
		names = vector.ListGrowth()
	}

	results := make([]*trace.Result, 0, len(names))
	stats := make([]vector.PoolStats, 0, len(names))
	for _, name := range names {
		g, err := vector.ParseGrowth(name, cfg.Factor)
		if err != nil {
			return err
		}
		if !cfg.Pool {
			results = append(results, trace.Run(g, cfg.Plot.Pushes))
			continue
		}
		// A pool per policy so each row counts only its own blocks.
		p := vector.NewBlockPool()
		results = append(results, trace.Run(g, cfg.Plot.Pushes, vector.WithPool(p)))
		stats = append(stats, p.Stats())
	}

	out := cmd.OutOrStdout()
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red}
	colorNames := []string{"cyan", "magenta", "yellow", "green", "red"}

	for _, column := range []string{"capacity", "copied"} {
		series := make([][]float64, len(results))
		legend := make([]string, len(results))
		for i, res := range results {
			series[i] = res.Series(column)
			legend[i] = fmt.Sprintf("%s=%s", colorNames[i%len(colorNames)], res.Policy)
		}

		graph := asciigraph.PlotMany(series,
			asciigraph.Height(cfg.Plot.Height),
			asciigraph.Width(cfg.Plot.Width),
			asciigraph.SeriesColors(colors[:min(len(results), len(colors))]...),
			asciigraph.Caption(fmt.Sprintf("%s over %d pushes", column, cfg.Plot.Pushes)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out, viz.Subtle.Render("  "+strings.Join(legend, "  ")))
		fmt.Fprintln(out)
	}

	if err := growthTable(out, results, stats); err != nil {
		return err
	}

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		for _, res := range results {
			runID, err := st.Save(store.Run{
				Kind:    "growth",
				Name:    fmt.Sprintf("%d-pushes", cfg.Plot.Pushes),
				Growth:  res.Policy,
				Passed:  true,
				Metrics: res.Metrics,
				Samples: res.Samples,
			})
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			logger.Info("run saved", "id", runID, "policy", res.Policy)
		}
	}
	return nil
}

// growthTable prints one row per policy. With pool stats, ALLOCS is split
// into blocks reused from the pool and blocks freshly allocated.
func growthTable(out io.Writer, results []*trace.Result, stats []vector.PoolStats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "POLICY\tALLOCS\tCOPIES\tCOPIES/PUSH\tCAPACITY\tPEAK SLACK"
	if len(stats) > 0 {
		header += "\tREUSED\tFRESH"
	}
	fmt.Fprintln(w, header)
	for i, res := range results {
		m := res.Metrics
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.2f\t%.0f\t%.0f",
			res.Policy, m["allocations"], m["copies"], m["copies_per_push"], m["capacity"], m["peak_slack"])
		if i < len(stats) {
			fmt.Fprintf(w, "\t%d\t%d", stats[i].Hits, stats[i].Misses)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs stored in", cfg.DataDir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tGROWTH\tRESULT\tTIME\tMETRICS")
	for _, r := range runs {
		result := "pass"
		if !r.Passed {
			result = "fail"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Kind, r.Name, r.Growth, result, r.Timestamp.Format(time.DateTime), formatMetrics(r.Metrics))
	}
	return w.Flush()
}

func formatMetrics(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.DataDir)
	if _, err := st.Load(args[0]); err != nil {
		return fmt.Errorf("unknown run %s: %w", args[0], err)
	}

	in, err := os.Open(st.TracePath(args[0]))
	if err != nil {
		return err
	}
	defer in.Close()

	if len(args) == 1 {
		_, err = io.Copy(cmd.OutOrStdout(), in)
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "file", args[1])
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("unknown run %s: %w", args[0], err)
	}
	samples, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.DataDir, args[0]+".json")
	if err := store.ExportJSON(path, meta, samples); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "file", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.DataDir)
	samples, err := st.LoadTrace(args[0])
	if err != nil {
		return fmt.Errorf("unknown run %s: %w", args[0], err)
	}

	svg := export.TraceToSVG(samples, 800, 400)
	if svg == "" {
		return fmt.Errorf("run %s has fewer than 2 samples", args[0])
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "file", args[1])
	return nil
}
