package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/san-kum/coopsim/internal/config"
	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/experiment"
	"github.com/san-kum/coopsim/internal/figure"
	"github.com/san-kum/coopsim/internal/logger"
	"github.com/san-kum/coopsim/internal/models"
	"github.com/san-kum/coopsim/internal/report"
	"github.com/san-kum/coopsim/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type options struct {
	configFile string
	preset     string
	a, b, c, d float64
	r1, r2     float64
	years      float64
	integrator string
	rtol, atol float64
	noPlot     bool
	figure     string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "coopsim",
		Short: "two-region cooperation growth model",
		Long: "coopsim integrates the two-region cooperation growth model, prints a\n" +
			"summary report and opens a plot of the trajectory.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&opts.preset, "preset", "", "use preset configuration")
	defaults := models.DefaultParams()
	pf.Float64Var(&opts.a, "a", defaults.A, "technology transfer rate")
	pf.Float64Var(&opts.b, "b", defaults.B, "collaboration factor")
	pf.Float64Var(&opts.c, "c", defaults.C, "trade growth rate")
	pf.Float64Var(&opts.d, "d", defaults.D, "resource constraint")
	pf.Float64Var(&opts.r1, "r1", config.DefaultRegion, "initial level of region 1")
	pf.Float64Var(&opts.r2, "r2", config.DefaultRegion, "initial level of region 2")
	pf.Float64Var(&opts.years, "years", config.DefaultYears, "simulation horizon in years")
	pf.StringVar(&opts.integrator, "integrator", config.DefaultIntegrator, "integrator")
	pf.Float64Var(&opts.rtol, "rtol", config.DefaultTolerance, "relative tolerance (rk45)")
	pf.Float64Var(&opts.atol, "atol", config.DefaultTolerance, "absolute tolerance (rk45)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.Flags().BoolVar(&opts.noPlot, "no-plot", false, "skip the plot")
	rootCmd.Flags().StringVar(&opts.figure, "figure", "", "also write the plot to a .png or .svg file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-10s  a=%.2f b=%.2f c=%.2f d=%.2f years=%g\n",
					name, p.Params.A, p.Params.B, p.Params.C, p.Params.D, p.Years)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareIntegrators(cmd, opts, args)
		},
	}

	rootCmd.AddCommand(presetsCmd, compareCmd)
	return rootCmd
}

// buildConfig layers defaults, preset, config file, environment and flags,
// later sources winning.
func buildConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.preset != "" {
		p, err := config.LookupPreset(opts.preset)
		if err != nil {
			return nil, err
		}
		cfg = p
		logger.Debug("preset %s", opts.preset)
	}

	if opts.configFile != "" {
		loaded, err := config.LoadOnto(cfg, opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logger.Debug("config file %s", opts.configFile)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	setFloat := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setFloat("a", &cfg.Params.A, opts.a)
	setFloat("b", &cfg.Params.B, opts.b)
	setFloat("c", &cfg.Params.C, opts.c)
	setFloat("d", &cfg.Params.D, opts.d)
	setFloat("r1", &cfg.InitState.Region1, opts.r1)
	setFloat("r2", &cfg.InitState.Region2, opts.r2)
	setFloat("years", &cfg.Years, opts.years)
	setFloat("rtol", &cfg.Solver.RTol, opts.rtol)
	setFloat("atol", &cfg.Solver.ATol, opts.atol)
	if flags.Changed("integrator") {
		cfg.Integrator = opts.integrator
	}

	return cfg, nil
}

func runPipeline(cmd *cobra.Command, opts *options) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger.Section("Simulation")
	res, err := experiment.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Format(res.Params, res.Summary))

	if opts.figure != "" {
		if err := figure.Write(opts.figure, res.Trajectory); err != nil {
			return err
		}
		logger.Info("figure written to %s", opts.figure)
	}

	if opts.noPlot {
		return nil
	}
	if isTerminal(out) {
		return viz.RunViewer(cmd.Context(), res.Trajectory)
	}
	fmt.Fprintln(out, viz.Render(res.Trajectory, 0))
	return nil
}

func compareIntegrators(cmd *cobra.Command, opts *options, names []string) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (years=%.1f, r1=%.2f, r2=%.2f)\n\n", cfg.Years, cfg.InitState.Region1, cfg.InitState.Region2)
	fmt.Fprintf(out, "%-12s  %-12s  %-12s  %-12s  %-10s  %-10s\n", "integrator", "region1", "region2", "deviation", "steps", "time_ms")
	fmt.Fprintln(out, strings.Repeat("-", 78))

	// deviation is measured against the first integrator that succeeds
	var reference dynamo.State

	for _, name := range names {
		run := cfg.Clone()
		run.Integrator = name

		exp := experiment.New(run)
		if err := exp.Setup(registry); err != nil {
			logger.Warn("%s: %v", name, err)
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			logger.Warn("%s: %v", name, err)
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}

		final := res.Trajectory.Last()
		if reference == nil {
			reference = final.Clone()
		}

		fmt.Fprintf(out, "%-12s  %-12.6f  %-12.6f  %-12.3e  %-10d  %-10.3f\n",
			name, res.Summary.Region1Final, res.Summary.Region2Final,
			final.Sub(reference).Norm(), res.Stats.Accepted, float64(res.Elapsed.Microseconds())/1000)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
