// Package main provides the CLI entry point for gpubench, a benchmark
// driver for the CPU-side overhead of WebGPU implementations.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/gpubench/config"
	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
	"github.com/weiihann/gpubench/report"
	"github.com/weiihann/gpubench/suite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("gpubench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "gpubench",
		Short: "WebGPU CPU-overhead benchmarks",
		Long: `Gpubench measures the CPU-side cost of a WebGPU implementation:
allocation of buffers, textures and bind groups, command encoding, and
queue submission. Each benchmark blocks on the device where needed so that
timings reflect submission cost rather than overlapped GPU execution.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newListCmd())
	root.AddCommand(newInfoCmd(logger))

	return root
}

var formats = []string{"table", "json", "benchfmt"}

type runConfig struct {
	groups          []string
	match           string
	includeDisabled bool
	warmUp          time.Duration
	measurement     time.Duration
	samples         int
	profilePath     string
	powerPreference string
	backend         string
	forceFallback   bool
	format          string
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmarks against the selected adapter",
		Long: `Acquire an adapter and device, then run the selected benchmark groups
sequentially and print a report. Disabled benchmarks only run with
--include-disabled.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			return runBenchmarks(cmd.Context(), logger, cmd.OutOrStdout(), cfg, flagOverrides{
				warmUp:          flags.Changed("warm-up"),
				measurement:     flags.Changed("measurement"),
				samples:         flags.Changed("samples"),
				powerPreference: flags.Changed("power-preference"),
				backend:         flags.Changed("backend"),
				forceFallback:   flags.Changed("force-fallback"),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&cfg.groups, "groups", nil,
		"Groups to run (default: all): "+strings.Join(suite.GroupNames(), ", "))
	flags.StringVar(&cfg.match, "bench", "",
		"Only run benchmarks whose name contains this string")
	flags.BoolVar(&cfg.includeDisabled, "include-disabled", false,
		"Also run benchmarks that are disabled by default")
	flags.DurationVar(&cfg.warmUp, "warm-up", 0,
		"Warm-up time for every group (default: per group)")
	flags.DurationVar(&cfg.measurement, "measurement", 0,
		"Measurement time for every group (default: per group)")
	flags.IntVar(&cfg.samples, "samples", 0,
		"Sample count for every group (default: per group)")
	flags.StringVar(&cfg.profilePath, "config", "",
		"Path to a TOML benchmark profile")
	flags.StringVar(&cfg.powerPreference, "power-preference", "default",
		"Adapter power preference: "+strings.Join(gpu.PowerPreferences(), ", "))
	flags.StringVar(&cfg.backend, "backend", "primary",
		"Adapter backend: "+strings.Join(gpu.Backends(), ", "))
	flags.BoolVar(&cfg.forceFallback, "force-fallback", false,
		"Request the fallback (software) adapter")
	flags.StringVar(&cfg.format, "format", "table",
		"Report format: "+strings.Join(formats, ", "))

	return cmd
}

// flagOverrides records which flags were set explicitly and so take
// precedence over the profile.
type flagOverrides struct {
	warmUp          bool
	measurement     bool
	samples         bool
	powerPreference bool
	backend         bool
	forceFallback   bool
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	cfg runConfig,
	set flagOverrides,
) error {
	if !slices.Contains(formats, cfg.format) {
		return fmt.Errorf("unknown format %q (known: %s)",
			cfg.format, strings.Join(formats, ", "))
	}

	profile, err := config.Load(cfg.profilePath)
	if err != nil {
		return err
	}

	groups, err := suite.Select(suite.Filter{
		Groups:          cfg.groups,
		Match:           cfg.match,
		IncludeDisabled: cfg.includeDisabled,
	})
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("no benchmarks match the selection")
	}

	// Resolve every group config before touching the device.
	configs := make(map[string]harness.Config, len(groups))
	for _, g := range groups {
		gcfg, err := groupConfig(profile, g, cfg, set)
		if err != nil {
			return err
		}
		configs[g.Name] = gcfg
	}

	opts := profile.Options()
	if set.powerPreference || opts.PowerPreference == "" {
		opts.PowerPreference = cfg.powerPreference
	}
	if set.backend || opts.Backend == "" {
		opts.Backend = cfg.backend
	}
	if set.forceFallback {
		opts.ForceFallbackAdapter = cfg.forceFallback
	}

	gc, err := gpu.Open(ctx, logger, opts)
	if err != nil {
		return fmt.Errorf("acquire device: %w", err)
	}
	defer gc.Release()

	runner := harness.NewRunner(logger)
	results := make([]harness.Result, 0)

	for _, g := range groups {
		for _, bm := range g.Benchmarks {
			result, runErr := runner.Run(ctx, g.Name, bm.Name, configs[g.Name], bm.Func(gc))
			if runErr != nil {
				return fmt.Errorf("run %s/%s: %w", g.Name, bm.Name, runErr)
			}

			results = append(results, *result)
		}
	}

	info := gc.Info()

	switch cfg.format {
	case "json":
		err = report.GenerateJSON(out, info, results)
	case "benchfmt":
		err = report.GenerateBenchfmt(out, info, results)
	default:
		err = report.Generate(out, info, results)
	}
	if err != nil {
		return fmt.Errorf("generate %s report: %w", cfg.format, err)
	}

	logger.InfoContext(ctx, "benchmarks complete",
		slog.Int("results", len(results)),
	)

	return nil
}

// groupConfig layers the group default, the profile and the explicit
// flags, in that order.
func groupConfig(
	profile *config.Profile,
	g suite.Group,
	cfg runConfig,
	set flagOverrides,
) (harness.Config, error) {
	gcfg, err := profile.Apply(g.Name, g.Config)
	if err != nil {
		return gcfg, err
	}

	if set.warmUp {
		gcfg.WarmUp = cfg.warmUp
	}
	if set.measurement {
		gcfg.Measurement = cfg.measurement
	}
	if set.samples {
		gcfg.SampleSize = cfg.samples
	}

	if err := gcfg.Validate(); err != nil {
		return gcfg, fmt.Errorf("group %s: %w", g.Name, err)
	}

	return gcfg, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List benchmark groups and benchmarks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listBenchmarks(cmd.OutOrStdout())
		},
	}
}

func listBenchmarks(w io.Writer) error {
	for _, g := range suite.Groups() {
		fmt.Fprintf(w, "%s (warm-up %s, measurement %s, %d samples)\n",
			g.Name, g.Config.WarmUp, g.Config.Measurement, g.Config.SampleSize)

		for _, bm := range g.Benchmarks {
			if bm.Disabled != "" {
				fmt.Fprintf(w, "  %s [disabled: %s]\n", bm.Name, bm.Disabled)
				continue
			}
			fmt.Fprintf(w, "  %s\n", bm.Name)
		}
	}

	return nil
}

func newInfoCmd(logger *slog.Logger) *cobra.Command {
	var opts gpu.Options

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print information about the selected adapter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gc, err := gpu.Open(cmd.Context(), logger, opts)
			if err != nil {
				return fmt.Errorf("acquire device: %w", err)
			}
			defer gc.Release()

			info := gc.Info()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Name:    %s\n", info.Name)
			fmt.Fprintf(w, "Vendor:  %s (0x%04x)\n", info.Vendor, info.VendorID)
			fmt.Fprintf(w, "Device:  0x%04x\n", info.DeviceID)
			fmt.Fprintf(w, "Type:    %s\n", info.AdapterType)
			fmt.Fprintf(w, "Backend: %s\n", info.Backend)
			fmt.Fprintf(w, "Driver:  %s\n", info.Driver)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.PowerPreference, "power-preference", "default",
		"Adapter power preference: "+strings.Join(gpu.PowerPreferences(), ", "))
	flags.StringVar(&opts.Backend, "backend", "primary",
		"Adapter backend: "+strings.Join(gpu.Backends(), ", "))
	flags.BoolVar(&opts.ForceFallbackAdapter, "force-fallback", false,
		"Request the fallback (software) adapter")

	return cmd
}
