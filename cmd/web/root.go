package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"energy-forecast/internal/browser"
	"energy-forecast/internal/config"
)

type rootOptions struct {
	configPath   string
	seed         uint64
	host         string
	port         int
	outputDir    string
	noBrowser    bool
	exportCharts bool
	logLevel     string
	noColor      bool
}

func newRootCmd(opener browser.Opener) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "energy-forecast",
		Short: "Forecast electricity prices and sales and serve them as a dashboard",
		Long: `energy-forecast synthesizes yearly electricity price and sales figures for
every US state, fits a linear trend per state and extrapolates it five years
ahead. The result is written as a self-contained HTML dashboard and served
on a free local port until you press Enter.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				newConsole(cmd.ErrOrStderr(), opts.noColor).Fail("invalid configuration: %v", err)
				return &exitCodeError{code: ExitInvalidConfig, err: err}
			}

			return run(cmd.Context(), cfg, app{
				opener:  opener,
				stdin:   cmd.InOrStdin(),
				stdout:  cmd.OutOrStdout(),
				stderr:  cmd.ErrOrStderr(),
				noColor: opts.noColor,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file (default $CONFIG_FILE)")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed for the synthetic dataset (0 picks one from the clock)")
	flags.StringVar(&opts.host, "host", "", "address to bind the dashboard server to")
	flags.IntVarP(&opts.port, "port", "p", 0, "first port to try for the dashboard server")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory the dashboard and exports are written to")
	flags.BoolVar(&opts.noBrowser, "no-browser", false, "do not open the dashboard in a browser")
	flags.BoolVar(&opts.exportCharts, "export-charts", false, "also write per-state PNG charts")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

// loadConfig layers flags that were set explicitly over the file and
// environment configuration.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Generator.Seed = o.seed
	}
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.BasePort = o.port
	}
	if flags.Changed("output-dir") {
		cfg.Dashboard.OutputDir = o.outputDir
	}
	if flags.Changed("no-browser") {
		cfg.Dashboard.OpenBrowser = !o.noBrowser
	}
	if flags.Changed("export-charts") {
		cfg.Dashboard.ExportCharts = o.exportCharts
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("after applying flags: %w", err)
	}
	return cfg, nil
}
