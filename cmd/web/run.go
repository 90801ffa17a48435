package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"energy-forecast/internal/browser"
	"energy-forecast/internal/config"
	"energy-forecast/internal/handlers"
	"energy-forecast/internal/middleware"
	"energy-forecast/internal/observability"
	"energy-forecast/internal/server"
	"energy-forecast/internal/services"
)

var errEnterPressed = errors.New("enter pressed")

type app struct {
	opener  browser.Opener
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	noColor bool
}

// run executes the pipeline, serves the dashboard and blocks until Enter is
// pressed on stdin or ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, a app) error {
	logger := observability.NewLogger(a.stderr, cfg.Logger)
	slog.SetDefault(logger)
	con := newConsole(a.stdout, a.noColor)

	logger.Info("starting application",
		"version", Version,
		"seed", cfg.Generator.Seed,
		"years", []int{cfg.Generator.StartYear, cfg.Generator.EndYear},
		"output_dir", cfg.Dashboard.OutputDir,
	)

	con.Step(1, "Generating and analyzing data")
	analytics := services.NewAnalytics(logger)
	pipeline := services.NewPipeline(cfg, services.NewGenerator(cfg.Generator), analytics, logger)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		con.Fail("%v", err)
		con.Note("The dashboard was not produced because the data analysis failed.")
		return &exitCodeError{code: ExitPipelineFailure, err: err}
	}
	report(con, result)

	con.Step(4, "Starting background web server")
	gs := newDashboardServer(cfg, analytics, logger)
	if err := gs.Start(ctx); err != nil {
		logger.Error("server failed to start", "error", err)
		con.Fail("%v", err)
		con.Note("The dashboard was written to %s but could not be served.", absPath(result.DashboardPath))
		return &exitCodeError{code: ExitServerFailure, err: err}
	}
	con.Success("Serving %s on port %d", absPath(cfg.Dashboard.OutputDir), gs.Port())

	url := gs.URL(cfg.Dashboard.Filename)
	if cfg.Dashboard.OpenBrowser {
		con.Step(5, "Opening the interactive dashboard")
		if !browser.Launch(ctx, a.opener, url, logger) {
			con.Warn("Could not open a browser; open the URL below manually.")
		}
	}

	con.Banner("READY")
	con.Success("The dashboard is available at %s", url)
	con.Note("Press Enter in this terminal to stop the server and exit.")

	waitCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go waitForEnter(a.stdin, cancel, logger)

	if err := gs.Run(waitCtx); err != nil {
		logger.Error("server stopped with error", "error", err)
		con.Fail("%v", err)
		return &exitCodeError{code: ExitServerFailure, err: err}
	}

	con.Banner("Server stopped")
	return nil
}

func newDashboardServer(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) *server.GracefulServer {
	static := handlers.NewStaticHandlers(cfg.Dashboard.OutputDir, logger)
	srv := server.NewServer(static, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Access(logger),
		middleware.SecurityHeaders(cfg.Dashboard.ChartLibraryURL),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Handler:      chain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
	}

	gs := server.NewGracefulServer(httpServer, logger, cfg)
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("analytics summary", "stats", analytics.Stats())
		return nil
	})
	return gs
}

func report(con *console, result *services.Result) {
	f := result.Forecast
	con.Success("Generated %d observations", len(result.Observations))

	con.Step(2, "Predicting future prices and sales")
	con.Success("Trend models fitted for %d regions, forecasting %d-%d",
		len(f.Regions), f.FutureYears[0], f.FutureYears[len(f.FutureYears)-1])
	for _, s := range f.Skipped {
		con.Warn("Skipped %s: %v", s.Region, s.Err)
	}

	con.Step(3, "Generating HTML dashboard")
	con.Success("Dashboard written to %s", absPath(result.DashboardPath))
	if result.WorkbookPath != "" {
		con.Success("Workbook written to %s", absPath(result.WorkbookPath))
	}
	if n := len(result.ChartPaths); n > 0 {
		con.Success("%d charts written to %s", n, absPath(filepath.Dir(result.ChartPaths[0])))
	}
}

// waitForEnter cancels with errEnterPressed once a line is read. A stdin
// that closes without input leaves the server running until a signal.
func waitForEnter(r io.Reader, cancel context.CancelCauseFunc, logger *slog.Logger) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		logger.Debug("stdin closed; waiting for interrupt", "error", err)
		return
	}
	cancel(errEnterPressed)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
