package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"energy-forecast/internal/config"
	apperrors "energy-forecast/internal/errors"
	"energy-forecast/internal/export"
	"energy-forecast/internal/models"
	"energy-forecast/internal/observability"
	"energy-forecast/internal/ui/templates"
)

const (
	workbookFile = "prediction_dashboard.xlsx"
	chartsDir    = "charts"
)

// Result is everything the pipeline produced, handed to the server stage.
type Result struct {
	Observations  []models.Observation
	Forecast      *Forecast
	Data          models.DashboardData
	DashboardPath string
	WorkbookPath  string
	ChartPaths    []string
}

type Pipeline struct {
	cfg       *config.Config
	generator *Generator
	analytics *Analytics
	logger    *slog.Logger
}

func NewPipeline(cfg *config.Config, generator *Generator, analytics *Analytics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		generator: generator,
		analytics: analytics,
		logger:    logger,
	}
}

// Run generates the dataset, fits the trends and writes the dashboard plus
// the optional exports. Any failure before the dashboard is written aborts
// the run and leaves no dashboard on disk.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline")
	result, err := p.run(ctx)
	span.End(p.logger, err)
	return result, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	stageCtx, span := observability.StartSpan(ctx, "generate")
	observations, err := p.generator.Generate(stageCtx)
	if err != nil {
		span.End(p.logger, err)
		return nil, apperrors.GenerationWrap(err, "generate synthetic dataset")
	}
	span.SetTag("observations", strconv.Itoa(len(observations)))
	span.End(p.logger, nil)
	result.Observations = observations

	stageCtx, span = observability.StartSpan(ctx, "estimate")
	forecast, err := p.analytics.Forecast(stageCtx, observations, p.cfg.Forecast.Horizon)
	if err != nil {
		span.End(p.logger, err)
		return nil, err
	}
	span.SetTag("regions", strconv.Itoa(len(forecast.Regions)))
	span.SetTag("skipped", strconv.Itoa(len(forecast.Skipped)))
	span.End(p.logger, nil)
	result.Forecast = forecast

	stageCtx, span = observability.StartSpan(ctx, "render")
	result.Data = BuildDashboardData(forecast)
	page := templates.Page{
		ChartLibraryURL: p.cfg.Dashboard.ChartLibraryURL,
		DefaultRegion:   SelectDefaultRegion(result.Data.States, p.cfg.Dashboard.DefaultRegion),
		Data:            result.Data,
	}
	result.DashboardPath = p.cfg.DashboardPath()
	if err := writeDashboard(stageCtx, result.DashboardPath, page); err != nil {
		span.End(p.logger, err)
		return nil, err
	}
	span.SetTag("path", result.DashboardPath)
	span.End(p.logger, nil)

	// Exports are secondary artifacts: a failure is logged, the dashboard stands.
	if p.cfg.Dashboard.ExportWorkbook {
		path := filepath.Join(p.cfg.Dashboard.OutputDir, workbookFile)
		if err := export.WriteWorkbook(path, exportInput(forecast)); err != nil {
			p.logger.Warn("workbook export failed", "error", apperrors.ExportWrap(err, "write workbook"))
		} else {
			result.WorkbookPath = path
			p.logger.Info("workbook exported", "path", path)
		}
	}

	if p.cfg.Dashboard.ExportCharts {
		dir := filepath.Join(p.cfg.Dashboard.OutputDir, chartsDir)
		paths, err := export.WriteCharts(ctx, dir, exportInput(forecast))
		if err != nil {
			p.logger.Warn("chart export failed", "error", apperrors.ExportWrap(err, "write charts"))
		} else {
			result.ChartPaths = paths
			p.logger.Info("charts exported", "dir", dir, "files", len(paths))
		}
	}

	return result, nil
}

func exportInput(f *Forecast) export.Input {
	return export.Input{
		Regions:     f.Regions,
		FutureYears: f.FutureYears,
		History:     f.History,
		Fits:        f.Fits,
		Predictions: f.Predictions,
	}
}

// writeDashboard renders into a temp file beside path and renames it into
// place, so a failed render never leaves a partial document.
func writeDashboard(ctx context.Context, path string, page templates.Page) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.RenderWrap(err, "create output directory")
	}

	tmp, err := os.CreateTemp(dir, ".dashboard-*.html")
	if err != nil {
		return apperrors.RenderWrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := templates.Dashboard(page).Render(ctx, tmp); err != nil {
		return apperrors.RenderWrap(err, "render dashboard")
	}
	if err := tmp.Chmod(0o644); err != nil {
		return apperrors.RenderWrap(err, "chmod dashboard")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.RenderWrap(err, "close dashboard")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.RenderWrap(err, "move dashboard into place")
	}
	return nil
}
