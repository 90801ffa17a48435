package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type ChartKind string

const (
	ChartPrice ChartKind = "price"
	ChartSales ChartKind = "sales"
)

var (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
	predDashes  = []vg.Length{vg.Points(6), vg.Points(4)}
)

var chartStyles = map[ChartKind]struct {
	title, axis, series  string
	histColor, predColor color.RGBA
}{
	ChartPrice: {"Price Forecast for %s", "Average Price (cents/kWh)", "Price",
		color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}},
	ChartSales: {"Sales Forecast for %s", "Total Sales (MWh)", "Sales",
		color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}},
}

// WriteCharts renders a price and a sales PNG per region into dir and
// returns the written paths.
func WriteCharts(ctx context.Context, dir string, in Input) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	paths := make([]string, 0, 2*len(in.Regions))
	for _, region := range in.Regions {
		for _, kind := range []ChartKind{ChartPrice, ChartSales} {
			if err := ctx.Err(); err != nil {
				return paths, err
			}

			path := filepath.Join(dir, ChartFilename(region, kind))
			if err := writeChartFile(path, in, region, kind); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func writeChartFile(path string, in Input, region string, kind ChartKind) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteChart(f, in, region, kind); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteChart renders one region's chart as PNG to w: history as a solid
// line, predictions as a dashed line.
func WriteChart(w io.Writer, in Input, region string, kind ChartKind) error {
	style, ok := chartStyles[kind]
	if !ok {
		return fmt.Errorf("unknown chart kind %q", kind)
	}

	history, predictions := in.History[region], in.Predictions[region]
	if len(history) == 0 || len(predictions) == 0 {
		return fmt.Errorf("no data for region %q", region)
	}

	histXYs := make(plotter.XYs, len(history))
	for i, h := range history {
		histXYs[i].X = float64(h.Year)
		if kind == ChartPrice {
			histXYs[i].Y = h.MeanPrice
		} else {
			histXYs[i].Y = float64(h.TotalVolume)
		}
	}

	predXYs := make(plotter.XYs, len(predictions))
	for i, p := range predictions {
		predXYs[i].X = float64(p.Year)
		if kind == ChartPrice {
			predXYs[i].Y = p.Price
		} else {
			predXYs[i].Y = p.Volume
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf(style.title, region)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = style.axis
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	hist, err := plotter.NewLine(histXYs)
	if err != nil {
		return fmt.Errorf("historical %s line for %s: %w", kind, region, err)
	}
	hist.LineStyle.Width = vg.Points(1.5)
	hist.LineStyle.Color = style.histColor

	pred, err := plotter.NewLine(predXYs)
	if err != nil {
		return fmt.Errorf("predicted %s line for %s: %w", kind, region, err)
	}
	pred.LineStyle.Width = vg.Points(1.5)
	pred.LineStyle.Color = style.predColor
	pred.LineStyle.Dashes = predDashes

	p.Add(hist, pred)
	p.Legend.Add("Historical "+style.series, hist)
	p.Legend.Add("Predicted "+style.series, pred)

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s chart for %s: %w", kind, region, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart for %s: %w", kind, region, err)
	}
	return nil
}

// ChartFilename is the file name used for a region's chart, e.g.
// "new-york-price.png".
func ChartFilename(region string, kind ChartKind) string {
	slug := strings.ToLower(strings.Join(strings.Fields(region), "-"))
	return fmt.Sprintf("%s-%s.png", slug, kind)
}
