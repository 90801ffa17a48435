package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"energy-forecast/internal/models"
)

func testInput() Input {
	return Input{
		Regions:     []string{"New York", "Ohio"},
		FutureYears: []int{2025, 2026},
		History: map[string][]models.YearlyAggregate{
			"New York": {{Year: 2023, MeanPrice: 10.5, TotalVolume: 36000}, {Year: 2024, MeanPrice: 11, TotalVolume: 37500}},
			"Ohio":     {{Year: 2023, MeanPrice: 8, TotalVolume: 30000}, {Year: 2024, MeanPrice: 8.4, TotalVolume: 31000}},
		},
		Fits: map[string]models.RegionFit{
			"New York": {Price: models.Fit{Intercept: -1001, Slope: 0.5, RSquared: 1}, Volume: models.Fit{Slope: 1500, RSquared: 1}},
			"Ohio":     {Price: models.Fit{Intercept: -801.2, Slope: 0.4, RSquared: 1}, Volume: models.Fit{Slope: 1000, RSquared: 1}},
		},
		Predictions: map[string][]models.Prediction{
			"New York": {{Year: 2025, Price: 11.5, Volume: 39000}, {Year: 2026, Price: 12, Volume: 40500}},
			"Ohio":     {{Year: 2025, Price: 8.8, Volume: 32000}, {Year: 2026, Price: 9.2, Volume: 33000}},
		},
	}
}

func TestWriteWorkbookTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbookTo(&buf, testInput()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetHistorical, SheetPredictions, SheetFits}, f.GetSheetList())

	rows, err := f.GetRows(SheetHistorical)
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus two years for two regions")
	assert.Equal(t, []string{"State", "Year", "Price (cents/kWh)", "Sales (MWh)"}, rows[0])
	assert.Equal(t, []string{"New York", "2023", "10.5", "36000"}, rows[1])
	assert.Equal(t, "Ohio", rows[4][0])

	rows, err = f.GetRows(SheetPredictions)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"New York", "2025", "11.5", "39000"}, rows[1])

	rows, err = f.GetRows(SheetFits)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "0.4", rows[2][1])
}

func TestWriteWorkbook_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "forecast.xlsx")
	require.NoError(t, WriteWorkbook(path, testInput()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetHistorical, SheetPredictions, SheetFits}, f.GetSheetList())
	rows, err := f.GetRows(SheetPredictions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ohio", "2026", "9.2", "33000"}, rows[4])
}

func TestWriteWorkbook_Errors(t *testing.T) {
	dir := t.TempDir()

	// Target is an existing directory.
	target := filepath.Join(dir, "forecast.xlsx")
	require.NoError(t, os.Mkdir(target, 0o755))
	assert.Error(t, WriteWorkbook(target, testInput()))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Parent path is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	assert.Error(t, WriteWorkbook(filepath.Join(blocker, "forecast.xlsx"), testInput()))
}

func TestWriteChart(t *testing.T) {
	in := testInput()

	for _, kind := range []ChartKind{ChartPrice, ChartSales} {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteChart(&buf, in, "Ohio", kind))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "output should be a PNG")
		})
	}
}

func TestWriteChart_Errors(t *testing.T) {
	in := testInput()
	var buf bytes.Buffer

	assert.Error(t, WriteChart(&buf, in, "Ohio", ChartKind("pie")))
	assert.Error(t, WriteChart(&buf, in, "Atlantis", ChartPrice))
}

func TestWriteCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := WriteCharts(context.Background(), dir, testInput())
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Equal(t, filepath.Join(dir, "new-york-price.png"), paths[0])

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestWriteCharts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := WriteCharts(ctx, t.TempDir(), testInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestChartFilename(t *testing.T) {
	assert.Equal(t, "new-york-price.png", ChartFilename("New York", ChartPrice))
	assert.Equal(t, "ohio-sales.png", ChartFilename("Ohio", ChartSales))
	assert.Equal(t, "district-of-columbia-sales.png", ChartFilename("District  of Columbia", ChartSales))
}
