// Package export writes secondary artifacts next to the dashboard: an Excel
// workbook with the aggregated history, predictions and fitted lines, and
// static PNG trend charts per region.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"energy-forecast/internal/models"
)

const (
	SheetHistorical  = "Historical"
	SheetPredictions = "Predictions"
	SheetFits        = "Fits"
)

// Input is the forecast as the exporters see it. Regions fixes row order.
type Input struct {
	Regions     []string
	FutureYears []int
	History     map[string][]models.YearlyAggregate
	Fits        map[string]models.RegionFit
	Predictions map[string][]models.Prediction
}

// WriteWorkbook saves the workbook at path. A partial file is removed on
// failure.
func WriteWorkbook(path string, in Input) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create workbook directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return WriteWorkbookTo(out, in)
}

// WriteWorkbookTo streams the workbook to w.
func WriteWorkbookTo(w io.Writer, in Input) error {
	f, err := buildWorkbook(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(in Input) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F77B4"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sheets := []struct {
		name   string
		header []any
		rows   func() [][]any
	}{
		{SheetHistorical, []any{"State", "Year", "Price (cents/kWh)", "Sales (MWh)"}, in.historicalRows},
		{SheetPredictions, []any{"State", "Year", "Predicted Price (cents/kWh)", "Predicted Sales (MWh)"}, in.predictionRows},
		{SheetFits, []any{"State", "Price Slope", "Price Intercept", "Price R²", "Sales Slope", "Sales Intercept", "Sales R²"}, in.fitRows},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}

		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows(), headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}

	endCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", endCol, 20)
}

func (in Input) historicalRows() [][]any {
	var rows [][]any
	for _, region := range in.Regions {
		for _, h := range in.History[region] {
			rows = append(rows, []any{region, h.Year, h.MeanPrice, h.TotalVolume})
		}
	}
	return rows
}

func (in Input) predictionRows() [][]any {
	var rows [][]any
	for _, region := range in.Regions {
		for _, p := range in.Predictions[region] {
			rows = append(rows, []any{region, p.Year, p.Price, p.Volume})
		}
	}
	return rows
}

func (in Input) fitRows() [][]any {
	rows := make([][]any, 0, len(in.Regions))
	for _, region := range in.Regions {
		fit := in.Fits[region]
		rows = append(rows, []any{
			region,
			fit.Price.Slope, fit.Price.Intercept, fit.Price.RSquared,
			fit.Volume.Slope, fit.Volume.Intercept, fit.Volume.RSquared,
		})
	}
	return rows
}
