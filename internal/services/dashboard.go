package services

import (
	"slices"

	"energy-forecast/internal/models"
)

// BuildDashboardData flattens a forecast into the document payload. Only
// fitted regions are included, so every state has both series.
func BuildDashboardData(f *Forecast) models.DashboardData {
	states := slices.Clone(f.Regions)
	slices.Sort(states)
	states = slices.Compact(states)

	data := models.DashboardData{
		States:      states,
		FutureYears: slices.Clone(f.FutureYears),
		Historical:  make(map[string]models.HistoricalSeries, len(states)),
		Predictions: make(map[string]models.PredictionSeries, len(states)),
	}

	for _, state := range states {
		history := f.History[state]
		series := models.HistoricalSeries{
			Year:  make([]int, len(history)),
			Price: make([]float64, len(history)),
			Sales: make([]int64, len(history)),
		}
		for i, h := range history {
			series.Year[i] = h.Year
			series.Price[i] = h.MeanPrice
			series.Sales[i] = h.TotalVolume
		}
		data.Historical[state] = series

		predictions := f.Predictions[state]
		pred := models.PredictionSeries{
			Prices: make([]float64, len(predictions)),
			Sales:  make([]float64, len(predictions)),
		}
		for i, p := range predictions {
			pred.Prices[i] = p.Price
			pred.Sales[i] = p.Volume
		}
		data.Predictions[state] = pred
	}

	return data
}

// SelectDefaultRegion returns preferred if it is one of states, else the
// first state, else "".
func SelectDefaultRegion(states []string, preferred string) string {
	if slices.Contains(states, preferred) {
		return preferred
	}
	if len(states) > 0 {
		return states[0]
	}
	return ""
}
