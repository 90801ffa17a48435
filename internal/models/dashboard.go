package models

// DashboardData is the payload embedded in the dashboard document and read
// by its client script. Field names are part of the document contract.
type DashboardData struct {
	States      []string                    `json:"states"`
	FutureYears []int                       `json:"future_years"`
	Historical  map[string]HistoricalSeries `json:"historical"`
	Predictions map[string]PredictionSeries `json:"predictions"`
}

// HistoricalSeries holds one region's yearly aggregates as parallel columns.
type HistoricalSeries struct {
	Year  []int     `json:"Year"`
	Price []float64 `json:"Price (cents/kWh)"`
	Sales []int64   `json:"Sales (MWh)"`
}

// PredictionSeries is aligned index-for-index with DashboardData.FutureYears.
type PredictionSeries struct {
	Prices []float64 `json:"prices"`
	Sales  []float64 `json:"sales"`
}
