package models

type Category string

const (
	Residential Category = "Residential"
	Commercial  Category = "Commercial"
	Industrial  Category = "Industrial"
)

// Categories returns the fixed consumption classes in generation order.
func Categories() []Category {
	return []Category{Residential, Commercial, Industrial}
}

func (c Category) Valid() bool {
	switch c {
	case Residential, Commercial, Industrial:
		return true
	}
	return false
}

// VolumeMultiplier scales the base sales volume for the category.
func (c Category) VolumeMultiplier() float64 {
	switch c {
	case Commercial:
		return 1.2
	case Industrial:
		return 1.5
	default:
		return 1.0
	}
}

// Observation is one generated row for a (year, region, category) triple.
type Observation struct {
	Year     int
	Region   string
	Category Category
	Price    float64
	Volume   int
}

type YearlyAggregate struct {
	Year        int     `json:"year"`
	MeanPrice   float64 `json:"mean_price"`
	TotalVolume int64   `json:"total_volume"`
}

type Prediction struct {
	Year   int     `json:"year"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// Fit is a fitted line y = Intercept + Slope*year.
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
}

func (f Fit) At(year int) float64 {
	return f.Intercept + f.Slope*float64(year)
}

type RegionFit struct {
	Price  Fit `json:"price"`
	Volume Fit `json:"volume"`
}
