package services

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	apperrors "energy-forecast/internal/errors"
	"energy-forecast/internal/models"
)

// minFitYears is the number of distinct years a line needs.
const minFitYears = 2

// Forecast is the estimator output for every region that could be fitted.
type Forecast struct {
	Regions     []string
	History     map[string][]models.YearlyAggregate
	Fits        map[string]models.RegionFit
	Predictions map[string][]models.Prediction
	FutureYears []int
	Skipped     []SkippedRegion
}

// SkippedRegion is a region left out of the forecast, with the reason.
type SkippedRegion struct {
	Region string
	Err    error
}

type Analytics struct {
	mu       sync.RWMutex
	latest   *Forecast
	computed time.Time
	records  int
	logger   *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{logger: logger}
}

type yearBucket struct {
	priceSum float64
	count    int
	volume   int64
}

// Forecast aggregates observations per region and year, fits price and
// volume against year by OLS, and extrapolates horizon years past the last
// observed year. Regions with fewer than two distinct years are skipped;
// if none remain the call fails.
func (a *Analytics) Forecast(ctx context.Context, observations []models.Observation, horizon int) (*Forecast, error) {
	if len(observations) == 0 {
		return nil, apperrors.Validation("no observations to analyse")
	}
	if horizon < 1 {
		return nil, apperrors.Validation("forecast horizon must be at least 1").WithDetails("horizon=%d", horizon)
	}

	groups := make(map[string]map[int]*yearBucket)
	lastYear := math.MinInt

	for _, obs := range observations {
		if math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0) {
			return nil, apperrors.Validation("observation price is not finite").
				WithDetails("region=%s year=%d", obs.Region, obs.Year)
		}
		a.aggregateObservation(obs, groups)
		lastYear = max(lastYear, obs.Year)
	}

	futureYears := make([]int, horizon)
	for i := range futureYears {
		futureYears[i] = lastYear + 1 + i
	}

	forecast := &Forecast{
		History:     make(map[string][]models.YearlyAggregate, len(groups)),
		Fits:        make(map[string]models.RegionFit, len(groups)),
		Predictions: make(map[string][]models.Prediction, len(groups)),
		FutureYears: futureYears,
	}

	for _, region := range sortedKeys(groups) {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.InternalWrap(err, "forecast cancelled")
		}

		history := sortYearlyAggregates(groups[region])
		fit, err := fitRegion(region, history)
		if err != nil {
			a.logger.Warn("skipping region", "region", region, "error", err)
			forecast.Skipped = append(forecast.Skipped, SkippedRegion{Region: region, Err: err})
			continue
		}

		predictions := make([]models.Prediction, len(futureYears))
		for i, year := range futureYears {
			predictions[i] = models.Prediction{
				Year:   year,
				Price:  fit.Price.At(year),
				Volume: fit.Volume.At(year),
			}
		}

		forecast.Regions = append(forecast.Regions, region)
		forecast.History[region] = history
		forecast.Fits[region] = fit
		forecast.Predictions[region] = predictions
	}

	if len(forecast.Regions) == 0 {
		return nil, apperrors.InsufficientData("no region has enough history to fit a trend").
			WithDetails("regions=%d min_years=%d", len(groups), minFitYears)
	}

	a.mu.Lock()
	a.latest = forecast
	a.computed = time.Now()
	a.records = len(observations)
	a.mu.Unlock()

	return forecast, nil
}

func (a *Analytics) aggregateObservation(obs models.Observation, groups map[string]map[int]*yearBucket) {
	years := groups[obs.Region]
	if years == nil {
		years = make(map[int]*yearBucket)
		groups[obs.Region] = years
	}
	bucket := years[obs.Year]
	if bucket == nil {
		bucket = &yearBucket{}
		years[obs.Year] = bucket
	}
	bucket.priceSum += obs.Price
	bucket.count++
	bucket.volume += int64(obs.Volume)
}

// Aggregate returns the per-region yearly aggregates without fitting.
func (a *Analytics) Aggregate(observations []models.Observation) map[string][]models.YearlyAggregate {
	groups := make(map[string]map[int]*yearBucket)
	for _, obs := range observations {
		a.aggregateObservation(obs, groups)
	}

	result := make(map[string][]models.YearlyAggregate, len(groups))
	for region, years := range groups {
		result[region] = sortYearlyAggregates(years)
	}
	return result
}

func sortYearlyAggregates(years map[int]*yearBucket) []models.YearlyAggregate {
	result := make([]models.YearlyAggregate, 0, len(years))
	for year, b := range years {
		result = append(result, models.YearlyAggregate{
			Year:        year,
			MeanPrice:   b.priceSum / float64(b.count),
			TotalVolume: b.volume,
		})
	}
	slices.SortFunc(result, func(a, b models.YearlyAggregate) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return result
}

func fitRegion(region string, history []models.YearlyAggregate) (models.RegionFit, error) {
	if len(history) < minFitYears {
		return models.RegionFit{}, apperrors.InsufficientData("not enough distinct years to fit a line").
			WithDetails("region=%s years=%d", region, len(history))
	}

	xs := make([]float64, len(history))
	prices := make([]float64, len(history))
	volumes := make([]float64, len(history))
	for i, h := range history {
		xs[i] = float64(h.Year)
		prices[i] = h.MeanPrice
		volumes[i] = float64(h.TotalVolume)
	}

	price := fitLine(xs, prices)
	volume := fitLine(xs, volumes)
	if !finite(price) || !finite(volume) {
		return models.RegionFit{}, apperrors.InsufficientData("fitted line is not finite").
			WithDetails("region=%s", region)
	}

	return models.RegionFit{Price: price, Volume: volume}, nil
}

func fitLine(xs, ys []float64) models.Fit {
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// Constant y: the horizontal line is exact.
		r2 = 1
	}
	return models.Fit{Intercept: alpha, Slope: beta, RSquared: r2}
}

func finite(f models.Fit) bool {
	return !math.IsNaN(f.Intercept) && !math.IsInf(f.Intercept, 0) &&
		!math.IsNaN(f.Slope) && !math.IsInf(f.Slope, 0)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.latest == nil {
		return map[string]any{"record_count": 0}
	}

	return map[string]any{
		"record_count":  a.records,
		"last_computed": a.computed,
		"regions":       len(a.latest.Regions),
		"skipped":       len(a.latest.Skipped),
		"future_years":  a.latest.FutureYears,
	}
}
