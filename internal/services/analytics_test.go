package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "energy-forecast/internal/errors"
	"energy-forecast/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generate(t *testing.T, opts ...GeneratorOption) []models.Observation {
	t.Helper()
	observations, err := NewGenerator(testGeneratorConfig(), opts...).Generate(context.Background())
	require.NoError(t, err)
	return observations
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics(nil)
	require.NotNil(t, a)
	assert.NotNil(t, a.logger)
	assert.Equal(t, 0, a.Stats()["record_count"])
}

func TestAnalytics_Forecast(t *testing.T) {
	observations := generate(t)
	a := NewAnalytics(testLogger())

	f, err := a.Forecast(context.Background(), observations, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{2025, 2026, 2027, 2028, 2029}, f.FutureYears)
	assert.Empty(t, f.Skipped)
	assert.Len(t, f.Regions, len(DefaultRegions()))
	assert.True(t, slices.IsSorted(f.Regions))

	for _, region := range f.Regions {
		require.Len(t, f.History[region], 20, region)
		require.Len(t, f.Predictions[region], 5, region)
		for i, p := range f.Predictions[region] {
			assert.Equal(t, f.FutureYears[i], p.Year)
		}
		// Prices rise 0.4/year in the generator; noise cannot flip that over 20 years.
		assert.Positive(t, f.Fits[region].Price.Slope, region)
		assert.Positive(t, f.Fits[region].Volume.Slope, region)
	}

	stats := a.Stats()
	assert.Equal(t, len(observations), stats["record_count"])
	assert.Equal(t, len(DefaultRegions()), stats["regions"])
}

func TestAnalytics_AggregateYearsMatchObservations(t *testing.T) {
	var observations []models.Observation
	for _, year := range []int{2010, 2012, 2013, 2019} {
		for _, c := range models.Categories() {
			observations = append(observations, models.Observation{Year: year, Region: "Utah", Category: c, Price: 5, Volume: 100})
		}
	}
	observations = append(observations, models.Observation{Year: 2011, Region: "Iowa", Category: models.Residential, Price: 3, Volume: 7})

	aggregates := NewAnalytics(testLogger()).Aggregate(observations)

	utah := aggregates["Utah"]
	years := make([]int, len(utah))
	for i, a := range utah {
		years[i] = a.Year
		assert.Equal(t, 5.0, a.MeanPrice)
		assert.Equal(t, int64(300), a.TotalVolume)
	}
	assert.Equal(t, []int{2010, 2012, 2013, 2019}, years, "no gaps filled, no duplicates")
	assert.Len(t, aggregates["Iowa"], 1)
}

func TestAnalytics_MeanAndSum(t *testing.T) {
	observations := []models.Observation{
		{Year: 2020, Region: "Maine", Category: models.Residential, Price: 10, Volume: 100},
		{Year: 2020, Region: "Maine", Category: models.Commercial, Price: 12, Volume: 200},
		{Year: 2020, Region: "Maine", Category: models.Industrial, Price: 14, Volume: 300},
		{Year: 2021, Region: "Maine", Category: models.Residential, Price: 11, Volume: 110},
	}

	f, err := NewAnalytics(testLogger()).Forecast(context.Background(), observations, 1)
	require.NoError(t, err)

	history := f.History["Maine"]
	require.Len(t, history, 2)
	assert.Equal(t, models.YearlyAggregate{Year: 2020, MeanPrice: 12, TotalVolume: 600}, history[0])
	assert.Equal(t, models.YearlyAggregate{Year: 2021, MeanPrice: 11, TotalVolume: 110}, history[1])
}

func TestAnalytics_NoiselessTrendIsMonotonic(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.PriceNoise = 0
	cfg.VolumeNoise = 0
	observations, err := NewGenerator(cfg, WithRegions("Colorado")).Generate(context.Background())
	require.NoError(t, err)

	f, err := NewAnalytics(testLogger()).Forecast(context.Background(), observations, 5)
	require.NoError(t, err)

	fit := f.Fits["Colorado"]
	assert.InDelta(t, 0.4, fit.Price.Slope, 1e-6)
	assert.InDelta(t, 1.0, fit.Price.RSquared, 1e-9)

	pred2025 := f.Predictions["Colorado"][0]
	require.Equal(t, 2025, pred2025.Year)
	assert.Greater(t, pred2025.Price, fit.Price.At(2024))

	history := f.History["Colorado"]
	assert.Greater(t, pred2025.Price, history[len(history)-1].MeanPrice)
	assert.Greater(t, pred2025.Volume, float64(history[len(history)-1].TotalVolume))
}

func TestAnalytics_SkipsRegionsWithOneYear(t *testing.T) {
	observations := generate(t, WithRegions("Texas", "Vermont"))
	observations = append(observations, models.Observation{
		Year: 2024, Region: "Guam", Category: models.Residential, Price: 20, Volume: 500,
	})

	f, err := NewAnalytics(testLogger()).Forecast(context.Background(), observations, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"Texas", "Vermont"}, f.Regions)
	require.Len(t, f.Skipped, 1)
	assert.Equal(t, "Guam", f.Skipped[0].Region)
	assert.True(t, apperrors.IsCode(f.Skipped[0].Err, apperrors.CodeInsufficientData))

	assert.NotContains(t, f.History, "Guam")
	assert.NotContains(t, f.Predictions, "Guam")
	assert.NotContains(t, f.Fits, "Guam")
}

func TestAnalytics_AllRegionsDegenerate(t *testing.T) {
	observations := []models.Observation{
		{Year: 2024, Region: "Guam", Category: models.Residential, Price: 20, Volume: 500},
		{Year: 2024, Region: "Guam", Category: models.Industrial, Price: 21, Volume: 800},
	}

	_, err := NewAnalytics(testLogger()).Forecast(context.Background(), observations, 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientData))
}

func TestAnalytics_ForecastValidation(t *testing.T) {
	a := NewAnalytics(testLogger())

	_, err := a.Forecast(context.Background(), nil, 5)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = a.Forecast(context.Background(), generate(t, WithRegions("Ohio")), 0)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestAnalytics_HorizonFollowsLastYear(t *testing.T) {
	observations := []models.Observation{
		{Year: 1999, Region: "Ohio", Category: models.Residential, Price: 1, Volume: 1},
		{Year: 2001, Region: "Ohio", Category: models.Residential, Price: 2, Volume: 2},
	}

	f, err := NewAnalytics(testLogger()).Forecast(context.Background(), observations, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2002, 2003, 2004}, f.FutureYears)

	for i := 1; i < len(f.FutureYears); i++ {
		assert.Equal(t, f.FutureYears[i-1]+1, f.FutureYears[i])
	}
}
