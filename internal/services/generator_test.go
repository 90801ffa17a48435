package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-forecast/internal/config"
	apperrors "energy-forecast/internal/errors"
	"energy-forecast/internal/models"
)

func testGeneratorConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		StartYear:   2005,
		EndYear:     2024,
		Seed:        42,
		PriceNoise:  0.5,
		VolumeNoise: 1000,
	}
}

func TestGenerator_Generate(t *testing.T) {
	cfg := testGeneratorConfig()
	observations, err := NewGenerator(cfg).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, observations, 20*len(DefaultRegions())*len(models.Categories()))

	for _, obs := range observations {
		assert.GreaterOrEqual(t, obs.Year, cfg.StartYear)
		assert.LessOrEqual(t, obs.Year, cfg.EndYear)
		assert.True(t, obs.Category.Valid(), "category %q", obs.Category)
		assert.False(t, math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0), "price must be finite")
		assert.Contains(t, DefaultRegions(), obs.Region)
	}
}

func TestGenerator_UniqueKeys(t *testing.T) {
	observations, err := NewGenerator(testGeneratorConfig()).Generate(context.Background())
	require.NoError(t, err)

	type key struct {
		year     int
		region   string
		category models.Category
	}
	seen := make(map[key]bool, len(observations))
	for _, obs := range observations {
		k := key{obs.Year, obs.Region, obs.Category}
		assert.False(t, seen[k], "duplicate key %+v", k)
		seen[k] = true
	}
}

func TestGenerator_SeedReproducible(t *testing.T) {
	cfg := testGeneratorConfig()

	first, err := NewGenerator(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := NewGenerator(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cfg.Seed = 43
	third, err := NewGenerator(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestGenerator_Noiseless(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.PriceNoise = 0
	cfg.VolumeNoise = 0

	observations, err := NewGenerator(cfg, WithRegions("Ohio")).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 20*3)

	for _, obs := range observations {
		offset := float64(obs.Year - cfg.StartYear)
		wantPrice := math.Round((6+offset*0.4+RegionOffset("Ohio"))*100) / 100
		assert.InDelta(t, wantPrice, obs.Price, 1e-9)

		wantVolume := int((10000 + offset*500) * obs.Category.VolumeMultiplier())
		assert.Equal(t, wantVolume, obs.Volume, "year %d category %s", obs.Year, obs.Category)
	}
}

func TestGenerator_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() config.GeneratorConfig
		opts []GeneratorOption
	}{
		{"reversed years", func() config.GeneratorConfig {
			c := testGeneratorConfig()
			c.StartYear = 2030
			return c
		}, nil},
		{"no regions", testGeneratorConfig, []GeneratorOption{WithRegions()}},
		{"no categories", testGeneratorConfig, []GeneratorOption{WithCategories()}},
		{"unknown category", testGeneratorConfig, []GeneratorOption{WithCategories("Agricultural")}},
		{"negative noise", func() config.GeneratorConfig {
			c := testGeneratorConfig()
			c.PriceNoise = -1
			return c
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.cfg(), tt.opts...).Generate(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
		})
	}
}

func TestGenerator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(testGeneratorConfig()).Generate(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegionOffset(t *testing.T) {
	for _, region := range DefaultRegions() {
		offset := RegionOffset(region)
		assert.GreaterOrEqual(t, offset, 0.0)
		assert.Less(t, offset, 2.0)
		assert.Equal(t, offset, RegionOffset(region), "offset must be stable")
	}
}
