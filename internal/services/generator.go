package services

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"

	"energy-forecast/internal/config"
	apperrors "energy-forecast/internal/errors"
	"energy-forecast/internal/models"
)

var defaultRegions = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut", "Delaware", "Florida",
	"Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska",
	"Nevada", "New Hampshire", "New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota", "Tennessee",
	"Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

// DefaultRegions returns a copy of the built-in US state list.
func DefaultRegions() []string {
	return append([]string(nil), defaultRegions...)
}

const (
	basePrice         = 6.0
	priceSlope        = 0.4
	baseVolume        = 10000.0
	volumeSlope       = 500.0
	regionOffsetScale = 50.0
)

type Generator struct {
	cfg        config.GeneratorConfig
	regions    []string
	categories []models.Category
	rng        *rand.Rand
}

type GeneratorOption func(*Generator)

func WithRegions(regions ...string) GeneratorOption {
	return func(g *Generator) {
		g.regions = regions
	}
}

func WithCategories(categories ...models.Category) GeneratorOption {
	return func(g *Generator) {
		g.categories = categories
	}
}

// NewGenerator builds a generator. A zero Seed draws one from the clock, so
// only a non-zero seed gives reproducible output.
func NewGenerator(cfg config.GeneratorConfig, opts ...GeneratorOption) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := &Generator{
		cfg:        cfg,
		regions:    DefaultRegions(),
		categories: models.Categories(),
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one observation per (year, region, category).
func (g *Generator) Generate(ctx context.Context) ([]models.Observation, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	years := g.cfg.EndYear - g.cfg.StartYear + 1
	observations := make([]models.Observation, 0, years*len(g.regions)*len(g.categories))

	for year := g.cfg.StartYear; year <= g.cfg.EndYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.GenerationWrap(err, "generation cancelled")
		}

		offset := float64(year - g.cfg.StartYear)
		for _, region := range g.regions {
			for _, category := range g.categories {
				price := basePrice + offset*priceSlope + RegionOffset(region) + g.rng.NormFloat64()*g.cfg.PriceNoise
				volume := (baseVolume+offset*volumeSlope)*category.VolumeMultiplier() + g.rng.NormFloat64()*g.cfg.VolumeNoise

				observations = append(observations, models.Observation{
					Year:     year,
					Region:   region,
					Category: category,
					Price:    math.Round(price*100) / 100,
					Volume:   int(volume),
				})
			}
		}
	}

	return observations, nil
}

func (g *Generator) validate() error {
	if g.cfg.StartYear > g.cfg.EndYear {
		return apperrors.Validation("start year is after end year").
			WithDetails("start=%d end=%d", g.cfg.StartYear, g.cfg.EndYear)
	}
	if len(g.regions) == 0 {
		return apperrors.Validation("no regions to generate")
	}
	if len(g.categories) == 0 {
		return apperrors.Validation("no categories to generate")
	}
	for _, c := range g.categories {
		if !c.Valid() {
			return apperrors.Validation("unknown category").WithDetails("%q", c)
		}
	}
	if g.cfg.PriceNoise < 0 || g.cfg.VolumeNoise < 0 {
		return apperrors.Validation("noise must not be negative")
	}
	return nil
}

// RegionOffset is the fixed price premium of a region, in [0, 1.98].
func RegionOffset(region string) float64 {
	return float64(xxhash.Sum64String(region)%100) / regionOffsetScale
}
