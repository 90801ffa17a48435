package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultDashboardFile   = "prediction_dashboard.html"
	DefaultChartLibraryURL = "https://cdn.plot.ly/plotly-2.24.1.min.js"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Generator GeneratorConfig `toml:"generator"`
	Forecast  ForecastConfig  `toml:"forecast"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Logger    LoggerConfig    `toml:"logger"`
	Security  SecurityConfig  `toml:"security"`
}

type ServerConfig struct {
	Host            string        `toml:"host"`
	BasePort        int           `toml:"base_port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type GeneratorConfig struct {
	StartYear   int     `toml:"start_year"`
	EndYear     int     `toml:"end_year"`
	Seed        uint64  `toml:"seed"`
	PriceNoise  float64 `toml:"price_noise"`
	VolumeNoise float64 `toml:"volume_noise"`
}

type ForecastConfig struct {
	Horizon int `toml:"horizon"`
}

type DashboardConfig struct {
	OutputDir       string `toml:"output_dir"`
	Filename        string `toml:"filename"`
	DefaultRegion   string `toml:"default_region"`
	ChartLibraryURL string `toml:"chart_library_url"`
	OpenBrowser     bool   `toml:"open_browser"`
	ExportWorkbook  bool   `toml:"export_workbook"`
	ExportCharts    bool   `toml:"export_charts"`
}

type LoggerConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type SecurityConfig struct {
	EnableRateLimit bool `toml:"enable_rate_limit"`
	RateLimitRPS    int  `toml:"rate_limit_rps"`
	RateLimitBurst  int  `toml:"rate_limit_burst"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			BasePort:        8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Generator: GeneratorConfig{
			StartYear:   2005,
			EndYear:     2024,
			PriceNoise:  0.5,
			VolumeNoise: 1000,
		},
		Forecast: ForecastConfig{
			Horizon: 5,
		},
		Dashboard: DashboardConfig{
			OutputDir:       ".",
			Filename:        DefaultDashboardFile,
			DefaultRegion:   "California",
			ChartLibraryURL: DefaultChartLibraryURL,
			OpenBrowser:     true,
			ExportWorkbook:  true,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
		Security: SecurityConfig{
			EnableRateLimit: true,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file in the
// working directory, an optional TOML file at path and the environment, in
// that order of precedence (later wins).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvString("SERVER_HOST", c.Server.Host)
	c.Server.BasePort = getEnvInt("SERVER_PORT", c.Server.BasePort)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Generator.StartYear = getEnvInt("GENERATOR_START_YEAR", c.Generator.StartYear)
	c.Generator.EndYear = getEnvInt("GENERATOR_END_YEAR", c.Generator.EndYear)
	c.Generator.Seed = getEnvUint64("GENERATOR_SEED", c.Generator.Seed)
	c.Generator.PriceNoise = getEnvFloat("GENERATOR_PRICE_NOISE", c.Generator.PriceNoise)
	c.Generator.VolumeNoise = getEnvFloat("GENERATOR_VOLUME_NOISE", c.Generator.VolumeNoise)

	c.Forecast.Horizon = getEnvInt("FORECAST_HORIZON", c.Forecast.Horizon)

	c.Dashboard.OutputDir = getEnvString("OUTPUT_DIR", c.Dashboard.OutputDir)
	c.Dashboard.Filename = getEnvString("DASHBOARD_FILE", c.Dashboard.Filename)
	c.Dashboard.DefaultRegion = getEnvString("DEFAULT_REGION", c.Dashboard.DefaultRegion)
	c.Dashboard.ChartLibraryURL = getEnvString("CHART_LIBRARY_URL", c.Dashboard.ChartLibraryURL)
	c.Dashboard.OpenBrowser = getEnvBool("OPEN_BROWSER", c.Dashboard.OpenBrowser)
	c.Dashboard.ExportWorkbook = getEnvBool("EXPORT_WORKBOOK", c.Dashboard.ExportWorkbook)
	c.Dashboard.ExportCharts = getEnvBool("EXPORT_CHARTS", c.Dashboard.ExportCharts)

	c.Logger.Level = getEnvString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnvString("LOG_FORMAT", c.Logger.Format)

	c.Security.EnableRateLimit = getEnvBool("SECURITY_RATE_LIMIT_ENABLED", c.Security.EnableRateLimit)
	c.Security.RateLimitRPS = getEnvInt("SECURITY_RATE_LIMIT_RPS", c.Security.RateLimitRPS)
	c.Security.RateLimitBurst = getEnvInt("SECURITY_RATE_LIMIT_BURST", c.Security.RateLimitBurst)
}

// Validate checks the configuration. It is exported so callers that apply
// command-line overrides after Load can re-check the result.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if c.Server.BasePort < 1 || c.Server.BasePort > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.BasePort)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}

	if c.Generator.StartYear > c.Generator.EndYear {
		return fmt.Errorf("generator start year %d is after end year %d", c.Generator.StartYear, c.Generator.EndYear)
	}

	if c.Generator.PriceNoise < 0 || c.Generator.VolumeNoise < 0 {
		return fmt.Errorf("generator noise must not be negative")
	}

	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast horizon must be at least 1, got %d", c.Forecast.Horizon)
	}

	if c.Dashboard.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if c.Dashboard.Filename == "" || strings.ContainsAny(c.Dashboard.Filename, `/\`) {
		return fmt.Errorf("dashboard filename %q must be a bare file name", c.Dashboard.Filename)
	}

	if c.Dashboard.ChartLibraryURL == "" {
		return fmt.Errorf("chart library URL cannot be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// DashboardPath is the location of the generated document on disk.
func (c *Config) DashboardPath() string {
	return filepath.Join(c.Dashboard.OutputDir, c.Dashboard.Filename)
}
