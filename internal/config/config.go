package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
)

const (
	defaultPort            = "8080"
	defaultBarWeight       = 45.0
	defaultTargetWeight    = 135.0
	defaultMaxTargetWeight = 2000.0
	defaultLogLevel        = "info"
	defaultRateLimitRPS    = 25.0
	defaultRateLimitBurst  = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Config file > Defaults
type Config struct {
	Port                 string
	Denominations        []float64
	BarWeight            float64
	TargetWeight         float64
	MaxTargetWeight      float64
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// fileConfig represents the configuration file structure, shared by YAML and TOML.
type fileConfig struct {
	Port                 string        `yaml:"port" toml:"port"`
	Plates               []float64     `yaml:"plates" toml:"plates"`
	BarWeight            float64       `yaml:"bar_weight" toml:"bar_weight"`
	TargetWeight         float64       `yaml:"target_weight" toml:"target_weight"`
	MaxTargetWeight      float64       `yaml:"max_target_weight" toml:"max_target_weight"`
	LogLevel             string        `yaml:"log_level" toml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging" toml:"enable_request_logging"`
	RateLimit            fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
}

// fileRateLimit represents the rate limit section.
type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Port           *string
	PlatesStr      *string
	BarWeight      *float64
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > Config file > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		applyFileConfig(&cfg, fileCfg)
	}

	// Variables already present in the environment win over the .env file.
	if overrides != nil && overrides.EnvFile != "" {
		if err := godotenv.Load(overrides.EnvFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		Denominations:        plates.DefaultDenominations(),
		BarWeight:            defaultBarWeight,
		TargetWeight:         defaultTargetWeight,
		MaxTargetWeight:      defaultMaxTargetWeight,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a TOML file when the extension is .toml,
// and from YAML otherwise.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return &fileCfg, nil
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &fileCfg, nil
}

// applyFileConfig applies file configuration to the Config struct.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) {
	if fileCfg.Port != "" {
		cfg.Port = fileCfg.Port
	}

	if len(fileCfg.Plates) > 0 {
		cfg.Denominations = fileCfg.Plates
	}

	if fileCfg.BarWeight != 0 {
		cfg.BarWeight = fileCfg.BarWeight
	}

	if fileCfg.TargetWeight != 0 {
		cfg.TargetWeight = fileCfg.TargetWeight
	}

	if fileCfg.MaxTargetWeight != 0 {
		cfg.MaxTargetWeight = fileCfg.MaxTargetWeight
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	applyDuration(&cfg.ShutdownGracePeriod, fileCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, fileCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, fileCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, fileCfg.IdleTimeout)

	if fileCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *fileCfg.EnableRequestLogging
	}

	if fileCfg.RateLimit.RPS != nil && *fileCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *fileCfg.RateLimit.RPS
	}

	if fileCfg.RateLimit.Burst != nil && *fileCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *fileCfg.RateLimit.Burst
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawPlates := strings.TrimSpace(os.Getenv("PLATES")); rawPlates != "" {
		denominations, err := parsePlates(rawPlates)
		if err == nil {
			cfg.Denominations = denominations
		}
	}

	if bar := strings.TrimSpace(os.Getenv("BAR_WEIGHT")); bar != "" {
		if value, err := strconv.ParseFloat(bar, 64); err == nil && value > 0 {
			cfg.BarWeight = value
		}
	}

	if target := strings.TrimSpace(os.Getenv("TARGET_WEIGHT")); target != "" {
		if value, err := strconv.ParseFloat(target, 64); err == nil {
			cfg.TargetWeight = value
		}
	}

	if maxTarget := strings.TrimSpace(os.Getenv("MAX_TARGET_WEIGHT")); maxTarget != "" {
		if value, err := strconv.ParseFloat(maxTarget, 64); err == nil && value > 0 {
			cfg.MaxTargetWeight = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PlatesStr != nil && *overrides.PlatesStr != "" {
		denominations, err := parsePlates(*overrides.PlatesStr)
		if err != nil {
			return fmt.Errorf("parse plates: %w", err)
		}
		cfg.Denominations = denominations
	}

	if overrides.BarWeight != nil && *overrides.BarWeight > 0 {
		cfg.BarWeight = *overrides.BarWeight
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration. The plate set is normalised to
// strictly descending order and the starting target is raised to the bar weight.
func validateConfig(cfg *Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if !(cfg.BarWeight > 0) || math.IsInf(cfg.BarWeight, 0) {
		return fmt.Errorf("bar weight must be a positive number, got %v", cfg.BarWeight)
	}
	if !(cfg.MaxTargetWeight > cfg.BarWeight) || math.IsInf(cfg.MaxTargetWeight, 0) {
		return fmt.Errorf("max target weight must exceed bar weight %v, got %v", cfg.BarWeight, cfg.MaxTargetWeight)
	}

	denominations, err := plates.NormalizeDenominations(cfg.Denominations)
	if err != nil {
		return fmt.Errorf("plates: %w", err)
	}
	cfg.Denominations = denominations

	if math.IsNaN(cfg.TargetWeight) || math.IsInf(cfg.TargetWeight, 0) {
		cfg.TargetWeight = defaultTargetWeight
	}
	cfg.TargetWeight = math.Max(cfg.TargetWeight, cfg.BarWeight)

	return nil
}

// parsePlates parses a comma-separated string of plate weights.
// It validates that all values are positive numbers.
func parsePlates(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	denominations := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid plate weight %q", part)
		}
		if value <= 0 {
			return nil, fmt.Errorf("plate weight must be positive, got %v", value)
		}
		denominations = append(denominations, value)
	}
	if len(denominations) == 0 {
		return nil, fmt.Errorf("no plates provided")
	}
	return denominations, nil
}
