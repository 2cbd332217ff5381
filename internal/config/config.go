package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Hermes  HermesConfig  `yaml:"hermes"`
	Scoring ScoringConfig `yaml:"scoring"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port               int  `yaml:"port"`
	MetricsPort        int  `yaml:"metrics_port"`
	RateLimitPerMinute int  `yaml:"rate_limit_per_minute"`
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	TrustProxy         bool `yaml:"trust_proxy"`
}

// HermesConfig configures the NATS bus. An empty URL disables it.
type HermesConfig struct {
	URL                     string `yaml:"url"`
	BreakerFailureThreshold int    `yaml:"breaker_failure_threshold"`
	BreakerTimeoutMs        int    `yaml:"breaker_timeout_ms"`
}

type ScoringConfig struct {
	DefaultStrategy string                       `yaml:"default_strategy"`
	SuggestionCount int                          `yaml:"suggestion_count"`
	Thresholds      scoring.Thresholds           `yaml:"thresholds"`
	Weights         map[string]scoring.WeightSet `yaml:"weights"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.Hermes.BreakerTimeoutMs) * time.Millisecond
}

// HermesEnabled reports whether a NATS URL is configured.
func (c *Config) HermesEnabled() bool {
	return c.Hermes.URL != ""
}

// Strategies returns the built-in weight table with configured overrides applied.
func (c *Config) Strategies() (scoring.StrategyTable, error) {
	return scoring.DefaultStrategies().Override(c.Scoring.Weights)
}

// LogLevel maps logging.level to a slog level. Unknown values mean info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Hermes: HermesConfig{
			BreakerFailureThreshold: 5,
			BreakerTimeoutMs:        30000,
		},
		Scoring: ScoringConfig{
			DefaultStrategy: string(scoring.DefaultStrategy),
			SuggestionCount: 3,
			Thresholds:      scoring.DefaultThresholds(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("invalid config: server ports must be positive")
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("invalid config: rate_limit_per_minute must not be negative")
	}
	if c.Hermes.BreakerFailureThreshold <= 0 {
		return fmt.Errorf("invalid config: breaker_failure_threshold must be positive")
	}
	if c.Hermes.BreakerTimeoutMs <= 0 {
		return fmt.Errorf("invalid config: breaker_timeout_ms must be positive")
	}
	if !scoring.Strategy(c.Scoring.DefaultStrategy).Known() {
		return fmt.Errorf("invalid config: unknown default_strategy %q", c.Scoring.DefaultStrategy)
	}
	if c.Scoring.SuggestionCount <= 0 {
		return fmt.Errorf("invalid config: suggestion_count must be positive")
	}
	if err := c.Scoring.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Strategies(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid config: unknown logging format %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRIAGE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TRIAGE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TRIAGE_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("TRIAGE_TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.TrustProxy = b
		}
	}
	if v := os.Getenv("TRIAGE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("TRIAGE_BREAKER_FAILURE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Hermes.BreakerFailureThreshold = n
		}
	}
	if v := os.Getenv("TRIAGE_BREAKER_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Hermes.BreakerTimeoutMs = n
		}
	}
	if v := os.Getenv("TRIAGE_DEFAULT_STRATEGY"); v != "" {
		cfg.Scoring.DefaultStrategy = v
	}
	if v := os.Getenv("TRIAGE_SUGGESTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.SuggestionCount = n
		}
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRIAGE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
