package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mohamedkhairy/momentum-screener/internal/screener"
	"github.com/mohamedkhairy/momentum-screener/pkg/indicator"
)

// Config holds all configuration for the screener
type Config struct {
	// Common
	Environment string `validate:"oneof=development production test"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	// Indicator parameters applied to every instrument
	Indicators indicator.Params

	Data      DataConfig
	Screen    ScreenConfig
	Render    RenderConfig
	API       APIConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
}

// DataConfig holds the location of the per-instrument CSV files
type DataConfig struct {
	Dir     string `validate:"required"`
	Pattern string `validate:"required"`
}

// ScreenConfig holds the momentum rule thresholds
type ScreenConfig struct {
	RSILower  float64 `validate:"gte=0,lte=100"`
	RSIUpper  float64 `validate:"gte=0,lte=100,gtfield=RSILower"`
	TopN      int     `validate:"gte=1,lte=4"`
	RulesFile string  // optional YAML rule, replaces the thresholds above
	Workers   int     `validate:"gte=1"`
}

// RenderConfig holds chart rendering configuration
type RenderConfig struct {
	Kind   string `validate:"oneof=terminal none"`
	Width  int    `validate:"gte=10"`
	Height int    `validate:"gte=3"`
}

// APIConfig holds HTTP/WebSocket API configuration
type APIConfig struct {
	Addr         string        `validate:"required"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	PingInterval time.Duration `validate:"gt=0"`
}

// SchedulerConfig holds the periodic rerun configuration
type SchedulerConfig struct {
	Spec       string // cron spec, empty disables periodic runs
	RunOnStart bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string `validate:"required_if=Enabled true"`
	Port         int    `validate:"gte=1,lte=65535"`
	Password     string
	DB           int `validate:"gte=0"`
	PoolSize     int `validate:"gte=1"`
	MinIdleConns int `validate:"gte=0"`
	Channel      string
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	defaults := indicator.DefaultParams()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Indicators: indicator.Params{
			RSIPeriod:       getEnvAsInt("RSI_PERIOD", defaults.RSIPeriod),
			MACDFast:        getEnvAsInt("MACD_FAST", defaults.MACDFast),
			MACDSlow:        getEnvAsInt("MACD_SLOW", defaults.MACDSlow),
			MACDSignal:      getEnvAsInt("MACD_SIGNAL", defaults.MACDSignal),
			BollingerWindow: getEnvAsInt("BOLLINGER_WINDOW", defaults.BollingerWindow),
			BollingerK:      getEnvAsFloat("BOLLINGER_K", defaults.BollingerK),
		},
		Data: DataConfig{
			Dir:     getEnv("DATA_DIR", "data"),
			Pattern: getEnv("DATA_PATTERN", "*.csv"),
		},
		Screen: ScreenConfig{
			RSILower:  getEnvAsFloat("SCREEN_RSI_LOWER", 40),
			RSIUpper:  getEnvAsFloat("SCREEN_RSI_UPPER", 60),
			TopN:      getEnvAsInt("SCREEN_TOP_N", 4),
			RulesFile: getEnv("RULES_FILE", ""),
			Workers:   getEnvAsInt("SCREEN_WORKERS", runtime.NumCPU()),
		},
		Render: RenderConfig{
			Kind:   getEnv("RENDER_KIND", "none"),
			Width:  getEnvAsInt("RENDER_WIDTH", 60),
			Height: getEnvAsInt("RENDER_HEIGHT", 8),
		},
		API: APIConfig{
			Addr:         getEnv("API_ADDR", ":8090"),
			ReadTimeout:  getEnvAsDuration("API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("API_WRITE_TIMEOUT", 15*time.Second),
			PingInterval: getEnvAsDuration("API_WS_PING_INTERVAL", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			Spec:       getEnv("SCHEDULE", ""),
			RunOnStart: getEnvAsBool("SCHEDULE_RUN_ON_START", true),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			Channel:      getEnv("REDIS_CHANNEL", "screener.toplist.updated"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return c.Indicators.Validate()
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// Rule returns the screening rule: the YAML rule file when one is set,
// otherwise the momentum rule built from the thresholds
func (s ScreenConfig) Rule() (screener.Rule, error) {
	if s.RulesFile != "" {
		return screener.LoadRuleFile(s.RulesFile)
	}
	rule := screener.MomentumRule(s.RSILower, s.RSIUpper, s.TopN)
	if err := rule.Validate(); err != nil {
		return screener.Rule{}, err
	}
	return rule, nil
}
