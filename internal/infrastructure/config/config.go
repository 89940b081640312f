// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AI        AIConfig        `mapstructure:"ai"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Engine    EngineConfig    `mapstructure:"engine"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Database    string `mapstructure:"database"`
	LogLevel    string `mapstructure:"log_level"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// AIConfig contains language-model service configuration
type AIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// InventoryConfig contains the stock feed provider configuration
type InventoryConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxIngredients int           `mapstructure:"max_ingredients"`
}

// CatalogConfig contains the recipe catalog provider configuration
type CatalogConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ResultLimit    int           `mapstructure:"result_limit"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// EngineConfig contains matching/scoring/preference tuning.
// Weight constants are recommended defaults, not mandated values.
type EngineConfig struct {
	FitWeight              float64 `mapstructure:"fit_weight"`
	PreferenceWeight       float64 `mapstructure:"preference_weight"`
	EffortWeight           float64 `mapstructure:"effort_weight"`
	EssentialMissPenalty   float64 `mapstructure:"essential_miss_penalty"`
	FallbackFitThreshold   float64 `mapstructure:"fallback_fit_threshold"`
	FeedbackLearningRate   float64 `mapstructure:"feedback_learning_rate"`
	PreferenceDecayFactor  float64 `mapstructure:"preference_decay_factor"`
	EffortWindowSize       int     `mapstructure:"effort_window_size"`
	YouCanMakeThisFloorPct float64 `mapstructure:"you_can_make_this_floor_pct"`
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pantrypilot")
	}

	// Enable environment variable override
	v.SetEnvPrefix("PANTRYPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "PantryPilot")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.database", "pantrypilot")
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 2000)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.request_timeout", "30s")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.retry_backoff", "500ms")
	v.SetDefault("ai.requests_per_sec", 2.0)
	v.SetDefault("ai.cache_ttl", "24h")

	v.SetDefault("inventory.request_timeout", "20s")
	v.SetDefault("inventory.max_ingredients", 20)

	v.SetDefault("catalog.base_url", "https://api.spoonacular.com")
	v.SetDefault("catalog.request_timeout", "15s")
	v.SetDefault("catalog.result_limit", 10)
	v.SetDefault("catalog.cache_ttl", "1h")

	v.SetDefault("engine.fit_weight", 0.4)
	v.SetDefault("engine.preference_weight", 0.3)
	v.SetDefault("engine.effort_weight", 0.3)
	v.SetDefault("engine.essential_miss_penalty", 25.0)
	v.SetDefault("engine.fallback_fit_threshold", 10.0)
	v.SetDefault("engine.feedback_learning_rate", 0.1)
	v.SetDefault("engine.preference_decay_factor", 0.98)
	v.SetDefault("engine.effort_window_size", 3)
	v.SetDefault("engine.you_can_make_this_floor_pct", 90.0)
}

// Validate performs configuration validation
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Engine.PreferenceDecayFactor <= 0 || c.Engine.PreferenceDecayFactor >= 1 {
		return fmt.Errorf("preference decay factor must be in (0,1): %f", c.Engine.PreferenceDecayFactor)
	}
	if c.Engine.FeedbackLearningRate <= 0 || c.Engine.FeedbackLearningRate > 1 {
		return fmt.Errorf("feedback learning rate must be in (0,1]: %f", c.Engine.FeedbackLearningRate)
	}
	if c.Engine.EffortWindowSize < 1 {
		return fmt.Errorf("effort window size must be positive: %d", c.Engine.EffortWindowSize)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
