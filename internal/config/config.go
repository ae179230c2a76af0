package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Generation GenerationConfig `mapstructure:"generation"`
	Image      ImageConfig      `mapstructure:"image"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port" validate:"required"`
	Env         string   `mapstructure:"env"`
	APIKeys     []string `mapstructure:"api_keys"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// GeminiConfig describes the hosted model provider.
type GeminiConfig struct {
	Provider   string        `mapstructure:"provider" validate:"required"`
	APIKey     string        `mapstructure:"api_key" validate:"required"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	FastModel  string        `mapstructure:"fast_model" validate:"required"`
	SmartModel string        `mapstructure:"smart_model" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	WarmUp     bool          `mapstructure:"warm_up"`
}

// GenerationConfig controls retries and spacing of outbound model calls.
type GenerationConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=10"`
	BackoffBase time.Duration `mapstructure:"backoff_base" validate:"gte=0"`
	MinInterval time.Duration `mapstructure:"min_interval" validate:"gte=0"`
}

type ImageConfig struct {
	MaxBytes     int `mapstructure:"max_bytes" validate:"gt=0"`
	MaxDimension int `mapstructure:"max_dimension" validate:"gt=0"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
	Key      string `mapstructure:"key"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing provider API key is an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("gemini.provider", "google")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.fast_model", "gemini-2.5-flash")
	v.SetDefault("gemini.smart_model", "gemini-2.5-pro")
	v.SetDefault("gemini.timeout", 60*time.Second)
	v.SetDefault("gemini.warm_up", true)

	v.SetDefault("generation.max_attempts", 3)
	v.SetDefault("generation.backoff_base", time.Second)
	v.SetDefault("generation.min_interval", time.Second)

	v.SetDefault("image.max_bytes", 10<<20)
	v.SetDefault("image.max_dimension", 2048)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "cinetaste:ratelimit:last_call")

	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "cinetaste-ai")
}

// Validate reports the first invalid setting, naming the env variable to set.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if env, ok := envNames[fe.Namespace()]; ok {
			return fmt.Errorf("invalid configuration: %s is %s (set %s)", fe.Namespace(), fe.Tag(), env)
		}
		return fmt.Errorf("invalid configuration: %s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

var envNames = map[string]string{
	"Config.Gemini.APIKey":     "GEMINI_API_KEY or GOOGLE_API_KEY",
	"Config.Gemini.FastModel":  "GEMINI_FAST_MODEL",
	"Config.Gemini.SmartModel": "GEMINI_SMART_MODEL",
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
