// Package config provides configuration for the SolveSphere backend.
// Values come from defaults, an optional config file, and environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int `mapstructure:"http_port"`

	// Database
	DatabaseURL string `mapstructure:"database_url"`

	// Auth
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	// LLM settings
	LLMBaseURL string        `mapstructure:"llm_base_url"`
	LLMAPIKey  string        `mapstructure:"llm_api_key"`
	LLMModel   string        `mapstructure:"llm_model"`
	LLMTimeout time.Duration `mapstructure:"llm_timeout"`

	// Image generation settings
	ImageBaseURL string        `mapstructure:"image_base_url"`
	ImageAPIKey  string        `mapstructure:"image_api_key"`
	ImageEngine  string        `mapstructure:"image_engine"`
	ImageTimeout time.Duration `mapstructure:"image_timeout"`

	// Web search settings
	SearchBaseURL string        `mapstructure:"search_base_url"`
	SearchAPIKey  string        `mapstructure:"search_api_key"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration from defaults, an optional config file, and
// SOLVESPHERE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_port", 8080)
	v.SetDefault("database_url", "file:solvesphere.db?cache=shared&mode=rwc")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("llm_base_url", "https://api.groq.com/openai")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "llama-3.3-70b-versatile")
	v.SetDefault("llm_timeout", "120s")
	v.SetDefault("image_base_url", "https://api.stability.ai")
	v.SetDefault("image_api_key", "")
	v.SetDefault("image_engine", "stable-diffusion-xl-1024-v1-0")
	v.SetDefault("image_timeout", "60s")
	v.SetDefault("search_base_url", "https://serpapi.com")
	v.SetDefault("search_api_key", "")
	v.SetDefault("search_timeout", "15s")
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/solvesphere")
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOLVESPHERE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
