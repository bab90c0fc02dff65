package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	CallTimeout time.Duration `mapstructure:"call_timeout"` // per completion call; 0 = unbounded
}

type ServerConfig struct {
	Port       int  `mapstructure:"port"`
	Heuristics bool `mapstructure:"heuristics"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // idle eviction; 0 = process lifetime
}

type MenuConfig struct {
	Path string `mapstructure:"path"` // optional YAML catalog; empty = built-in menu
}

type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Menu    MenuConfig    `mapstructure:"menu"`
}

// Load reads pizzaiolo.yaml from the working directory or ~/.pizzaiolo if
// present; every setting has a default, so running with no config file and
// no environment works against a local mock endpoint.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("pizzaiolo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.pizzaiolo")

	v.SetDefault("llm.base_url", "http://localhost:4103/v1/")
	v.SetDefault("llm.api_key", "mock-bearer-token-12345")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.call_timeout", time.Duration(0))
	v.SetDefault("server.port", 4455)
	v.SetDefault("server.heuristics", true)
	v.SetDefault("session.ttl", 30*time.Minute)

	// Environment names kept from the original deployment.
	v.BindEnv("llm.base_url", "HINOW_API_URL")
	v.BindEnv("llm.api_key", "HINOW_API_KEY")
	v.BindEnv("llm.model", "HINOW_DEFAULT_MODEL")
	v.BindEnv("server.port", "APP_PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
