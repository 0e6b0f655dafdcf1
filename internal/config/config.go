package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Store  StoreConfig  `mapstructure:"store"`
}

// ServerConfig stores the HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig stores the generation service settings.
type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// StoreConfig stores the conversation store settings.
type StoreConfig struct {
	// DSN for the sqlite store. The default keeps all conversation state
	// in memory so nothing survives a restart.
	DSN string `mapstructure:"dsn"`
}

// Load reads configuration from an optional config file and the environment.
// The API key is taken from GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("store.dsn", ":memory:")

	v.BindEnv("llm.api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	v.BindEnv("llm.model", "VERDANT_MODEL")
	v.BindEnv("server.address", "VERDANT_ADDRESS")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured: set GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment, or llm.api_key in the config file")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	return nil
}
