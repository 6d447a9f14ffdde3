package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Web      WebConfig      `mapstructure:"web"`
	Log      LogConfig      `mapstructure:"log"`
}

// BackendConfig describes the remote store API: one primary endpoint plus an
// ordered list of fallbacks tried in order when the primary is unreachable.
type BackendConfig struct {
	PrimaryURL     string        `mapstructure:"primary_url"`
	FallbackURLs   []string      `mapstructure:"fallback_urls"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type CheckoutConfig struct {
	// RequireDiscordID makes the Discord ID a mandatory checkout field.
	RequireDiscordID bool `mapstructure:"require_discord_id"`
}

type WebConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("backend.connect_timeout", 8*time.Second)
	v.SetDefault("backend.request_timeout", 15*time.Second)
	v.SetDefault("checkout.require_discord_id", true)
	v.SetDefault("web.host", "127.0.0.1")
	v.SetDefault("web.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stderr"})

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Backend.PrimaryURL == "" {
		return nil, fmt.Errorf("backend.primary_url is required")
	}

	return &config, nil
}

// Endpoints returns the primary endpoint followed by the fallbacks, in
// failover order.
func (c *BackendConfig) Endpoints() []string {
	endpoints := make([]string, 0, len(c.FallbackURLs)+1)
	endpoints = append(endpoints, c.PrimaryURL)
	endpoints = append(endpoints, c.FallbackURLs...)
	return endpoints
}
