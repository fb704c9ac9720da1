package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for an anvil session.
// Values are populated from .anvil.yaml, ANVIL_* env vars, and CLI flags.
type Config struct {
	ServerURL             string `mapstructure:"server_url"`
	SocketURL             string `mapstructure:"socket_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	Editor                string `mapstructure:"editor"`
	OplogPath             string `mapstructure:"oplog_path"`
	Verbose               bool   `mapstructure:"verbose"`
}

// RequestTimeout returns the configured REST timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("server_url", "http://localhost:3000")
	viper.SetDefault("socket_url", "ws://localhost:3000")
	viper.SetDefault("request_timeout_seconds", 10)
	viper.SetDefault("editor", "")
	viper.SetDefault("oplog_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
