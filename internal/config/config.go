// Package config wraps viper behind a small Config type and provides the
// server's configuration loader: defaults, an optional YAML config file, and
// SHAPELIFT_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config provides typed access to configuration values. A Config backed by
// a nil viper yields zero values rather than panicking.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load builds the server configuration: defaults first, then the config
// file at path (optional when path is empty), then SHAPELIFT_* environment
// variables, highest priority last.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("store.path", "shapelift.db")
	v.SetDefault("modules.dataset.cache_ttl", "5m")
	v.SetDefault("modules.dataset.seed_dir", "")

	v.SetEnvPrefix("SHAPELIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return v, nil
}

func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	if c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

func (c *Config) GetDuration(key string) time.Duration {
	if c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the configuration subtree under key. A missing subtree yields
// an empty Config, never nil.
func (c *Config) Sub(key string) *Config {
	if c.v == nil {
		return &Config{}
	}
	return &Config{v: c.v.Sub(key)}
}

// Unmarshal decodes the configuration into target via mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
