// Package config loads construction-time configuration for the store core:
// the object-store bucket and credentials, and the on-disk cache location.
// Env vars override the config file, which overrides defaults; the loaded
// result is validated with go-playground/validator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the construction-time configuration required by docstore and
// liststore: object-store identity/credentials and the cache's storage
// location. The cache is an embedded store (badger) rather than a network
// cache, so its config is a directory path instead of host/port.
type Config struct {
	ObjectStore ObjectStoreConfig `mapstructure:"object_store" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache" validate:"required"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ObjectStoreConfig configures the S3-compatible backend.
type ObjectStoreConfig struct {
	Bucket         string        `mapstructure:"bucket" validate:"required"`
	Region         string        `mapstructure:"region" validate:"required"`
	Endpoint       string        `mapstructure:"endpoint"`
	AccessKey      string        `mapstructure:"access_key"`
	SecretKey      string        `mapstructure:"secret_key"`
	ForcePathStyle bool          `mapstructure:"force_path_style"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig configures the embedded byte cache.
type CacheConfig struct {
	Dir      string `mapstructure:"dir" validate:"required_without=InMemory"`
	InMemory bool   `mapstructure:"in_memory"`
}

// LoggingConfig controls logger output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from defaults, configPath (YAML/TOML), and
// environment variables prefixed LISTSTORE_, in that order of increasing
// precedence, then validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate runs struct-tag validation over cfg.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("LISTSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(".")
	v.SetConfigName("liststore")
	v.SetConfigType("yaml")
}

// decodeHooks converts config-file shorthands into their typed fields;
// today that is duration strings like "30s" for request_timeout.
func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// applyDefaults registers a default for every key. Registration matters
// beyond the values themselves: viper only merges environment overrides
// into Unmarshal for keys it already knows about, so even the
// no-sensible-default keys get an empty-string default here.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("object_store.bucket", "")
	v.SetDefault("object_store.endpoint", "")
	v.SetDefault("object_store.access_key", "")
	v.SetDefault("object_store.secret_key", "")
	v.SetDefault("object_store.region", "us-east-1")
	v.SetDefault("object_store.force_path_style", false)
	v.SetDefault("object_store.request_timeout", "30s")
	v.SetDefault("cache.dir", filepath.Join(os.TempDir(), "liststore-cache"))
	v.SetDefault("cache.in_memory", false)
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("metrics.enabled", false)
}
