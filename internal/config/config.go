// Package config loads application settings. Values are layered in order:
// built-in defaults, an optional YAML file, then OTTO_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the files searched when OTTO_CONFIG is unset.
// The first file found is used.
var DefaultConfigPaths = []string{
	"ottomeasure.yaml",
	"ottomeasure.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "OTTO_CONFIG"

// EnvPrefix is stripped from environment variable names before mapping
// them to config keys.
const EnvPrefix = "OTTO_"

// Config is the full application configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Server  ServerConfig  `koanf:"server"`
	Display DisplayConfig `koanf:"display"`
	Speech  SpeechConfig  `koanf:"speech"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=off normal verbose"`
	File   string `koanf:"file"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// StorageConfig selects the recipe source.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"oneof=memory sqlite"`
	Path   string `koanf:"path" validate:"required_if=Driver sqlite"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

// DisplayConfig holds the mode new view sessions are switched to and how
// long an untouched view stays open. A zero IdleTimeout keeps views open.
type DisplayConfig struct {
	Mode        string        `koanf:"mode" validate:"oneof=original metric imperial"`
	IdleTimeout time.Duration `koanf:"idle_timeout" validate:"gte=0"`
}

// SpeechConfig enables reading ingredients aloud through Azure TTS.
type SpeechConfig struct {
	Enabled bool   `koanf:"enabled"`
	Key     string `koanf:"key" validate:"required_if=Enabled true"`
	Region  string `koanf:"region" validate:"required_if=Enabled true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "normal",
			File:   "ottomeasure.log",
			Format: "console",
		},
		Storage: StorageConfig{
			Driver: "memory",
			Path:   "ottomeasure.db",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Display: DisplayConfig{
			Mode:        "original",
			IdleTimeout: 2 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// OTTO_LOG_LEVEL -> log.level, OTTO_SPEECH_KEY -> speech.key
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransformFunc maps OTTO_SECTION_KEY to section.key. Only the first
// underscore separates the section so keys may contain underscores.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return ""
	}
	return section + "." + rest
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks every field against its validate tag and reports each
// failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(msgs...)
}
