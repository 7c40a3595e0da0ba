package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFileLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ottomeasure.yaml")
	doc := `
log:
  level: verbose
storage:
  driver: sqlite
  path: /tmp/recipes.db
display:
  mode: metric
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("OTTO_SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("OTTO_LOG_LEVEL", "off")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"env beats file", cfg.Log.Level, "off"},
		{"file beats default", cfg.Storage.Driver, "sqlite"},
		{"file value", cfg.Display.Mode, "metric"},
		{"env only", cfg.Server.Addr, "0.0.0.0:9090"},
		{"default kept", cfg.Log.Format, "console"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoadIdleTimeout(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.IdleTimeout != 2*time.Hour {
		t.Errorf("default idle timeout = %s", cfg.Display.IdleTimeout)
	}

	t.Setenv("OTTO_DISPLAY_IDLE_TIMEOUT", "30m")
	cfg, err = LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.IdleTimeout != 30*time.Minute {
		t.Errorf("idle timeout = %s, want 30m", cfg.Display.IdleTimeout)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Log.Level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "Log.Format"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "postgres" }, "Storage.Driver"},
		{"sqlite needs path", func(c *Config) { c.Storage.Driver = "sqlite"; c.Storage.Path = "" }, "Storage.Path"},
		{"bad mode", func(c *Config) { c.Display.Mode = "nautical" }, "Display.Mode"},
		{"bad addr", func(c *Config) { c.Server.Addr = "nope" }, "Server.Addr"},
		{"speech needs key", func(c *Config) { c.Speech.Enabled = true; c.Speech.Region = "eastus" }, "Speech.Key"},
		{"valid speech", func(c *Config) { c.Speech.Enabled = true; c.Speech.Key = "k"; c.Speech.Region = "eastus" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]string{
		"OTTO_LOG_LEVEL":      "log.level",
		"OTTO_STORAGE_PATH":   "storage.path",
		"OTTO_SPEECH_ENABLED": "speech.enabled",
		"OTTO_CONFIG":         "",
		"OTTO_NOSECTION":      "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
