package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the public REST fixture service.
	DefaultAPIBaseURL = "https://jsonplaceholder.typicode.com"
	// DefaultUploadURL is the public demo page with the file upload form.
	DefaultUploadURL = "https://the-internet.herokuapp.com/upload"
)

// Config holds everything a runner needs to know about its environment.
// Runners receive a Config at construction time; nothing reads globals.
type Config struct {
	// APIBaseURL is the base URL every HTTP scenario path is joined to.
	APIBaseURL string `yaml:"api_base_url" env:"PROBE_API_BASE_URL"`

	// UploadURL is the address of the upload page driven by the browser runner.
	UploadURL string `yaml:"upload_url" env:"PROBE_UPLOAD_URL"`

	// Timeout bounds every single network call and browser operation.
	Timeout time.Duration `yaml:"timeout" env:"PROBE_TIMEOUT"`

	// NetworkIdle is how long the page must have no in-flight requests
	// before it is considered idle.
	NetworkIdle time.Duration `yaml:"network_idle" env:"PROBE_NETWORK_IDLE"`

	// Browser options
	Headless   bool   `yaml:"headless" env:"PROBE_HEADLESS"`
	ChromePath string `yaml:"chrome_path" env:"PROBE_CHROME_PATH"`

	// FixtureFile is the local file used as upload payload, relative to the
	// directory the suite runs from.
	FixtureFile string `yaml:"fixture_file" env:"PROBE_FIXTURE_FILE"`

	// Live makes the scenario suites target the URLs above instead of the
	// in-process doubles.
	Live bool `yaml:"live" env:"PROBE_LIVE"`
}

// DefaultConfig returns a Config populated with the public service URLs and
// generous timeouts.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		UploadURL:   DefaultUploadURL,
		Timeout:     30 * time.Second,
		NetworkIdle: 500 * time.Millisecond,
		Headless:    true,
		FixtureFile: "testdata/sample-upload.txt",
	}
}

// LoadConfig starts from DefaultConfig, merges the YAML file at path (if path
// is non-empty) and finally applies PROBE_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(nil); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is LoadConfig with the file path taken from PROBE_CONFIG.
func FromEnv() (Config, error) {
	return LoadConfig(os.Getenv("PROBE_CONFIG"))
}

// applyEnv overrides fields from PROBE_* variables in environ, or from the
// process environment when environ is nil. Unset and empty variables leave
// the field as it is.
func (c *Config) applyEnv(environ map[string]string) error {
	if err := env.ParseWithOptions(c, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("PROBE_* environment: %w", err)
	}
	return nil
}

// Validate reports configuration that no runner could work with.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.NetworkIdle < 0 {
		return fmt.Errorf("network idle must not be negative, got %s", c.NetworkIdle)
	}
	for name, u := range map[string]string{"api_base_url": c.APIBaseURL, "upload_url": c.UploadURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, u)
		}
	}
	return nil
}
