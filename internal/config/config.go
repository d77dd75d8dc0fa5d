package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/filer/internal/scheme"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// WatchConfig controls the filesystem change watcher.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce,omitempty"`
}

// DebounceDuration parses the debounce interval, defaulting to 200ms.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	if w.Debounce == "" {
		return 200 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce %q: %w", w.Debounce, err)
	}
	return d, nil
}

// Config is the filer project configuration.
type Config struct {
	// Scheme names the path scheme the backend speaks.
	Scheme string `yaml:"scheme"`
	// Anchor is the native directory the OS backend is rooted at. Empty
	// means the in-memory backend.
	Anchor  string      `yaml:"anchor,omitempty"`
	Cache   bool        `yaml:"cache"`
	Watch   WatchConfig `yaml:"watch"`
	Verbose bool        `yaml:"verbose"`
}

const ConfigFileName = "filer.yaml"

// Load reads filer.yaml from sourcePath and applies FILER_* environment
// overrides. A .env file in the working directory is honored first,
// so overrides work the same from a shell or a dotenv file.
func Load(sourcePath string) (*Config, error) {
	_ = godotenv.Load()

	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FILER_SCHEME"); v != "" {
		c.Scheme = v
	}
	if v := os.Getenv("FILER_ANCHOR"); v != "" {
		c.Anchor = v
	}
	if v := os.Getenv("FILER_VERBOSE"); v != "" {
		c.Verbose = parseBool(v, c.Verbose)
	}
	if v := os.Getenv("FILER_CACHE"); v != "" {
		c.Cache = parseBool(v, c.Cache)
	}
	if v := os.Getenv("FILER_WATCH"); v != "" {
		c.Watch.Enabled = parseBool(v, c.Watch.Enabled)
	}
	if v := os.Getenv("FILER_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
}

func parseBool(text string, fallback bool) bool {
	b, err := strconv.ParseBool(text)
	if err != nil {
		return fallback
	}
	return b
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Scheme == "" {
		errs = append(errs, errors.New("scheme is required"))
	} else if _, err := scheme.ForName(c.Scheme); err != nil {
		errs = append(errs, err)
	}
	if c.Anchor != "" {
		if info, err := os.Stat(c.Anchor); err != nil {
			errs = append(errs, fmt.Errorf("anchor %q: %w", c.Anchor, err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("anchor %q is not a directory", c.Anchor))
		}
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
