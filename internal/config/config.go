package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for serve mode.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// DataDir is scanned recursively for league JSON files.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// OutputDir receives one <team>.ics per team, namespaced by league id.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// MatchMinutes is the fixed event length in minutes.
	MatchMinutes int `yaml:"match_minutes" json:"match_minutes"`

	// TimezoneDefault applies to league files that omit "timezone".
	TimezoneDefault string `yaml:"timezone_default" json:"timezone_default"`

	// RefreshCron is the regeneration schedule for watch mode,
	// in cron syntax (e.g. "@hourly", "*/30 * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Listen is the HTTP listen address for serve mode.
	Listen string `yaml:"listen" json:"listen"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:         "./data",
		OutputDir:       "./calendar",
		MatchMinutes:    120,
		TimezoneDefault: "Asia/Shanghai",
		RefreshCron:     "@hourly",
		Listen:          "127.0.0.1:8080",
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values so partially filled config files
// still behave correctly.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./calendar"
	}
	if c.MatchMinutes <= 0 {
		c.MatchMinutes = 120
	}
	if c.TimezoneDefault == "" {
		c.TimezoneDefault = "Asia/Shanghai"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "@hourly"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
}

// MatchDuration returns the fixed event length.
func (c *Config) MatchDuration() time.Duration {
	return time.Duration(c.MatchMinutes) * time.Minute
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating
// the parent directory if needed) and returned. Otherwise the file is
// unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the target
// directory, 0600 permissions, then rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cslcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
