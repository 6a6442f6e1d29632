// Package config loads waypoint settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DirName        = ".waypoint"
	FileName       = "config.yaml"
	DefaultSession = "cli"
)

// Config holds the runtime configuration.
type Config struct {
	DBPath      string   `yaml:"db_path"`
	HTTPAddr    string   `yaml:"http_addr"`
	LogMode     string   `yaml:"log_mode"`
	SessionID   string   `yaml:"session_id"`
	Timezone    string   `yaml:"timezone"`
	CORSOrigins []string `yaml:"cors_origins"`
	// CurriculumFile is imported by `waypoint import` when no path is given.
	CurriculumFile string `yaml:"curriculum_file,omitempty"`
}

// Default returns a Config rooted at home.
func Default(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, DirName, "waypoint.db"),
		HTTPAddr:  "127.0.0.1:8080",
		LogMode:   "dev",
		SessionID: DefaultSession,
		Timezone:  "UTC",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
	}
}

// Load reads the config file at $WAYPOINT_CONFIG or ~/.waypoint/config.yaml,
// falling back to defaults when it does not exist, then applies environment
// overrides.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	path := os.Getenv("WAYPOINT_CONFIG")
	if path == "" {
		path = filepath.Join(home, DirName, FileName)
	}
	cfg, err := LoadFile(path, Default(home))
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto base. A missing file is not an error.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WAYPOINT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WAYPOINT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("WAYPOINT_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("WAYPOINT_SESSION"); v != "" {
		cfg.SessionID = v
	}
	if v := os.Getenv("WAYPOINT_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("WAYPOINT_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
}

var (
	ErrEmptyDBPath     = errors.New("db_path must be set")
	ErrInvalidLogMode  = errors.New("log_mode must be dev or prod")
	ErrInvalidTimezone = errors.New("unknown timezone")
)

func (c Config) Validate() error {
	if c.DBPath == "" {
		return ErrEmptyDBPath
	}
	switch strings.ToLower(c.LogMode) {
	case "dev", "prod", "production", "development":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogMode, c.LogMode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; stats use it for day boundaries.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidTimezone, c.Timezone)
	}
	return loc, nil
}

// Session returns the configured view session id, or the CLI default.
func (c Config) Session() string {
	if c.SessionID == "" {
		return DefaultSession
	}
	return c.SessionID
}
