package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rustyeddy/ind/engine"
	"github.com/rustyeddy/ind/journal"
	"github.com/rustyeddy/ind/session"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	Input   InputConfig    `json:"input" yaml:"input"`
	Output  OutputConfig   `json:"output" yaml:"output"`
	Session SessionConfig  `json:"session" yaml:"session"`
	Battery engine.Battery `json:"battery" yaml:"battery"`
	Run     RunConfig      `json:"run" yaml:"run"`
	Log     LogConfig      `json:"log" yaml:"log"`
}

// InputConfig says where price files come from
type InputConfig struct {
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"` // overrides folder
	// Timezone applies to timestamps that carry no zone.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// OutputConfig says where enriched series go
type OutputConfig struct {
	Folder    string `json:"folder,omitempty" yaml:"folder,omitempty"` // default "<input>_ind"
	Format    string `json:"format" yaml:"format"`                     // "csv" or "sqlite"
	Precision int    `json:"precision" yaml:"precision"`               // decimals for indicator values, -1 for all
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// SessionConfig controls how rows group into sessions for VWAP, pivots,
// volume profile and gaps.
type SessionConfig struct {
	Granularity string `json:"granularity" yaml:"granularity"` // hour, day, week, month
	Timezone    string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Offset      string `json:"offset,omitempty" yaml:"offset,omitempty"` // e.g. "17h"
}

// RunConfig contains batch execution parameters
type RunConfig struct {
	Workers     int    `json:"workers" yaml:"workers"`                               // files in flight
	Schedule    string `json:"schedule,omitempty" yaml:"schedule,omitempty"`         // cron spec for "ind schedule"
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"` // prometheus textfile
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format     string `json:"format" yaml:"format"` // console or json
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to
// JSON). Missing sections keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Folder == "" && c.Input.File == "" {
		return fmt.Errorf("input.folder or input.file is required")
	}
	if _, err := loadLocation(c.Input.Timezone); err != nil {
		return fmt.Errorf("input.timezone: %w", err)
	}

	switch c.Output.Format {
	case journal.FormatCSV:
	case journal.FormatSQLite:
		if c.Output.DBPath == "" {
			return fmt.Errorf("output.db_path required for sqlite format")
		}
	default:
		return fmt.Errorf("output.format must be 'csv' or 'sqlite'")
	}
	if c.Output.Precision < -1 || c.Output.Precision > 15 {
		return fmt.Errorf("output.precision must be between -1 and 15")
	}

	if _, err := c.Session.Partitioner(); err != nil {
		return err
	}
	if err := c.Battery.Validate(); err != nil {
		return err
	}

	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must not be negative")
	}
	if c.Run.Schedule != "" {
		if _, err := cron.ParseStandard(c.Run.Schedule); err != nil {
			return fmt.Errorf("run.schedule: %w", err)
		}
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Location is the zone for input timestamps without one.
func (c InputConfig) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

// OutputFolder resolves the CSV destination: the configured folder, or
// the input folder with "_ind" appended.
func (c *Config) OutputFolder() string {
	if c.Output.Folder != "" {
		return c.Output.Folder
	}
	src := c.Input.Folder
	if c.Input.File != "" {
		src = filepath.Dir(c.Input.File)
	}
	return filepath.Clean(src) + "_ind"
}

// Partitioner builds the session partitioner.
func (c SessionConfig) Partitioner() (session.Partitioner, error) {
	g, err := session.ParseGranularity(c.Granularity)
	if err != nil {
		return session.Partitioner{}, fmt.Errorf("session.granularity: %w", err)
	}
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return session.Partitioner{}, fmt.Errorf("session.timezone: %w", err)
	}
	var off time.Duration
	if c.Offset != "" {
		off, err = time.ParseDuration(c.Offset)
		if err != nil {
			return session.Partitioner{}, fmt.Errorf("session.offset: %w", err)
		}
	}
	return session.Partitioner{Granularity: g, Location: loc, Offset: off}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Folder:   "data",
			Timezone: "UTC",
		},
		Output: OutputConfig{
			Format:    journal.FormatCSV,
			Precision: 4,
		},
		Session: SessionConfig{
			Granularity: string(session.Day),
			Timezone:    "UTC",
		},
		Battery: engine.DefaultBattery(),
		Run: RunConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
