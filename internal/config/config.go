package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/babyvec/internal/vector"
)

const (
	DefaultGrowth   = "exact"
	DefaultFactor   = 2.0
	DefaultDataDir  = ".babyvec"
	DefaultLogLevel = "info"
	DefaultRuns     = 200
	DefaultMaxOps   = 64
	DefaultPushes   = 64
)

var (
	ErrInvalidRuns   = errors.New("config: check runs must be positive")
	ErrInvalidMaxOps = errors.New("config: check max_ops must be positive")
	ErrInvalidPushes = errors.New("config: growth pushes must be positive")
)

type Config struct {
	Growth   string      `yaml:"growth"`
	Factor   float64     `yaml:"factor"`
	DataDir  string      `yaml:"data_dir"`
	LogLevel string      `yaml:"log_level"`
	Pool     bool        `yaml:"pool"`
	Check    CheckConfig `yaml:"check"`
	Plot     PlotConfig  `yaml:"plot"`
}

type CheckConfig struct {
	Runs   int   `yaml:"runs"`
	MaxOps int   `yaml:"max_ops"`
	Seed   int64 `yaml:"seed"`
}

type PlotConfig struct {
	Pushes int `yaml:"pushes"`
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		Growth:   DefaultGrowth,
		Factor:   DefaultFactor,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Check: CheckConfig{
			Runs:   DefaultRuns,
			MaxOps: DefaultMaxOps,
		},
		Plot: PlotConfig{
			Pushes: DefaultPushes,
			Height: 12,
			Width:  72,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path over a copy of base. Keys the file leaves out keep
// base's values; base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := c.GrowthPolicy(); err != nil {
		return err
	}
	if c.Check.Runs <= 0 {
		return ErrInvalidRuns
	}
	if c.Check.MaxOps <= 0 {
		return ErrInvalidMaxOps
	}
	if c.Plot.Pushes <= 0 {
		return ErrInvalidPushes
	}
	return nil
}

// GrowthPolicy resolves the configured growth name and factor.
func (c *Config) GrowthPolicy() (vector.Growth, error) {
	return vector.ParseGrowth(c.Growth, c.Factor)
}
