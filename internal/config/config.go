// Package config holds the immutable parameters of a particle generation run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/san-kum/breathseed/internal/geom"
	"github.com/san-kum/breathseed/internal/record"
	"github.com/san-kum/breathseed/internal/sampler"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStepMs   = 5
	DefaultRunMs    = 200005
	DefaultCycleMs  = 5000
	DefaultExhaleMs = 2500

	DefaultMouthX     = 0.0015
	DefaultMouthYMin  = 3.351
	DefaultMouthYMax  = 3.391
	DefaultMouthZMin  = 1.678
	DefaultMouthZMax  = 1.6881
	DefaultMouthCount = 5

	DefaultRadius       = 0.001875
	DefaultNostrilCount = 2

	DefaultOutput = "ParticleInitial.dat"
	DefaultSchema = "full"

	EnvPrefix = "BREATHSEED_"
)

// DefaultNostrilRows places both nostrils; the mesh has them coincident.
var DefaultNostrilRows = [3][4]float64{
	{0.948, 0.000, -0.319, 0.00573},
	{0.000, 1.000, 0.000, -0.00875},
	{0.319, 0.000, 0.948, 1.71177},
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Seed    uint64        `yaml:"seed" toml:"seed" env:"SEED"`
	Debug   bool          `yaml:"debug" toml:"debug" env:"DEBUG"`
	Timing  TimingConfig  `yaml:"timing" toml:"timing" envPrefix:"TIMING_"`
	Mouth   MouthConfig   `yaml:"mouth" toml:"mouth" envPrefix:"MOUTH_"`
	Nostril NostrilConfig `yaml:"nostril" toml:"nostril" envPrefix:"NOSTRIL_"`
	Output  OutputConfig  `yaml:"output" toml:"output" envPrefix:"OUTPUT_"`
}

// TimingConfig is in integer milliseconds.
type TimingConfig struct {
	StepMs   int `yaml:"step_ms" toml:"step_ms" env:"STEP_MS"`
	RunMs    int `yaml:"run_ms" toml:"run_ms" env:"RUN_MS"`
	CycleMs  int `yaml:"cycle_ms" toml:"cycle_ms" env:"CYCLE_MS"`
	ExhaleMs int `yaml:"exhale_ms" toml:"exhale_ms" env:"EXHALE_MS"`
}

type MouthConfig struct {
	X     float64 `yaml:"x" toml:"x" env:"X"`
	YMin  float64 `yaml:"y_min" toml:"y_min" env:"Y_MIN"`
	YMax  float64 `yaml:"y_max" toml:"y_max" env:"Y_MAX"`
	ZMin  float64 `yaml:"z_min" toml:"z_min" env:"Z_MIN"`
	ZMax  float64 `yaml:"z_max" toml:"z_max" env:"Z_MAX"`
	Count int     `yaml:"count" toml:"count" env:"COUNT"`
}

type NostrilConfig struct {
	Radius     float64       `yaml:"radius" toml:"radius" env:"RADIUS"`
	Count      int           `yaml:"count" toml:"count" env:"COUNT"`
	MaxRetries int           `yaml:"max_retries" toml:"max_retries" env:"MAX_RETRIES"`
	Left       [3][4]float64 `yaml:"left" toml:"left"`
	Right      [3][4]float64 `yaml:"right" toml:"right"`
}

type OutputConfig struct {
	Path   string `yaml:"path" toml:"path" env:"PATH"`
	Schema string `yaml:"schema" toml:"schema" env:"SCHEMA"`
	Header bool   `yaml:"header" toml:"header" env:"HEADER"`
}

func DefaultConfig() *Config {
	return &Config{
		Timing: TimingConfig{
			StepMs:   DefaultStepMs,
			RunMs:    DefaultRunMs,
			CycleMs:  DefaultCycleMs,
			ExhaleMs: DefaultExhaleMs,
		},
		Mouth: MouthConfig{
			X:     DefaultMouthX,
			YMin:  DefaultMouthYMin,
			YMax:  DefaultMouthYMax,
			ZMin:  DefaultMouthZMin,
			ZMax:  DefaultMouthZMax,
			Count: DefaultMouthCount,
		},
		Nostril: NostrilConfig{
			Radius:     DefaultRadius,
			Count:      DefaultNostrilCount,
			MaxRetries: sampler.DefaultMaxRetries,
			Left:       DefaultNostrilRows,
			Right:      DefaultNostrilRows,
		},
		Output: OutputConfig{
			Path:   DefaultOutput,
			Schema: DefaultSchema,
			Header: true,
		},
	}
}

// Load reads a YAML or TOML file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from BREATHSEED_* variables, e.g.
// BREATHSEED_OUTPUT_PATH or BREATHSEED_TIMING_RUN_MS.
func (c *Config) ApplyEnv() error {
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}

// Clone returns a deep copy; all fields are values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) ExhaleFraction() float64 {
	if c.Timing.CycleMs == 0 {
		return 0
	}
	return float64(c.Timing.ExhaleMs) / float64(c.Timing.CycleMs)
}

func (c *Config) LeftTransform() geom.Affine  { return geom.FromRows(c.Nostril.Left) }
func (c *Config) RightTransform() geom.Affine { return geom.FromRows(c.Nostril.Right) }

func (c *Config) OutputSchema() (record.Schema, error) {
	return record.ParseSchema(c.Output.Schema)
}

// ParticlesPerStep is the batch size of an active step.
func (c *Config) ParticlesPerStep() int {
	return c.Mouth.Count + 2*c.Nostril.Count
}

// Validate reports every violated constraint at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	t := c.Timing
	if t.StepMs <= 0 {
		add("timing.step_ms must be positive, got %d", t.StepMs)
	}
	if t.RunMs <= 0 {
		add("timing.run_ms must be positive, got %d", t.RunMs)
	}
	if t.CycleMs <= 0 {
		add("timing.cycle_ms must be positive, got %d", t.CycleMs)
	}
	if t.ExhaleMs <= 0 || (t.CycleMs > 0 && t.ExhaleMs > t.CycleMs) {
		add("timing.exhale_ms must be in (0, cycle_ms], got %d", t.ExhaleMs)
	}

	m := c.Mouth
	if !(m.YMin < m.YMax) {
		add("mouth y range is empty: [%g, %g]", m.YMin, m.YMax)
	}
	if !(m.ZMin < m.ZMax) {
		add("mouth z range is empty: [%g, %g]", m.ZMin, m.ZMax)
	}
	if m.Count < 0 {
		add("mouth.count must not be negative, got %d", m.Count)
	}

	n := c.Nostril
	if !(n.Radius > 0) {
		add("nostril.radius must be positive, got %g", n.Radius)
	}
	if n.Count < 0 {
		add("nostril.count must not be negative, got %d", n.Count)
	}
	if n.MaxRetries <= 0 {
		add("nostril.max_retries must be positive, got %d", n.MaxRetries)
	}
	if err := c.LeftTransform().Validate(); err != nil {
		add("nostril.left: %w", err)
	}
	if err := c.RightTransform().Validate(); err != nil {
		add("nostril.right: %w", err)
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		add("output.path must not be empty")
	}
	if _, err := c.OutputSchema(); err != nil {
		add("output.schema: %w", err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
