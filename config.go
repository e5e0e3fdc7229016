package qf

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRenormalizeEvery bounds the gate applications between renormalizations.
const DefaultRenormalizeEvery = 64

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	NumQubits int    `yaml:"qubits"`
	Init      string `yaml:"init"`
	Seed      uint64 `yaml:"seed"`

	// Regex treats the program passed to Parse as a pattern and runs one
	// string drawn from it.
	Regex            bool `yaml:"regex"`
	RegexRepeatLimit int  `yaml:"regex_repeat_limit"`

	Debug bool `yaml:"debug"`

	// MaxSteps caps dispatched commands per Parse call. 0 means unbounded.
	MaxSteps int `yaml:"max_steps"`

	NoiseRate        float64 `yaml:"noise_rate"`
	RenormalizeEvery int     `yaml:"renormalize_every"`
}

func NewConfig() *Config {
	return &Config{
		NumQubits:        2,
		RegexRepeatLimit: DefaultRepeatLimit,
		NoiseRate:        DefaultNoiseRate,
		RenormalizeEvery: DefaultRenormalizeEvery,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.NumQubits < 1:
		return fmt.Errorf("%w: qubits must be positive, got %d", ErrInvalidConfig, cfg.NumQubits)
	case cfg.NumQubits > MaxDenseQubits:
		return fmt.Errorf("%w: %d qubits exceeds the dense limit of %d", ErrInvalidConfig, cfg.NumQubits, MaxDenseQubits)
	case cfg.MaxSteps < 0:
		return fmt.Errorf("%w: max_steps must not be negative", ErrInvalidConfig)
	case cfg.NoiseRate < 0 || cfg.NoiseRate > 1:
		return fmt.Errorf("%w: noise_rate %v not in [0, 1]", ErrInvalidConfig, cfg.NoiseRate)
	case cfg.RegexRepeatLimit < 0:
		return fmt.Errorf("%w: regex_repeat_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// MaxDenseQubits keeps a dense vector within a few hundred megabytes.
const MaxDenseQubits = 24
