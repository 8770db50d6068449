package bucketvec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/bucketvec/growth"
	"gopkg.in/yaml.v3"
)

// Config holds the growth parameters of a container.
type Config struct {
	// StartCapacity is the capacity of the first segment (>= 1).
	StartCapacity int `yaml:"start_capacity" json:"start_capacity"`
	// GrowthRate multiplies the capacity of each following segment (>= 1.0).
	// 1.0 gives equally sized segments, 2.0 doubles every segment.
	GrowthRate float64 `yaml:"growth_rate" json:"growth_rate"`
}

// DefaultConfig returns a start capacity of 4 with doubling segments.
func DefaultConfig() Config {
	return Config{
		StartCapacity: growth.DefaultStartCapacity,
		GrowthRate:    growth.DefaultGrowthRate,
	}
}

// Validate reports whether the parameters describe a usable growth policy.
// Invalid values are rejected, never clamped.
func (c Config) Validate() error {
	return invalidConfig(growth.Validate(c.StartCapacity, c.GrowthRate))
}

// Policy builds the growth policy for the configuration.
func (c Config) Policy() (growth.Policy, error) {
	p, err := growth.New(c.StartCapacity, c.GrowthRate)
	if err != nil {
		return nil, invalidConfig(err)
	}
	return p, nil
}

// ParseConfig decodes a YAML document. Missing fields (or an empty document)
// keep their defaults; unknown fields are an error.
//
//	start_capacity: 16
//	growth_rate: 1.5
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
