// Package config carries the knobs of a refinement run. Values come from a
// YAML file, flags, or both; flags win.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/clusolabs/cmgraph/pkg/connectivity"
)

var validate = validator.New()

// Config is the full configuration of a refinement run.
type Config struct {
	// Inputs
	Input              string `yaml:"input" validate:"required"`
	ExistingClustering string `yaml:"existing_clustering" validate:"required"`

	// Core parameters
	Threshold  string  `yaml:"threshold" validate:"required"`
	Score      string  `yaml:"score" validate:"oneof=mincut density"`
	Resolution float64 `yaml:"resolution" validate:"gt=0"`
	MaxRounds  int     `yaml:"max_rounds" validate:"gte=0"`
	Splitter   string  `yaml:"splitter" validate:"oneof=mincut components labelprop"`
	Prune      bool    `yaml:"prune"`
	Workers    int     `yaml:"workers" validate:"gte=1,lte=1024"`

	// Outputs
	Output    string `yaml:"output" validate:"required"`
	ReportCSV string `yaml:"report_csv"`
	ReportDB  string `yaml:"report_db"`
	Lineage   string `yaml:"lineage"`
	Compress  bool   `yaml:"compress"`

	// Observability
	MetricsListen string `yaml:"metrics_listen"`
	LogLevel      string `yaml:"log_level"`
	Quiet         bool   `yaml:"quiet"`
}

// Default returns the configuration defaults. Input, output and clustering
// paths have no defaults and must be supplied.
func Default() Config {
	return Config{
		Threshold:  "1log10",
		Score:      "mincut",
		Resolution: 1.0,
		MaxRounds:  20,
		Splitter:   "mincut",
		Prune:      true,
		Workers:    1,
		LogLevel:   "info",
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks struct constraints plus the threshold selector syntax.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config: field %s failed %q (value %v)", e.Field(), e.Tag(), e.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if _, err := connectivity.ParseThreshold(c.Threshold); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
