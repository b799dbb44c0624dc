// Package config provides run-parameter loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultMasterName is the master CSV filename used when none is configured.
const DefaultMasterName = "comments_master_table.csv"

// Config represents the parameters of one ingestion run. Values can come from
// CLI flags, a YAML config file, or the environment; flags win. Core packages
// never read this struct; the pipeline takes plain parameters.
type Config struct {
	// Paths
	InDir      string `yaml:"in_dir" validate:"required,dir"`
	OutDir     string `yaml:"out_dir" validate:"required"`
	MasterName string `yaml:"master_name" validate:"required"`

	// Optional Postgres archive of merged rows.
	DatabaseURL string `yaml:"database_url,omitempty" validate:"omitempty,uri"`

	// Behavior
	Strict  bool `yaml:"strict,omitempty"`  // drop records failing the JSON Schema
	Verbose bool `yaml:"verbose,omitempty"` // print boxed run summaries
}

var validate = validator.New()

// LoadFile loads configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// Validate checks the merged configuration. The `dir` tag on InDir makes a
// missing input directory a configuration error, which is the only condition
// that aborts a run before any work is attempted.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		if first.Field() == "InDir" && first.Tag() == "dir" {
			return fmt.Errorf("config error: input directory not found: %s", c.InDir)
		}
		return fmt.Errorf("config error: field %s failed %q validation", first.Field(), first.Tag())
	}
	return fmt.Errorf("config error: %w", err)
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Used to apply config-file values underneath CLI flags; bool
// fields cannot distinguish unset from false, so a true from either source
// sticks.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.InDir == "" {
		result.InDir = defaults.InDir
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.MasterName == "" {
		result.MasterName = defaults.MasterName
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if !result.Strict {
		result.Strict = defaults.Strict
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
