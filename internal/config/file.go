package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout of a --config file. Pointer fields
// distinguish "absent" from the zero value.
type fileConfig struct {
	Extensions []string `yaml:"extensions"`
	Color      string   `yaml:"color"`
	LogFile    string   `yaml:"log_file"`
	Verbose    *bool    `yaml:"verbose"`
	FirstDir   *bool    `yaml:"first_dir"`
}

// LoadFile applies the YAML file at path to cfg. Keys missing from the file
// leave cfg unchanged.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(fc.Extensions) > 0 {
		cfg.Extensions = NormalizeExtensions(fc.Extensions)
	}
	if fc.Color != "" {
		cfg.ColorMode = ColorMode(fc.Color)
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.FirstDir != nil {
		cfg.FirstDirOnly = *fc.FirstDir
	}
	cfg.ConfigFile = path
	return nil
}
