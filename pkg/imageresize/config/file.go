package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// WithFile applies settings from a YAML configuration file. Keys absent from
// the file keep their current values.
func WithFile(path string) Option {
	return func(c *Config) error {
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// LoadExtensions reads a YAML map of content type to file extension
func LoadExtensions(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extension table: %w", err)
	}
	table := map[string]string{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse extension table %s: %w", path, err)
	}
	return table, nil
}
