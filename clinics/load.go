package clinics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TwiN/deepmerge"
	"gopkg.in/yaml.v3"
)

// Load reads the clinic configuration from path and merges the override files on top of it.
// Scalar values of an override replace the base value, lists are concatenated.
func Load(path string, overridePaths ...string) (*Config, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to read clinic config: %w", err)
	}

	overrides := make([][]byte, 0, len(overridePaths))
	for _, overridePath := range overridePaths {
		if overridePath == "" {
			continue
		}
		override, err := os.ReadFile(filepath.Clean(overridePath))
		if err != nil {
			return nil, fmt.Errorf("unable to read clinic config override: %w", err)
		}
		overrides = append(overrides, override)
	}

	return Parse(content, overrides...)
}

func Parse(content []byte, overrides ...[]byte) (*Config, error) {
	var err error
	for _, override := range overrides {
		content, err = deepmerge.YAML(content, override, deepmerge.Config{
			PreventMultipleDefinitionsOfKeysWithPrimitiveValue: false,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to merge clinic config override: %w", err)
		}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse clinic config: %w", err)
	}
	for name, clinic := range cfg.Clinics {
		clinic.Name = name
		cfg.Clinics[name] = clinic
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
