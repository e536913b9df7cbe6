package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsontidy
type Config struct {
	Parsing   ParsingConfig   `yaml:"parsing"`
	Rendering RenderingConfig `yaml:"rendering"`
	Dev       DevConfig       `yaml:"dev"`
}

// ParsingConfig controls separator handling
type ParsingConfig struct {
	// Strict requires commas between entries and rejects trailing commas
	// and trailing data after the root value.
	Strict bool `yaml:"strict"`
}

// RenderingConfig controls pretty-printer output
type RenderingConfig struct {
	Indent   int  `yaml:"indent"`
	SortKeys bool `yaml:"sort_keys"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parsing: ParsingConfig{
			Strict: false,
		},
		Rendering: RenderingConfig{
			Indent:   2,
			SortKeys: true,
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontidy.yml", ".jsontidy.yaml", "jsontidy.yml", "jsontidy.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks configuration values for consistency
func (c *Config) Validate() error {
	if c.Rendering.Indent < 0 {
		return fmt.Errorf("rendering.indent must not be negative, got %d", c.Rendering.Indent)
	}
	return nil
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// CLI values override file values only when they differ from the defaults,
// so a config file still applies when flags are left at their defaults.
func LoadConfigWithCLI(configPath string, cliStrict bool, cliIndent int, cliSortKeys bool) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Apply CLI overrides only if they're not the default values
	if cliStrict {
		cfg.Parsing.Strict = true
	}
	if cliIndent != 0 && cliIndent != 2 {
		cfg.Rendering.Indent = cliIndent
	}
	if !cliSortKeys {
		cfg.Rendering.SortKeys = false
	}

	return cfg, nil
}
