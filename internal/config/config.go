// Package config loads the YAML run configuration and applies environment
// overrides. A .env file next to the working directory is honored, then
// AVATARSET_* variables win over the file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is one assembly run configuration.
type Config struct {
	ImportRoot      string `yaml:"import_root"`
	ExportDir       string `yaml:"export_dir"`
	Combinations    int    `yaml:"combinations"`
	Seed            int64  `yaml:"seed"`
	Extension       string `yaml:"extension"`
	ExportExtension string `yaml:"export_extension"`
	TextureVariants bool   `yaml:"texture_variants"`
}

const (
	defaultCombinations    = 10
	defaultExtension       = "fbx"
	defaultExportExtension = "glb"
)

// Default returns a config with the documented defaults and no paths set.
func Default() *Config {
	return &Config{
		Combinations:    defaultCombinations,
		Extension:       defaultExtension,
		ExportExtension: defaultExportExtension,
	}
}

// Loader handles loading and validating YAML configuration files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a YAML configuration file
func (l *Loader) Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.ApplyEnv(config); err != nil {
		return nil, err
	}

	if err := l.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Convert relative paths to absolute paths (relative to config file)
	configDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of config directory: %w", err)
	}
	if !filepath.IsAbs(config.ImportRoot) {
		config.ImportRoot = filepath.Join(configDir, config.ImportRoot)
	}
	if !filepath.IsAbs(config.ExportDir) {
		config.ExportDir = filepath.Join(configDir, config.ExportDir)
	}

	return config, nil
}

// ApplyEnv overlays AVATARSET_* environment variables on the config. A .env
// file in the working directory is loaded first when present.
func (l *Loader) ApplyEnv(config *Config) error {
	_ = godotenv.Load()

	if v := os.Getenv("AVATARSET_IMPORT_ROOT"); v != "" {
		config.ImportRoot = v
	}
	if v := os.Getenv("AVATARSET_EXPORT_DIR"); v != "" {
		config.ExportDir = v
	}
	if v := os.Getenv("AVATARSET_COMBINATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AVATARSET_COMBINATIONS must be an integer: %w", err)
		}
		config.Combinations = n
	}
	if v := os.Getenv("AVATARSET_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AVATARSET_SEED must be an integer: %w", err)
		}
		config.Seed = n
	}
	if v := os.Getenv("AVATARSET_EXTENSION"); v != "" {
		config.Extension = v
	}
	if v := os.Getenv("AVATARSET_EXPORT_EXTENSION"); v != "" {
		config.ExportExtension = v
	}
	if v := os.Getenv("AVATARSET_TEXTURE_VARIANTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AVATARSET_TEXTURE_VARIANTS must be a boolean: %w", err)
		}
		config.TextureVariants = b
	}
	return nil
}

// Validate checks if the configuration is valid
func (l *Loader) Validate(config *Config) error {
	if config.ImportRoot == "" {
		return fmt.Errorf("import_root must be specified")
	}
	if config.ExportDir == "" {
		return fmt.Errorf("export_dir must be specified")
	}
	if config.Combinations < 1 {
		return fmt.Errorf("combinations must be at least 1")
	}
	if config.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	if config.ExportExtension == "" {
		return fmt.Errorf("export_extension must not be empty")
	}
	return nil
}
