/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/text"
)

// Config represents the embview configuration
type Config struct {
	DataDir string  `yaml:"data_dir"`
	Text    Text    `yaml:"text"`
	Check   Check   `yaml:"check"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Text holds the default text output options
type Text struct {
	Multiline     bool   `yaml:"multiline"`
	Indent        string `yaml:"indent"`
	Comments      bool   `yaml:"comments"`
	NumericBase   int    `yaml:"numeric_base"`
	DigitGrouping bool   `yaml:"digit_grouping"`
}

// Check selects what checked operations do on failure
type Check struct {
	Policy string `yaml:"policy"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Metrics contains metrics export configuration
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Text: Text{
			Indent:      "  ",
			NumericBase: 10,
		},
		Check: Check{
			Policy: check.Report.String(),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Text.NumericBase {
	case 2, 10, 16:
	default:
		return errors.Newf("text.numeric_base must be 2, 10 or 16, got %d", c.Text.NumericBase)
	}
	if _, err := check.ParsePolicy(c.Check.Policy); err != nil {
		return errors.Wrap(err, "check.policy")
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return errors.Newf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// TextOptions converts the text settings to output options
func (c *Config) TextOptions() text.Options {
	return text.DefaultOptions().
		WithMultiline(c.Text.Multiline).
		WithIndent(c.Text.Indent).
		WithComments(c.Text.Comments).
		WithNumericBase(c.Text.NumericBase).
		WithDigitGrouping(c.Text.DigitGrouping)
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	// Unset keys keep their defaults.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath, with
// dataDir overriding the default data directory when set.
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, errors.Wrap(err, "failed to save bootstrap config")
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./embview.yaml"
	}

	// For Linux/macOS, use ~/.config/embview/config.yaml
	configDir := filepath.Join(homeDir, ".config", "embview")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
