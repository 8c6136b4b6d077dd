package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete configuration for jsontree
type Config struct {
	Output OutputConfig `yaml:"output"`
	Keys   KeysConfig   `yaml:"keys"`
	Enums  []EnumRule   `yaml:"enums"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls how documents are written
type OutputConfig struct {
	Format string `yaml:"format"`
	Indent string `yaml:"indent"`
	Color  string `yaml:"color"`
}

// KeysConfig controls key rewriting
type KeysConfig struct {
	// Case is one of snake, camel, lower_camel or kebab. Empty leaves keys alone.
	Case string `yaml:"case"`
}

// EnumRule restricts the values of members whose key matches Pattern
type EnumRule struct {
	Pattern string   `yaml:"pattern"`
	Values  []string `yaml:"values"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatJSON,
			Indent: "  ",
			Color:  ColorAuto,
		},
		Enums: []EnumRule{},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format '%s' (want json or yaml)", c.Output.Format)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode '%s' (want auto, always or never)", c.Output.Color)
	}
	if _, err := KeyCaseFunc(c.Keys.Case); err != nil {
		return err
	}
	return nil
}

func (c *Config) compilePatterns() error {
	for i := range c.Enums {
		rule := &c.Enums[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid enum pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesKey checks if this enum rule applies to the given member key
func (er *EnumRule) MatchesKey(key string) bool {
	if er.regex == nil {
		regex, err := regexp.Compile(er.Pattern)
		if err != nil {
			return false
		}
		er.regex = regex
	}
	return er.regex.MatchString(key)
}

// FindEnum returns the first enum rule matching key
func (c *Config) FindEnum(key string) (EnumRule, bool) {
	for i := range c.Enums {
		if c.Enums[i].MatchesKey(key) {
			return c.Enums[i], true
		}
	}
	return EnumRule{}, false
}

// KeyCaseFunc maps a case name to a key rewriting function. The empty name
// returns nil.
func KeyCaseFunc(name string) (func(string) string, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "":
		return nil, nil
	case "snake":
		return strcase.ToSnake, nil
	case "camel", "pascal":
		return strcase.ToCamel, nil
	case "lower_camel":
		return strcase.ToLowerCamel, nil
	case "kebab":
		return strcase.ToKebab, nil
	default:
		return nil, fmt.Errorf("unknown key case '%s' (want snake, camel, lower_camel or kebab)", name)
	}
}

// Overrides holds CLI values that take precedence over the config file.
// Empty strings and false leave the file value in place.
type Overrides struct {
	Format  string
	Indent  *string
	Color   string
	KeyCase string
	Debug   bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	if o.Indent != nil {
		cfg.Output.Indent = *o.Indent
	}
	if o.Color != "" {
		cfg.Output.Color = o.Color
	}
	if o.KeyCase != "" {
		cfg.Keys.Case = o.KeyCase
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
