// Package config loads compiler settings from defaults, an optional YAML
// file and NLC_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidIndent    = errors.New("render.indent must be between 1 and 8")
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidExtension = errors.New("extensions must start with a dot")
)

const (
	// FileName is the config file looked up when no path is given.
	FileName = ".nlc.yaml"

	defaultIndent  = 4
	defaultWorkers = 4
	maxIndent      = 8
)

// Config holds every setting of the compiler and its batch surface.
type Config struct {
	Name           string       `mapstructure:"name" yaml:"name"`
	RulesFile      string       `mapstructure:"rules_file" yaml:"rules_file,omitempty"`
	IdiomsFile     string       `mapstructure:"idioms_file" yaml:"idioms_file,omitempty"`
	LexiconFile    string       `mapstructure:"lexicon_file" yaml:"lexicon_file,omitempty"`
	Render         RenderConfig `mapstructure:"render" yaml:"render"`
	ValidateSyntax bool         `mapstructure:"validate_syntax" yaml:"validate_syntax"`
	Workers        int          `mapstructure:"workers" yaml:"workers"`
	Extensions     []string     `mapstructure:"extensions" yaml:"extensions"`
}

// RenderConfig controls the generated source.
type RenderConfig struct {
	Indent     int  `mapstructure:"indent" yaml:"indent"`
	TypeHints  bool `mapstructure:"type_hints" yaml:"type_hints"`
	Docstrings bool `mapstructure:"docstrings" yaml:"docstrings"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Name: "nlc",
		Render: RenderConfig{
			Indent:     defaultIndent,
			TypeHints:  true,
			Docstrings: true,
		},
		Workers:    defaultWorkers,
		Extensions: []string{".nl", ".txt"},
	}
}

// Load reads path, or FileName from the working or home directory when
// path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("NLC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("name", d.Name)
	v.SetDefault("rules_file", "")
	v.SetDefault("idioms_file", "")
	v.SetDefault("lexicon_file", "")
	v.SetDefault("render.indent", d.Render.Indent)
	v.SetDefault("render.type_hints", d.Render.TypeHints)
	v.SetDefault("render.docstrings", d.Render.Docstrings)
	v.SetDefault("validate_syntax", d.ValidateSyntax)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("extensions", d.Extensions)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Render.Indent < 1 || c.Render.Indent > maxIndent {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, c.Render.Indent)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}
	return nil
}

// Marshal encodes c as YAML for writing a config file.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
