// Package config loads the YAML configuration shared by the CLI and by
// callers that build template readers from files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contentdef/pkg/template"
)

// Config is the file representation.
type Config struct {
	RequiredTags        []string `yaml:"requiredTags"`
	StrictPropertyNames bool     `yaml:"strictPropertyNames"`
	SchemaValidation    *bool    `yaml:"schemaValidation,omitempty"`
	// MaxDocumentSize caps a single document in bytes. Zero keeps the reader
	// default, a negative value removes the cap.
	MaxDocumentSize int64 `yaml:"maxDocumentSize"`
	HTTP                HTTP     `yaml:"http"`
	Log                 Log      `yaml:"log"`
}

// HTTP controls URL sources.
type HTTP struct {
	Allow   bool     `yaml:"allow"`
	Timeout Duration `yaml:"timeout"`
}

// Log controls the CLI logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration accepts Go duration strings ("5s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q (line %d)", raw, node.Line)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	enabled := true
	return Config{
		RequiredTags:     append([]string(nil), template.DefaultRequiredTags...),
		SchemaValidation: &enabled,
		HTTP:             HTTP{Timeout: Duration(10 * time.Second)},
		Log:              Log{Level: "info", Format: "console"},
	}
}

// Load reads path on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data on top of Default. source names the input in errors.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	for idx, tag := range c.RequiredTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("requiredTags[%d] is empty", idx)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	return nil
}

// Level parses the configured log level.
func (c Config) Level() (zap.AtomicLevel, error) {
	raw := strings.TrimSpace(c.Log.Level)
	if raw == "" {
		raw = "info"
	}
	level, err := zap.ParseAtomicLevel(raw)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// ReaderOptions converts the configuration into template reader options.
func (c Config) ReaderOptions(logger *zap.Logger) []template.Option {
	opts := []template.Option{
		template.WithRequiredTags(c.RequiredTags...),
		template.WithStrictPropertyNames(c.StrictPropertyNames),
		template.WithAllowHTTP(c.HTTP.Allow),
		template.WithRequestTimeout(time.Duration(c.HTTP.Timeout)),
		template.WithMaxDocumentSize(c.MaxDocumentSize),
	}
	if c.SchemaValidation != nil {
		opts = append(opts, template.WithSchemaValidation(*c.SchemaValidation))
	}
	if logger != nil {
		opts = append(opts, template.WithLogger(logger))
	}
	return opts
}

// Logger builds a zap logger from the log section.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	var zcfg zap.Config
	if strings.EqualFold(c.Log.Format, "json") {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}
