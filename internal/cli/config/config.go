package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/decoder"
	"github.com/conduit-lang/kmeta/internal/report"
)

// Output formats.
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatText  = "text"
)

// Config represents the kmeta configuration
type Config struct {
	Annotations AnnotationsConfig `mapstructure:"annotations"`
	Metadata    MetadataConfig    `mapstructure:"metadata"`
	Output      OutputConfig      `mapstructure:"output"`
	Watch       WatchConfig       `mapstructure:"watch"`
	Report      report.Options    `mapstructure:"report"`
	Store       StoreConfig       `mapstructure:"store"`
}

// AnnotationsConfig lists the annotation classes queries accept. Empty
// accepts every class.
type AnnotationsConfig struct {
	Supported []string `mapstructure:"supported"`
}

// MetadataConfig controls attachment decoding.
type MetadataConfig struct {
	IncompatiblePolicy string `mapstructure:"incompatible_policy"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// WatchConfig configures `kmeta watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Patterns []string      `mapstructure:"patterns"`
	Ignored  []string      `mapstructure:"ignored"`
}

// StoreConfig configures `kmeta export`.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads kmeta.yaml (or kmeta.yml) from the current directory, or the
// file at path when it is not empty. Environment variables prefixed with
// KMETA_ override file values, e.g. KMETA_OUTPUT_FORMAT=json.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("annotations.supported", []string{})
	v.SetDefault("metadata.incompatible_policy", "substitute")
	v.SetDefault("output.format", FormatAuto)
	v.SetDefault("output.no_color", false)
	v.SetDefault("watch.debounce", 100*time.Millisecond)
	v.SetDefault("watch.patterns", []string{"*.yaml", "*.yml"})
	v.SetDefault("watch.ignored", []string{"kmeta.yaml", "kmeta.yml"})
	v.SetDefault("report.constructors", "summer.practice.kapt.DumpConstructor")
	v.SetDefault("report.functions", "summer.practice.kapt.DumpFunction")
	v.SetDefault("report.aliases", "summer.practice.kapt.PrintTypeAlias")
	v.SetDefault("report.ignore", "summer.practice.kapt.IgnoreParameter")
	v.SetDefault("store.path", "kmeta.db")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("kmeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("kmeta")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Policy returns the configured incompatible-version policy.
func (c *Config) Policy() decoder.Policy {
	p, _ := decoder.ParsePolicy(c.Metadata.IncompatiblePolicy)
	return p
}

// SupportedClasses returns annotations.supported as annotation classes.
func (c *Config) SupportedClasses() []annotation.Class {
	out := make([]annotation.Class, 0, len(c.Annotations.Supported))
	for _, s := range c.Annotations.Supported {
		out = append(out, annotation.Class(s))
	}
	return out
}

// ResolveFormat turns "auto" into table on a terminal and JSON otherwise.
func (c *Config) ResolveFormat(terminal bool) string {
	if c.Output.Format != FormatAuto {
		return c.Output.Format
	}
	if terminal {
		return FormatTable
	}
	return FormatJSON
}

func validateConfig(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatAuto, FormatTable, FormatJSON, FormatText:
	default:
		return fmt.Errorf("output.format must be one of auto, table, json, text, got: %s", cfg.Output.Format)
	}
	if _, err := decoder.ParsePolicy(cfg.Metadata.IncompatiblePolicy); err != nil {
		return fmt.Errorf("metadata.incompatible_policy: %w", err)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce)
	}
	for _, s := range cfg.Annotations.Supported {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " /") {
			return fmt.Errorf("annotations.supported: %q is not a dotted class name", s)
		}
	}
	return nil
}
