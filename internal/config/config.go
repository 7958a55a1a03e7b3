// Package config loads hdrdoc settings from defaults, an optional YAML file,
// .env files, HDRDOC_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HDRDOC_STRICT.
const EnvPrefix = "HDRDOC"

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = ".hdrdoc"

// Config holds all extraction settings.
type Config struct {
	Strict       bool          `mapstructure:"strict"`
	WrapWidth    int           `mapstructure:"wrap_width"`
	CodeLanguage string        `mapstructure:"code_language"`
	Verbose      bool          `mapstructure:"verbose"`
	Watch        bool          `mapstructure:"watch"`
	Debounce     time.Duration `mapstructure:"debounce"`
	Extensions   []string      `mapstructure:"extensions"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		WrapWidth:    80,
		CodeLanguage: "c",
		Debounce:     300 * time.Millisecond,
		Extensions:   []string{".h", ".hpp", ".hh", ".hxx"},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"strict":  "strict",
	"wrap":    "wrap_width",
	"lang":    "code_language",
	"verbose": "verbose",
	"watch":   "watch",
}

// Load builds a Config. path names an explicit config file; when empty,
// .hdrdoc.yaml in the working directory is used if present. flags may be nil;
// only flags the user actually set override the other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("wrap_width", cfg.WrapWidth)
	v.SetDefault("code_language", cfg.CodeLanguage)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("watch", cfg.Watch)
	v.SetDefault("debounce", cfg.Debounce)
	v.SetDefault("extensions", cfg.Extensions)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFile)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the extractor cannot use.
func (c *Config) Validate() error {
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap_width must not be negative, got %d", c.WrapWidth)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must list at least one header suffix")
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	return nil
}

// IsHeader reports whether name carries one of the configured extensions.
func (c *Config) IsHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// loadEnvFiles loads .env.local then .env; variables already set win.
// Missing files are skipped, unparsable ones are an error.
func loadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}
