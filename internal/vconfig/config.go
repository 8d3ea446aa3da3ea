// Package vconfig loads and persists hgvskit's configuration. It wraps
// viper around the typed settings this tool actually needs: assembly name,
// 3'-shift policy, and the provider cache path.
package vconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ShiftPolicy selects whether "hgvskit spdi" 3'-shifts a variant before
// converting it; no other command reads it.
type ShiftPolicy string

const (
	// ShiftThreePrime rolls an indel to its rightmost representable
	// position, HGVS's own normalization rule.
	ShiftThreePrime ShiftPolicy = "3prime"
	// ShiftUnambiguous turns the roll off: the variant is converted as
	// written. It is neither left-shifted nor expanded, and a
	// position-ambiguous indel is not reported as such.
	ShiftUnambiguous ShiftPolicy = "unambiguous"
)

// Config is hgvskit's persisted settings, stored as YAML at Path (by
// default ~/.hgvskit.yaml).
type Config struct {
	Assembly string `mapstructure:"assembly" yaml:"assembly"`
	Shift    struct {
		Policy ShiftPolicy `mapstructure:"policy" yaml:"policy"`
	} `mapstructure:"shift" yaml:"shift"`
	Provider struct {
		CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
	} `mapstructure:"provider" yaml:"provider"`
}

// Default returns the configuration used when no config file exists yet.
func Default() Config {
	cfg := Config{Assembly: "GRCh38"}
	cfg.Shift.Policy = ShiftThreePrime
	return cfg
}

// DefaultPath returns ~/.hgvskit.yaml, the file viper reads/writes when
// no explicit path is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hgvskit.yaml"), nil
}

// Load reads configuration from path (or DefaultPath if path is empty),
// falling back to Default() when the file doesn't exist.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path (or DefaultPath if path is empty) as YAML.
func Save(path string, cfg Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Get reads a single dotted key (e.g. "shift.policy") out of the config
// file at path, the way "hgvskit config get <key>" does.
func Get(path, key string) (any, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	val := v.Get(key)
	if val == nil {
		return nil, fmt.Errorf("key %q is not set", key)
	}
	return val, nil
}

// Set writes a single dotted key into the config file at path, creating
// the file if it doesn't exist yet.
func Set(path, key, value string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch value {
	case "true", "yes", "on":
		v.Set(key, true)
	case "false", "no", "off":
		v.Set(key, false)
	default:
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// All returns every setting in the config file at path as a nested map,
// for "hgvskit config" with no subcommand.
func All(path string) (map[string]any, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return v.AllSettings(), nil
}
