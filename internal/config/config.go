// Package config loads kerf CLI settings from .kerf.toml, KERF_* environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/chazu/kerf/pkg/quantity"
)

// FileName is the config file searched for in the working directory and
// the home directory.
const FileName = ".kerf.toml"

// EnvPrefix prefixes environment overrides, e.g. KERF_MESH_CELLS.
const EnvPrefix = "KERF"

// Kernel backends.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Config holds runtime configuration for one kerf invocation.
type Config struct {
	MeshCells  int           `mapstructure:"mesh_cells"`
	Resolution string        `mapstructure:"resolution"`
	Kernel     string        `mapstructure:"kernel"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Parallel   bool          `mapstructure:"parallel"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MeshCells: 200,
		Kernel:    KernelSdfx,
		Timeout:   30 * time.Second,
		Parallel:  true,
	}
}

// ResolutionLength parses Resolution. It reports false when unset.
func (c Config) ResolutionLength() (quantity.Length, bool, error) {
	if c.Resolution == "" {
		return quantity.Length{}, false, nil
	}
	l, err := quantity.ParseLength(c.Resolution)
	if err != nil {
		return quantity.Length{}, false, fmt.Errorf("config: resolution: %w", err)
	}
	return l, true, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	var errs []error
	if c.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells))
	}
	if c.Kernel != KernelSdfx && c.Kernel != KernelManifold {
		errs = append(errs, fmt.Errorf("kernel must be %q or %q, got %q", KernelSdfx, KernelManifold, c.Kernel))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if l, ok, err := c.ResolutionLength(); err != nil {
		errs = append(errs, err)
	} else if ok && (l.IsZero() || l.IsNegative()) {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %s", l))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Setup points v at the config file and environment. An explicit file must
// exist; otherwise FileName is looked up in the working directory and then
// the home directory. A missing file is not an error.
func Setup(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("mesh_cells", def.MeshCells)
	v.SetDefault("resolution", def.Resolution)
	v.SetDefault("kernel", def.Kernel)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("parallel", def.Parallel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig is the on-disk form; durations are written as strings.
type fileConfig struct {
	MeshCells  int    `toml:"mesh_cells" comment:"marching cubes cells along the longest side"`
	Resolution string `toml:"resolution" comment:"target cell size, e.g. \"0.5 mm\"; overrides mesh_cells when set"`
	Kernel     string `toml:"kernel" comment:"sdfx or manifold"`
	Timeout    string `toml:"timeout" comment:"limit for one evaluation, e.g. \"30s\""`
	Parallel   bool   `toml:"parallel" comment:"realize independent subtrees concurrently"`
}

// Marshal renders cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	b, err := toml.Marshal(fileConfig{
		MeshCells:  cfg.MeshCells,
		Resolution: cfg.Resolution,
		Kernel:     cfg.Kernel,
		Timeout:    cfg.Timeout.String(),
		Parallel:   cfg.Parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return b, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	b, err := Marshal(Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
