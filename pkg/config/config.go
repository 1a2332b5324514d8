// Package config loads chordwheel settings.
//
// Sources, highest priority first:
//
//  1. Command-line flags bound with [Bind]
//  2. Environment variables (CHORDWHEEL_WIDTH, CHORDWHEEL_SERVER_ADDR, ...)
//  3. The config file, $XDG_CONFIG_HOME/chordwheel/config.toml by default
//  4. Built-in defaults ([SetDefaults])
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/chordwheel/pkg/errors"
	"github.com/matzehuels/chordwheel/pkg/render"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

const (
	appName   = "chordwheel"
	envPrefix = "CHORDWHEEL"
	fileName  = "config"
	fileType  = "toml"
)

// Config is the full configuration.
type Config struct {
	Width    float64  `mapstructure:"width" toml:"width"`
	Height   float64  `mapstructure:"height" toml:"height"`
	Palette  []string `mapstructure:"palette" toml:"palette"`
	ColorBy  string   `mapstructure:"color_by" toml:"color_by"`
	PadAngle float64  `mapstructure:"pad_angle" toml:"pad_angle"`
	Scale    float64  `mapstructure:"scale" toml:"scale"`
	Server   Server   `mapstructure:"server" toml:"server"`
}

// Server configures the serve command.
type Server struct {
	Addr  string `mapstructure:"addr" toml:"addr"`
	Data  string `mapstructure:"data" toml:"data"`
	Redis string `mapstructure:"redis" toml:"redis"`
	// LogFile enables a rotating log file in addition to stderr.
	LogFile string `mapstructure:"log_file" toml:"log_file"`
	// RateLimit is the number of uploads per second; Burst allows short spikes.
	RateLimit float64 `mapstructure:"rate_limit" toml:"rate_limit"`
	Burst     int     `mapstructure:"burst" toml:"burst"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("width", scene.DefaultWidth)
	v.SetDefault("height", scene.DefaultHeight)
	v.SetDefault("palette", []string{})
	v.SetDefault("color_by", string(scene.ColorByTarget))
	v.SetDefault("pad_angle", 0.0)
	v.SetDefault("scale", 2.0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.data", "relationships.csv")
	v.SetDefault("server.redis", "")
	v.SetDefault("server.log_file", "")
	v.SetDefault("server.rate_limit", 2.0)
	v.SetDefault("server.burst", 5)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	if err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// New returns a viper instance with defaults and the environment wired up.
// If path is empty the default location is searched; a missing file there is
// not an error, but a missing explicit path is.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		return v, nil
	}

	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}
	return v, nil
}

// Bind binds command flags to config keys. Only flags the user set override
// the file and environment; unset flags fall through.
func Bind(v *viper.Viper, cmd *cobra.Command, flagToKey map[string]string) error {
	for flag, key := range flagToKey {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is New followed by FromViper.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate checks the view settings and server limits.
func (c *Config) Validate() error {
	if err := c.View().Validate(); err != nil {
		return err
	}
	if !render.ValidScale(c.Scale) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be an integer from %d to %d, got %v", render.MinScale, render.MaxScale, c.Scale)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.rate_limit and server.burst must not be negative")
	}
	return nil
}

// View returns the render view described by the configuration.
func (c *Config) View() scene.ViewState {
	return scene.ViewState{
		Width:    c.Width,
		Height:   c.Height,
		Palette:  c.Palette,
		ColorBy:  scene.ColorBy(c.ColorBy),
		PadAngle: c.PadAngle,
	}
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Dir returns the config directory using XDG standard (~/.config/chordwheel/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName+"."+fileType), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) (err error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	if _, err := fmt.Fprintf(f, "# chordwheel configuration\n# Environment variables override this file: %s_WIDTH, %s_SERVER_ADDR, ...\n\n", envPrefix, envPrefix); err != nil {
		return err
	}
	return Encode(f, Default())
}
