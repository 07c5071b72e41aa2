// Package config loads reactorstate settings from defaults, an optional .reactorstate.yaml,
// REACTORSTATE_* environment variables and command line overrides.
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jakoblorz/reactorstate/internal/buildstate"
	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/persistence"
)

const (
	// FileName is looked up in the start directory and its ancestors.
	FileName = ".reactorstate.yaml"

	// EnvPrefix prefixes every environment variable, e.g. REACTORSTATE_RESTORE_POLICY.
	EnvPrefix = "REACTORSTATE"
)

// Keys usable with WithOverride.
const (
	KeyCodec         = "codec"
	KeyRestorePolicy = "restore.policy"
	KeyOutputDir     = "output_dir"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
)

// Config is the resolved configuration.
type Config struct {
	Codec     string        `mapstructure:"codec"`
	Restore   RestoreConfig `mapstructure:"restore"`
	OutputDir string        `mapstructure:"output_dir"`
	Log       LogConfig     `mapstructure:"log"`

	// Path is the config file that was read, empty when none was found
	Path string `mapstructure:"-"`
}

// RestoreConfig configures restoring saved state.
type RestoreConfig struct {
	Policy string `mapstructure:"policy"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// RestorePolicy returns the parsed restore policy.
func (c *Config) RestorePolicy() buildstate.RestorePolicy {
	return buildstate.RestorePolicy(c.Restore.Policy)
}

// NewCodec returns the configured state codec.
func (c *Config) NewCodec() (persistence.Codec, error) {
	return persistence.CodecByName(c.Codec)
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	overrides map[string]any
}

// WithFile reads the given config file instead of searching for one.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithOverride sets a key with the highest precedence.
func WithOverride(key string, value any) Option {
	return func(o *loadOptions) {
		o.overrides[key] = value
	}
}

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCodec, persistence.PropertiesCodecName)
	v.SetDefault(KeyRestorePolicy, string(buildstate.RestoreStrict))
	v.SetDefault(KeyOutputDir, "target")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

// Load resolves the configuration for a build started in startDir.
func Load(fs filesystem.FileSystem, startDir string, opts ...Option) (*Config, error) {
	o := loadOptions{overrides: make(map[string]any)}
	for _, opt := range opts {
		opt(&o)
	}

	v := newViperInstance()

	path := o.file
	if path == "" {
		if found, ok := filesystem.FindFileUp(fs, startDir, FileName); ok {
			path = found
		}
	}

	if path != "" {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, errs.Categorize(errs.ErrInvalidConfig, err, "read %s", path)
		}

		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, errs.Categorize(errs.ErrInvalidConfig, err, "parse %s", path)
		}
	}

	for key, value := range o.overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Categorize(errs.ErrInvalidConfig, err, "unmarshal")
	}
	cfg.Path = path

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated setting.
func Validate(cfg *Config) error {
	if _, err := persistence.CodecByName(cfg.Codec); err != nil {
		return errs.Categorize(errs.ErrInvalidConfig, err, "codec")
	}
	if _, err := buildstate.ParseRestorePolicy(cfg.Restore.Policy); err != nil {
		return errs.Categorize(errs.ErrInvalidConfig, err, "restore.policy")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", errs.ErrInvalidConfig)
	}
	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return errs.Categorize(errs.ErrInvalidConfig, err, "log.level")
		}
	}
	return nil
}
