package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Contiguity ContiguityConfig `yaml:"contiguity" mapstructure:"contiguity"`
	Character  CharacterConfig  `yaml:"character" mapstructure:"character"`
	Profile    ProfileConfig    `yaml:"profile" mapstructure:"profile"`
	Dimension  DimensionConfig  `yaml:"dimension" mapstructure:"dimension"`
	Synth      SynthConfig      `yaml:"synth" mapstructure:"synth"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ContiguityConfig configures graph construction.
type ContiguityConfig struct {
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
	Workers   int     `yaml:"workers" mapstructure:"workers"`
}

// CharacterConfig configures neighbourhood aggregation.
type CharacterConfig struct {
	Order        int    `yaml:"order" mapstructure:"order"`
	IncludeLower bool   `yaml:"include_lower" mapstructure:"include_lower"`
	Reducer      string `yaml:"reducer" mapstructure:"reducer"`
	ModeBins     int    `yaml:"mode_bins" mapstructure:"mode_bins"`
	Workers      int    `yaml:"workers" mapstructure:"workers"`
}

// ProfileConfig configures street profile sampling.
type ProfileConfig struct {
	Distance   float64 `yaml:"distance" mapstructure:"distance"`
	TickLength float64 `yaml:"tick_length" mapstructure:"tick_length"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
}

// DimensionConfig configures dimensional characters.
type DimensionConfig struct {
	StoreyHeight float64 `yaml:"storey_height" mapstructure:"storey_height"`
}

// SynthConfig sizes the synthetic layers the CLI analyses.
type SynthConfig struct {
	Rows int     `yaml:"rows" mapstructure:"rows"`
	Cols int     `yaml:"cols" mapstructure:"cols"`
	Cell float64 `yaml:"cell" mapstructure:"cell"`
	Gap  float64 `yaml:"gap" mapstructure:"gap"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("urbanform")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("URBANFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("contiguity.tolerance", 1e-9)
	v.SetDefault("contiguity.workers", 0)
	v.SetDefault("character.order", 3)
	v.SetDefault("character.include_lower", true)
	v.SetDefault("character.reducer", "mean")
	v.SetDefault("character.mode_bins", 0)
	v.SetDefault("character.workers", 0)
	v.SetDefault("profile.distance", 10.0)
	v.SetDefault("profile.tick_length", 50.0)
	v.SetDefault("profile.workers", 0)
	v.SetDefault("dimension.storey_height", 3.0)
	v.SetDefault("synth.rows", 12)
	v.SetDefault("synth.cols", 12)
	v.SetDefault("synth.cell", 30.0)
	v.SetDefault("synth.gap", 8.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Mode is one of
// "contiguity", "character", "profile" or "dimensions".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Synth.Rows < 1 || c.Synth.Cols < 1 {
		errs = append(errs, "synth.rows and synth.cols must be >= 1")
	}
	if c.Synth.Cell <= 0 {
		errs = append(errs, "synth.cell must be > 0")
	}
	if c.Synth.Gap < 0 || c.Synth.Gap >= c.Synth.Cell {
		errs = append(errs, "synth.gap must be in [0, synth.cell)")
	}
	if c.Contiguity.Tolerance < 0 {
		errs = append(errs, "contiguity.tolerance must be >= 0")
	}

	switch mode {
	case "contiguity":
	case "character":
		if c.Character.Order < 1 {
			errs = append(errs, "character.order must be >= 1")
		}
		if c.Character.Reducer == "" {
			errs = append(errs, "character.reducer is required")
		}
	case "profile":
		if c.Profile.Distance <= 0 {
			errs = append(errs, "profile.distance must be > 0")
		}
		if c.Profile.TickLength <= 0 {
			errs = append(errs, "profile.tick_length must be > 0")
		}
	case "dimensions":
		if c.Dimension.StoreyHeight <= 0 {
			errs = append(errs, "dimension.storey_height must be > 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// YAML renders the effective configuration in the urbanform.yaml layout.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, eris.Wrap(err, "config: marshal yaml")
	}
	return out, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
