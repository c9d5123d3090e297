package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// Defaults for the contribution layout and plugin resolution.
const (
	DefaultContribRoot   = "contrib"
	DefaultPackage       = "espresso"
	DefaultMode          = "pre"
	DefaultSourceCommand = "go run ."
)

// DefaultRequiredFiles lists the artifacts every contribution folder must hold
// besides its main source file.
var DefaultRequiredFiles = contrib.DefaultRequiredFiles

// Config represents the top-level configuration structure.
type Config struct {
	Version       int           `mapstructure:"version" yaml:"version"`
	ContribRoot   string        `mapstructure:"contrib_root" yaml:"contrib_root"`
	Package       string        `mapstructure:"package" yaml:"package"`
	Mode          string        `mapstructure:"mode" yaml:"mode"`
	Strict        bool          `mapstructure:"strict" yaml:"strict"`
	RequiredFiles []string      `mapstructure:"required_files" yaml:"required_files"`
	SourceCommand string        `mapstructure:"source_command" yaml:"source_command"`
	BinDir        string        `mapstructure:"bin_dir" yaml:"bin_dir"`
	CallTimeout   time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Forget any file, env binding or default left by a previous Init/Load.
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("ESPRESSO")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("contrib_root", DefaultContribRoot)
	viper.SetDefault("package", DefaultPackage)
	viper.SetDefault("mode", DefaultMode)
	viper.SetDefault("strict", false)
	viper.SetDefault("required_files", DefaultRequiredFiles)
	viper.SetDefault("source_command", DefaultSourceCommand)
	viper.SetDefault("bin_dir", "")
	viper.SetDefault("call_timeout", time.Duration(0))
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply.
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, errors.Mark(
			errors.Newf("validating config: %s", strings.Join(msgs, "; ")),
			errors.ErrInvalidConfig,
		)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Version:       1,
		ContribRoot:   DefaultContribRoot,
		Package:       DefaultPackage,
		Mode:          DefaultMode,
		RequiredFiles: append([]string(nil), DefaultRequiredFiles...),
		SourceCommand: DefaultSourceCommand,
	}
}
