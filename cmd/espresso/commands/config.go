package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/config"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/paths"
	"github.com/thoreinstein/espresso/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage espresso configuration",
	Long: `Manage espresso configuration.

Configuration is read from ./config.yaml or the espresso config directory,
overridden by ESPRESSO_* environment variables.

Without a subcommand, lists the effective configuration.`,
	Example: `  # List the effective configuration
  espresso config

  # Get a specific value
  espresso config get source_command

  # Write the defaults to the user config file
  espresso config init

See Also: espresso doctor`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigList(cmd.OutOrStdout())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key. List values are printed one per line.`,
	Example: `  espresso config get mode
  espresso config get required_files`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGet(cmd.OutOrStdout(), args[0])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List the effective configuration values in YAML format, with the file they were read from.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigList(cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default configuration to config.yaml in the espresso config
directory ($XDG_CONFIG_HOME/espresso or the platform equivalent).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigInit(cmd.OutOrStdout(), paths.ConfigFile())
	},
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key),
			"Run 'espresso config list' to see the available keys")
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigList(w io.Writer) error {
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(w, "# %s\n", file)
	} else {
		fmt.Fprintln(w, "# defaults (no config file found)")
	}

	data, err := yaml.Marshal(flags.Config())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}

func runConfigInit(w io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("config file already exists at %s", path),
			"use --force to overwrite")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "✓ Wrote %s\n", path)
	return nil
}
