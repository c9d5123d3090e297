// Package flags provides shared configuration accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (contrib).
package flags

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/espresso/internal/config"
)

// loaded holds the configuration read by the root command.
var loaded *config.Config

// rootFlag holds the value of the --root flag of the command being run.
var rootFlag string

// Config returns the loaded configuration, or the defaults when the root
// command has not loaded one (tests, help).
func Config() *config.Config {
	if loaded == nil {
		return config.Default()
	}
	return loaded
}

// SetConfig sets the configuration used by subcommands.
func SetConfig(cfg *config.Config) {
	loaded = cfg
}

// AddRootFlag adds the --root flag to a command.
func AddRootFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rootFlag, "root", "",
		"contributions root directory (default: contrib_root from config)")
}

// ContribRoot returns the --root flag value, falling back to contrib_root.
func ContribRoot() string {
	if rootFlag != "" {
		return rootFlag
	}
	return Config().ContribRoot
}

// SetContribRoot overrides the --root flag value.
func SetContribRoot(root string) {
	rootFlag = root
}
