// Package contrib provides commands for working with contribution folders.
package contrib

import "github.com/spf13/cobra"

// Cmd is the parent command for all contrib subcommands.
var Cmd = &cobra.Command{
	Use:   "contrib",
	Short: "Inspect and scaffold contributions",
	Long:  `Commands for listing, inspecting and creating contributions under the contributions root.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
