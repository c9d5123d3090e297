// Package main is the entry point for the espresso CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/espresso/cmd/espresso/commands"
	"github.com/thoreinstein/espresso/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Failed contributions have already been reported.
		if !errors.Is(err, errors.ErrValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			var exitErr *errors.ExitError
			if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
			}
		}
		os.Exit(errors.ExitCode(err))
	}
}
