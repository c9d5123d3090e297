package contrib

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
)

var (
	initDescription string
	initAuthor      string
	initEmail       string
	initForce       bool
	initYes         bool
)

func init() {
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "one-line problem description")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "author name")
	initCmd.Flags().StringVar(&initEmail, "email", "", "author email")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite files in an existing folder")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "accept defaults instead of prompting")
	flags.AddRootFlag(initCmd)
	Cmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new contribution",
	Long: `Create a new contribution folder under the contributions root.

The folder holds <name>.go with a one-example problem, the main.go shim that
serves it, a README.md, a BSD-2 LICENCE and a metadata.yml, and passes
'espresso validate' as generated.

The command prompts for the description and author unless they are provided
via flags or --yes is given.`,
	Example: `  # Interactive prompts
  espresso contrib init gravity_survey

  # Non-interactive creation
  espresso contrib init gravity_survey -d "Gravity anomaly inversion" --author "Jane Doe" --email jane@example.com

  See Also:
    espresso validate --only <name> - Validate the new contribution`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), args[0])
	},
}

// nameSanitizer matches characters that are not allowed in a contribution name.
var nameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// suggestName turns arbitrary input into a valid contribution name, or "".
func suggestName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nameSanitizer.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if contrib.ValidateName(s) != nil {
		return ""
	}
	return s
}

// runInit allows injecting input and output for testing.
func runInit(in io.Reader, w io.Writer, name string) error {
	if err := contrib.ValidateName(name); err != nil {
		hint := "Names are lowercase letters, digits and underscores, starting with a letter"
		if s := suggestName(name); s != "" {
			hint = fmt.Sprintf("Try %q", s)
		}
		return errors.NewUserError(err, hint)
	}

	scanner := bufio.NewScanner(in)

	description := initDescription
	if description == "" && !initYes {
		description = prompt(scanner, w, "Short description", "A new espresso test problem.")
	}

	author := initAuthor
	if author == "" && !initYes {
		author = prompt(scanner, w, "Author", "")
	}

	email := initEmail
	if email == "" && author != "" && !initYes {
		email = prompt(scanner, w, "Author email", "")
	}

	c, err := contrib.Scaffold(flags.ContribRoot(), name, contrib.ScaffoldOptions{
		Description: description,
		Author:      author,
		Email:       email,
		Force:       initForce,
	})
	if err != nil {
		if errors.Is(err, contrib.ErrExists) {
			return errors.NewUserError(err, "use --force to overwrite")
		}
		return err
	}

	fmt.Fprintf(w, "✓ Created %s\n", c.Path)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. Implement the problem in %s\n", c.MainFile())
	fmt.Fprintf(w, "  2. Describe every example in %s\n", contrib.Metadata)
	fmt.Fprintf(w, "  3. Run: espresso validate --only %s\n", c.Name)
	return nil
}

func prompt(scanner *bufio.Scanner, w io.Writer, label, def string) string {
	fmt.Fprintf(w, "%s", label)
	if def != "" {
		fmt.Fprintf(w, " [%s]", def)
	}
	fmt.Fprint(w, ": ")

	if !scanner.Scan() {
		return def
	}
	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return def
	}
	return input
}
