package contrib

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/metadata"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	flags.AddRootFlag(listCmd)
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contributions",
	Long: `List every contribution under the contributions root with the number of
examples and the short description declared in its metadata.yml.

Contributions whose metadata cannot be read or does not match the schema are
still listed, with the problem in place of the description. Use
'espresso validate' for the full set of checks.`,
	Example: `  # List contributions
  espresso contrib list

  # List contributions under another root
  espresso contrib list --root ./staging

  # Output as JSON
  espresso contrib list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout())
	},
}

// infoJSON represents a contribution in JSON output format.
type infoJSON struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	Title            string `json:"title,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	Examples         int    `json:"examples"`
	Error            string `json:"error,omitempty"`
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer) error {
	infos, err := collect(flags.ContribRoot())
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "encoding output")
	}
	return outputListTabular(w, infos)
}

// collect discovers contributions and summarizes their metadata.
func collect(root string) ([]infoJSON, error) {
	contribs, err := contrib.Discover(root)
	if err != nil {
		return nil, errors.Wrap(err, "discovering contributions")
	}

	checker, err := metadata.NewChecker()
	if err != nil {
		return nil, err
	}

	infos := make([]infoJSON, 0, len(contribs))
	for _, c := range contribs {
		info := infoJSON{Name: c.Name, Path: c.Path}
		meta, err := checker.CheckFile(c.File(metadata.FileName))
		if err != nil {
			info.Error = summarize(err)
		} else {
			info.Title = meta.Title
			info.ShortDescription = meta.ShortDescription
			info.Examples = meta.ExampleCount()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// summarize shortens a metadata error to one table cell.
func summarize(err error) string {
	var schemaErr *metadata.SchemaError
	if errors.As(err, &schemaErr) {
		return fmt.Sprintf("metadata does not match the schema (%d problems)", len(schemaErr.Problems))
	}
	var parseErr *metadata.ParseError
	if errors.As(err, &parseErr) {
		return "metadata cannot be parsed"
	}
	return "metadata cannot be read"
}

// outputListTabular outputs contributions as a table.
func outputListTabular(w io.Writer, infos []infoJSON) error {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No contributions found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEXAMPLES\tDESCRIPTION")
	for _, info := range infos {
		desc := info.ShortDescription
		examples := fmt.Sprint(info.Examples)
		if info.Error != "" {
			desc = "(" + info.Error + ")"
			examples = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, examples, truncate(desc, 60))
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
