package contrib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/logging"
	"github.com/thoreinstein/espresso/internal/metadata"
	"github.com/thoreinstein/espresso/internal/translate"
	"github.com/thoreinstein/espresso/pkg/fileutil"
)

// readmeWidth is the word-wrap width of the rendered README.
const readmeWidth = 80

var showFormat string

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text",
		"output format: text, yaml, json, toml")
	flags.AddRootFlag(showCmd)
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a contribution's metadata and README",
	Long: `Display the metadata and rendered README of a contribution.

With --format yaml, json or toml only the metadata document is printed,
converted to that format. Without a name on an interactive terminal a fuzzy
finder lets you pick the contribution.`,
	Example: `  # Show a contribution
  espresso contrib show linear_regression

  # Pick interactively
  espresso contrib show

  # Export the metadata as TOML
  espresso contrib show linear_regression --format toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		return runShowWithWriter(w, args[0])
	}

	if !logging.IsTTY(os.Stdin) || !logging.IsTTY(w) {
		return errors.NewUserError(errors.New("contribution name is required"),
			"Run 'espresso contrib list' to see the available contributions")
	}

	name, err := pick(flags.ContribRoot())
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	return runShowWithWriter(w, name)
}

// pick lets the user choose a contribution with a fuzzy finder. It returns
// "" when the user aborts.
func pick(root string) (string, error) {
	infos, err := collect(root)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.Mark(errors.Newf("no contributions under %s", root), errors.ErrNotFound)
	}

	idx, err := fuzzyfinder.Find(
		infos,
		func(i int) string {
			return infos[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			info := infos[i]
			if info.Error != "" {
				return fmt.Sprintf("Name: %s\n\n%s", info.Name, info.Error)
			}
			return fmt.Sprintf("Name: %s\nTitle: %s\nExamples: %d\n\nDescription:\n%s",
				info.Name,
				info.Title,
				info.Examples,
				info.ShortDescription,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	return infos[idx].Name, nil
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(w io.Writer, name string) error {
	found, err := contrib.Find(flags.ContribRoot(), name)
	if err != nil {
		return err
	}
	c := found[0]

	checker, err := metadata.NewChecker()
	if err != nil {
		return err
	}
	meta, metaErr := checker.CheckFile(c.File(metadata.FileName))

	if showFormat != "text" {
		format, err := translate.ParseFormat(showFormat)
		if err != nil {
			return errors.NewUserError(err, "use --format text, yaml, json or toml")
		}
		if metaErr != nil {
			return errors.Wrapf(metaErr, "contribution %s", c.Name)
		}
		out, err := translate.Encode(meta, format)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return errors.Wrap(err, "writing output")
	}

	outputShowText(w, c, meta, metaErr)

	readmePath := c.File(contrib.Readme)
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		fmt.Fprintf(w, "\n(no %s)\n", contrib.Readme)
		return nil
	}
	readme, err := fileutil.ReadFileWithLimit(readmePath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", contrib.Readme)
	}
	rendered, err := renderMarkdown(string(readme))
	if err != nil {
		return err
	}
	fmt.Fprint(w, rendered)
	return nil
}

func outputShowText(w io.Writer, c contrib.Contribution, meta *metadata.Metadata, metaErr error) {
	fmt.Fprintf(w, "Contribution: %s\n", c.Name)
	fmt.Fprintf(w, "Path: %s\n", c.Path)

	if metaErr != nil {
		fmt.Fprintf(w, "Metadata: %s\n", summarize(metaErr))
		var schemaErr *metadata.SchemaError
		if errors.As(metaErr, &schemaErr) {
			for _, p := range schemaErr.Problems {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
		return
	}

	if meta.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", meta.Title)
	}
	fmt.Fprintf(w, "Description: %s\n", meta.ShortDescription)
	fmt.Fprintf(w, "Authors: %s\n", strings.Join(meta.Authors.Names(), ", "))
	if meta.Citation != nil {
		fmt.Fprintf(w, "Citation: doi:%s\n", meta.Citation.DOI)
	}

	fmt.Fprintf(w, "\nExamples (%d):\n", meta.ExampleCount())
	for i, ex := range meta.Examples {
		fmt.Fprintf(w, "  %d  %s (model %s, data %s)\n", i, ex.Description, ex.ModelDimension, ex.DataDimension)
	}

	for _, site := range meta.ExtraWebsites {
		fmt.Fprintf(w, "Website: %s <%s>\n", site.Name, site.Link)
	}
	for _, contact := range meta.Contacts {
		fmt.Fprintf(w, "Contact: %s <%s>\n", contact.Name, contact.Email)
	}
}

// renderMarkdown renders a README for the terminal.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(readmeWidth),
	)
	if err != nil {
		return "", errors.Wrap(err, "creating markdown renderer")
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	return out, nil
}
