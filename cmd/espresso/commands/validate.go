package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/espresso/cmd"
	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/conformance"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
	"github.com/thoreinstein/espresso/internal/logging"
	"github.com/thoreinstein/espresso/internal/validator"
	"github.com/thoreinstein/espresso/pkg/fileutil"
)

var (
	validateOnly    []string
	validateStrict  bool
	validateJSON    bool
	validatePackage string
	validateBinDir  string
	validateOutput  string
)

func init() {
	flags.AddRootFlag(validateCmd)
	validateCmd.Flags().StringSliceVar(&validateOnly, "only", nil,
		"validate only the named contributions (comma separated)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"also check example sizes against the declared dimensions")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	validateCmd.Flags().StringVar(&validatePackage, "package", "",
		"package prefix of installed executables (default: package from config)")
	validateCmd.Flags().StringVar(&validateBinDir, "bin-dir", "",
		"directory prepended to PATH in post mode (default: bin_dir from config)")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "",
		"also write the JSON summary to this file")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [pre|post]",
	Short: "Validate contributions against the plugin contract",
	Long: `Validate every contribution under the contributions root.

Each contribution is checked in order: folder naming, required artifacts,
module loading, declared exports, required functions, optional functions,
metadata schema, example cross-check and licence. Checking stops at the first
failed step and continues with the next contribution.

The build mode selects where contributions are loaded from:
  pre   run each contribution from its source folder (default)
  post  run the installed <package>-<name> executables found on PATH

The command exits with status 1 when any contribution fails.`,
	Example: `  # Validate from source
  espresso validate

  # Validate installed executables
  espresso validate post --bin-dir ./bin

  # Validate two contributions and check example sizes
  espresso validate --only linear_regression,gravity --strict

  # Machine-readable summary
  espresso validate --json

  See Also: espresso contrib list, espresso contrib init`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(loader.ModeSource), string(loader.ModeInstalled)},
	RunE: func(c *cobra.Command, args []string) error {
		return runValidate(c, args, c.OutOrStdout())
	},
}

func runValidate(c *cobra.Command, args []string, w io.Writer) error {
	cfg := flags.Config()

	modeArg := cfg.Mode
	if len(args) > 0 {
		modeArg = args[0]
	}
	mode, err := loader.ParseMode(modeArg)
	if err != nil {
		return errors.NewConfigError(err)
	}

	l, err := newLoader(c, mode)
	if err != nil {
		return err
	}

	strict := cfg.Strict || validateStrict
	v, err := conformance.New(l,
		conformance.WithRoot(flags.ContribRoot()),
		conformance.WithOnly(validateOnly...),
		conformance.WithRequiredFiles(cfg.RequiredFiles...),
		conformance.WithStrict(strict),
		conformance.WithLogger(logging.FromContext(c.Context())),
	)
	if err != nil {
		return errors.NewSystemError(err, "the embedded metadata schema failed to compile")
	}

	summary, err := v.Run(c.Context())
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NewUserError(err, "Run from the repository root or pass --root")
		}
		return errors.Wrap(err, "running validation")
	}

	if validateOutput != "" {
		if err := fileutil.AtomicWriteJSON(validateOutput, summary); err != nil {
			return errors.NewSystemError(err, "check that the output directory is writable")
		}
	}

	if validateJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return errors.Wrap(err, "encoding output")
		}
	} else if err := reportSummary(w, summary); err != nil {
		return err
	}

	if !summary.OK() {
		return errors.NewExitError(
			errors.Wrapf(errors.ErrValidationFailed, "%d of %d contributions", summary.Failed, len(summary.Results)),
			errors.ExitUser,
		)
	}
	return nil
}

// newLoader builds the module loader from config and flags.
func newLoader(c *cobra.Command, mode loader.Mode) (*loader.Loader, error) {
	cfg := flags.Config()

	command, err := shlex.Split(cfg.SourceCommand)
	if err != nil {
		return nil, errors.NewConfigError(errors.Wrapf(err, "parsing source_command %q", cfg.SourceCommand))
	}

	pkg := cfg.Package
	if validatePackage != "" {
		pkg = validatePackage
	}
	binDir := cfg.BinDir
	if validateBinDir != "" {
		binDir = validateBinDir
	}

	return loader.New(mode,
		loader.WithPackage(pkg),
		loader.WithSourceCommand(command...),
		loader.WithBinDir(binDir),
		loader.WithCallTimeout(cfg.CallTimeout),
		loader.WithVersion(cmd.Short()),
		loader.WithLogger(logging.FromContext(c.Context())),
	), nil
}

// reportSummary prints every result followed by the totals.
func reportSummary(w io.Writer, s *conformance.Summary) error {
	reporter := validator.NewReporter(w, validator.FormatText)
	for _, r := range s.Results {
		if err := reporter.Report(r.Issues()); err != nil {
			return err
		}
	}

	if len(s.Results) == 0 {
		fmt.Fprintln(w, "No contributions found.")
		return nil
	}

	fmt.Fprintln(w)
	passed := color.New(color.FgGreen).Sprintf("%d passed", s.Passed)
	failed := fmt.Sprintf("%d failed", s.Failed)
	if s.Failed > 0 {
		failed = color.New(color.FgRed, color.Bold).Sprint(failed)
	}
	fmt.Fprintf(w, "%s, %s (%s mode, %s)\n", passed, failed, s.Mode, s.Duration.Round(time.Millisecond))
	return nil
}
