package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/doctor"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorMode    string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check including passed ones")
	doctorCmd.Flags().StringVar(&doctorMode, "mode", "",
		"build mode to check: pre or post (default: mode from config)")
	flags.AddRootFlag(doctorCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the validation environment",
	Long: `Run diagnostic checks on the espresso configuration and environment.

Checks that the configuration loads, that the contributions root exists and
holds contributions, and that the command serving each contribution can be
resolved in the selected build mode. No contribution is started.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --json      Machine-readable JSON output

Exit codes:
  0 - No errors
  1 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctor(cmd, cmd.OutOrStdout())
	},
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	if doctorJSON && doctorVerbose {
		return errors.NewUserError(errors.New("flags --json and --all are mutually exclusive"), "")
	}
	return nil
}

// runDoctor runs the checks. It is reached even when the configuration
// failed to load, so that the failure is reported as a check.
func runDoctor(cmd *cobra.Command, w io.Writer) error {
	cfg := flags.Config()

	modeArg := cfg.Mode
	if doctorMode != "" {
		modeArg = doctorMode
	}
	mode, err := loader.ParseMode(modeArg)
	if err != nil {
		return errors.NewConfigError(err)
	}
	l, err := newLoader(cmd, mode)
	if err != nil {
		return err
	}

	runner := doctor.NewRunner(
		&doctor.ConfigCheck{File: viper.ConfigFileUsed(), LoadErr: configLoadErr},
		&doctor.ContribRootCheck{Root: flags.ContribRoot()},
		&doctor.ResolveCheck{Loader: l, Root: flags.ContribRoot()},
	)
	report := runner.Run(cmd.Context())

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		outputDoctorText(w, report)
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitUser)
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	// In normal mode, show only errors and warnings
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorErrors signals that at least one check failed.
var errDoctorErrors = errors.New("doctor found errors")
