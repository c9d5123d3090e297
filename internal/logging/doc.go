// Package logging provides structured logging for the espresso CLI using slog.
//
// The package supports text and JSON output with configurable levels. All
// loggers are based on the standard library's [log/slog] package.
//
// # Basic Usage
//
//	h, err := logging.NewFormatHandler(os.Stderr, logging.FormatText, slog.LevelInfo)
//	if err != nil {
//		return err
//	}
//	slog.New(h).Info("validating", logging.SubjectKey, "gravity_density")
//
// The text handler prints the [SubjectKey] attribute as a "[name]" prefix so
// that the records of a batch run read per contribution.
//
// # Context
//
// Commands store the configured logger in their context with [NewContext];
// library code retrieves it with [FromContext], which falls back to
// [slog.Default].
//
// # Plugin Output
//
// [NewLineWriter] turns each line written by a contribution process on
// stderr into a log record.
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
