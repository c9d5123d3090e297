// Package errors provides error handling conventions for the espresso CLI.
//
// It re-exports the constructors and inspection helpers of
// [github.com/cockroachdb/errors] so that call sites only import one errors
// package, defines sentinel errors for common failure conditions, and
// provides the [ExitError] type that the CLI maps to process exit codes.
//
// # Sentinel Errors
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): every contribution passed
//   - ExitUser (1): a contribution failed or the invocation was invalid
//   - ExitSystem (2): I/O or environment failure
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and an optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidConfig, "Check your config file")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
