package config

import (
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not understood.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidCommand indicates the source command cannot be split into arguments.
	ErrInvalidCommand = errors.New("invalid source command")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Newf("%s: %d", ErrUnsupportedVersion, cfg.Version))
	}

	if _, err := loader.ParseMode(cfg.Mode); err != nil {
		errs = append(errs, err)
	}

	if err := validatePath(cfg.ContribRoot); err != nil || cfg.ContribRoot == "" {
		errs = append(errs, &PathError{Field: "contrib_root", Path: cfg.ContribRoot, Err: ErrInvalidPath})
	}

	if cfg.BinDir != "" {
		if err := validatePath(cfg.BinDir); err != nil {
			errs = append(errs, &PathError{Field: "bin_dir", Path: cfg.BinDir, Err: err})
		}
	}

	if strings.TrimSpace(cfg.Package) == "" {
		errs = append(errs, errors.New("package must not be empty"))
	}

	if len(cfg.RequiredFiles) == 0 {
		errs = append(errs, errors.New("required_files must list at least one file"))
	}
	for _, f := range cfg.RequiredFiles {
		if f == "" || filepath.Base(f) != f {
			errs = append(errs, &PathError{Field: "required_files", Path: f, Err: ErrInvalidPath})
		}
	}

	if argv, err := shlex.Split(cfg.SourceCommand); err != nil || len(argv) == 0 {
		errs = append(errs, errors.Newf("%s: %q", ErrInvalidCommand, cfg.SourceCommand))
	}

	if cfg.CallTimeout < 0 {
		errs = append(errs, errors.Newf("call_timeout must not be negative: %s", cfg.CallTimeout))
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
