package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
)

// ConfigCheck reports whether the configuration loaded and validated.
type ConfigCheck struct {
	// File is the configuration file in use, or "" when only defaults apply.
	File string
	// LoadErr is the error returned while loading the configuration.
	LoadErr error
}

var _ Check = (*ConfigCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string { return "config" }

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string { return "config" }

// Run executes the check.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	if c.LoadErr != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: c.LoadErr.Error(),
			FixHint: "Check config.yaml or the ESPRESSO_* environment variables",
		}
	}
	if c.File == "" {
		return &CheckResult{
			Status:  SeverityInfo,
			Message: "no config file found, using defaults",
		}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: "configuration is valid",
		Details: map[string]any{"file": c.File},
	}
}

// ContribRootCheck reports whether the contributions root holds
// contributions with usable names.
type ContribRootCheck struct {
	Root string
}

var _ Check = (*ContribRootCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ContribRootCheck) Name() string { return "contrib-root" }

// Category returns the grouping for this check.
func (c *ContribRootCheck) Category() string { return "contrib" }

// Run executes the check.
func (c *ContribRootCheck) Run(_ context.Context) *CheckResult {
	contribs, err := contrib.Discover(c.Root)
	if err != nil {
		hint := "Check that the directory is readable"
		if errors.Is(err, errors.ErrNotFound) {
			hint = "Run from the repository root, pass --root or set contrib_root"
		}
		return &CheckResult{
			Status:  SeverityError,
			Message: err.Error(),
			FixHint: hint,
		}
	}

	if len(contribs) == 0 {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: fmt.Sprintf("no contributions under %s", c.Root),
			FixHint: "Create one with 'espresso contrib init <name>'",
		}
	}

	var invalid []string
	for _, ct := range contribs {
		if contrib.ValidateName(ct.Name) != nil {
			invalid = append(invalid, ct.Name)
		}
	}
	if len(invalid) > 0 {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: fmt.Sprintf("%d of %d contribution names cannot be used as executable suffixes: %s", len(invalid), len(contribs), strings.Join(invalid, ", ")),
			Details: map[string]any{"root": c.Root, "invalid": invalid},
			FixHint: "Rename the folders to lowercase letters, digits and underscores",
		}
	}

	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d contributions under %s", len(contribs), c.Root),
		Details: map[string]any{"root": c.Root, "count": len(contribs)},
	}
}

// ResolveCheck reports whether the loader can resolve the command that
// serves each contribution, without starting any of them.
type ResolveCheck struct {
	Loader *loader.Loader
	Root   string
}

var _ Check = (*ResolveCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ResolveCheck) Name() string { return "resolve" }

// Category returns the grouping for this check.
func (c *ResolveCheck) Category() string { return "loader" }

// Run executes the check.
func (c *ResolveCheck) Run(ctx context.Context) *CheckResult {
	contribs, err := contrib.Discover(c.Root)
	if err != nil {
		return &CheckResult{
			Status:  SeverityInfo,
			Message: "skipped: contributions root is not readable",
		}
	}

	var unresolved []string
	var firstErr error
	for _, ct := range contribs {
		if ctx.Err() != nil {
			break
		}
		if _, err := c.Loader.Command(ct); err != nil {
			unresolved = append(unresolved, ct.Name)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	mode := c.Loader.Mode()
	if len(unresolved) > 0 {
		hint := "Check source_command and that the Go toolchain is on PATH"
		if mode == loader.ModeInstalled {
			hint = "Install the executables or pass --bin-dir"
		}
		return &CheckResult{
			Status:  SeverityError,
			Message: fmt.Sprintf("%d of %d contributions cannot be resolved in %s mode: %v", len(unresolved), len(contribs), mode, firstErr),
			Details: map[string]any{"mode": mode.String(), "unresolved": unresolved},
			FixHint: hint,
		}
	}

	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d contributions resolve in %s mode", len(contribs), mode),
		Details: map[string]any{"mode": mode.String()},
	}
}
