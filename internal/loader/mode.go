package loader

import (
	"github.com/thoreinstein/espresso/internal/errors"
)

// Mode selects how contributions are resolved.
type Mode string

const (
	// ModeSource loads contributions from the source tree (pre-packaging).
	ModeSource Mode = "pre"
	// ModeInstalled loads installed contribution executables (post-packaging).
	ModeInstalled Mode = "post"
)

// ErrInvalidMode is returned by ParseMode for unknown modes.
var ErrInvalidMode = errors.New("invalid build mode")

// ParseMode converts "pre" or "post" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSource, ModeInstalled:
		return Mode(s), nil
	default:
		return "", errors.Mark(errors.Newf("invalid build mode %q: use %q or %q", s, ModeSource, ModeInstalled), ErrInvalidMode)
	}
}

func (m Mode) String() string {
	return string(m)
}
