package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer with an Fd method,
// such as *os.File, is checked.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor reports whether ANSI colors should be written to w.
//
// NO_COLOR (https://no-color.org) and TERM=dumb disable color.
// ESPRESSO_FORCE_COLOR enables it for non-terminals, which is useful
// when CI logs render escape codes.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if v, ok := os.LookupEnv("ESPRESSO_FORCE_COLOR"); ok && v != "" && v != "0" {
		return true
	}
	return isTTY
}

// ConfigureColor sets the package-wide color switch used by report output
// according to whether w supports color.
func ConfigureColor(w io.Writer) {
	color.NoColor = !SupportsColor(w)
}
