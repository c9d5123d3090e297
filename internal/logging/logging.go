package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/thoreinstein/espresso/internal/errors"
)

// Format is a log output format selected with --log-format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a --log-format value that is not a Format.
var ErrUnknownFormat = errors.New("unknown log format")

// LevelTrace is below debug. Plugin wire traffic is logged at this level.
const LevelTrace = slog.LevelDebug - 4

// verbosity maps the number of -v flags to a level.
var verbosity = []slog.Level{slog.LevelWarn, slog.LevelInfo, slog.LevelDebug, LevelTrace}

// LevelFromVerbosity returns the level for v -v flags.
func LevelFromVerbosity(v int) slog.Level {
	return verbosity[min(max(v, 0), len(verbosity)-1)]
}

// NewFormatHandler returns a handler writing format to w. The empty format
// is text.
func NewFormatHandler(w io.Writer, format Format, level slog.Leveler) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatText, "":
		return NewHandler(w, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(format))
}

// NewDiscard returns a logger that drops every record. Components use it
// until a logger is injected.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForTest returns a trace level logger that writes through t.Log, so
// records only show for failing or verbose tests.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(NewHandler(testWriter{t}, &slog.HandlerOptions{Level: LevelTrace}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
