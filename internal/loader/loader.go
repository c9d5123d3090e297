package loader

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/logging"
)

// ClientName is the MCP implementation name the validator announces.
const ClientName = "espresso-validator"

// Loader errors.
var (
	// ErrModuleNotFound indicates the contribution cannot be resolved.
	ErrModuleNotFound = errors.New("module not found")
	// ErrLoad indicates the contribution was found but failed to start.
	ErrLoad = errors.New("module failed to load")
)

// TransportFunc returns the transport used to reach a contribution.
type TransportFunc func(c contrib.Contribution) (mcp.Transport, error)

// Loader resolves contributions and connects to them.
type Loader struct {
	mode          Mode
	pkg           string
	sourceCommand []string
	binDir        string
	version       string
	callTimeout   time.Duration
	logger        *slog.Logger
	transport     TransportFunc

	pathOnce sync.Once
}

// Option configures a Loader.
type Option func(*Loader)

// WithPackage sets the distribution name used to resolve installed
// executables as <package>-<name>.
func WithPackage(pkg string) Option {
	return func(l *Loader) { l.pkg = pkg }
}

// WithSourceCommand sets the command run inside a contribution folder in
// source mode.
func WithSourceCommand(args ...string) Option {
	return func(l *Loader) { l.sourceCommand = args }
}

// WithBinDir sets a directory prepended to PATH in installed mode.
func WithBinDir(dir string) Option {
	return func(l *Loader) { l.binDir = dir }
}

// WithVersion sets the client version announced during the handshake.
func WithVersion(v string) Option {
	return func(l *Loader) { l.version = v }
}

// WithCallTimeout bounds the handshake and every function call. Zero
// means no limit.
func WithCallTimeout(d time.Duration) Option {
	return func(l *Loader) { l.callTimeout = d }
}

// WithLogger sets the logger used for loader events and plugin stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithTransport replaces process resolution with fn.
func WithTransport(fn TransportFunc) Option {
	return func(l *Loader) { l.transport = fn }
}

// New creates a Loader for mode.
func New(mode Mode, opts ...Option) *Loader {
	l := &Loader{
		mode:          mode,
		pkg:           "espresso",
		sourceCommand: []string{"go", "run", "."},
		version:       "dev",
		logger:        logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mode returns the resolution mode.
func (l *Loader) Mode() Mode {
	return l.mode
}

// Load starts c and connects an MCP session to it. The returned Module must
// be closed.
func (l *Loader) Load(ctx context.Context, c contrib.Contribution) (*Module, error) {
	logger := l.logger.With(logging.SubjectKey, c.Name, "mode", l.mode.String())

	var stderr *logging.LineWriter
	transport, err := l.resolveTransport(c, func(cmd *exec.Cmd) {
		stderr = logging.NewLineWriter(logger, slog.LevelDebug, "plugin stderr")
		cmd.Stderr = stderr
	})
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := withTimeout(ctx, l.callTimeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: ClientName, Version: l.version}, nil)
	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		if stderr != nil {
			stderr.Flush()
		}
		return nil, errors.Mark(errors.Wrapf(err, "starting %s", c.Name), ErrLoad)
	}

	exports, err := listTools(connectCtx, session)
	if err != nil {
		_ = session.Close()
		return nil, errors.Mark(errors.Wrapf(err, "listing exports of %s", c.Name), ErrLoad)
	}

	logger.Debug("module loaded", "exports", strings.Join(exports, ","))
	return &Module{
		name:    c.Name,
		session: session,
		exports: exports,
		timeout: l.callTimeout,
		stderr:  stderr,
		logger:  logger,
	}, nil
}

// Command returns the command that would serve c, without starting it.
func (l *Loader) Command(c contrib.Contribution) (*exec.Cmd, error) {
	switch l.mode {
	case ModeSource:
		return l.sourceCmd(c)
	case ModeInstalled:
		return l.installedCmd(c)
	default:
		return nil, errors.Mark(errors.Newf("invalid build mode %q", l.mode), ErrInvalidMode)
	}
}

func (l *Loader) resolveTransport(c contrib.Contribution, attach func(*exec.Cmd)) (mcp.Transport, error) {
	if l.transport != nil {
		t, err := l.transport(c)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "resolving %s", c.Name), ErrModuleNotFound)
		}
		return t, nil
	}

	cmd, err := l.Command(c)
	if err != nil {
		return nil, err
	}
	attach(cmd)
	return &mcp.CommandTransport{Command: cmd}, nil
}

func (l *Loader) sourceCmd(c contrib.Contribution) (*exec.Cmd, error) {
	info, err := os.Stat(c.Path)
	if err != nil || !info.IsDir() {
		return nil, errors.Mark(errors.Newf("contribution folder %s does not exist", c.Path), ErrModuleNotFound)
	}
	if len(l.sourceCommand) == 0 {
		return nil, errors.Mark(errors.New("source command is empty"), ErrLoad)
	}

	bin, err := exec.LookPath(l.sourceCommand[0])
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "resolving source command %q", l.sourceCommand[0]), ErrLoad)
	}
	cmd := exec.Command(bin, l.sourceCommand[1:]...)
	cmd.Dir = c.Path
	return cmd, nil
}

func (l *Loader) installedCmd(c contrib.Contribution) (*exec.Cmd, error) {
	l.pathOnce.Do(l.prependBinDir)

	name := l.ExecutableName(c.Name)
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "resolving %s", name), ErrModuleNotFound)
	}
	return exec.Command(bin), nil
}

// ExecutableName returns the installed executable name for a contribution.
func (l *Loader) ExecutableName(name string) string {
	return l.pkg + "-" + name
}

// prependBinDir puts the bin directory first on the process PATH. The change
// lasts for the rest of the process.
func (l *Loader) prependBinDir() {
	if l.binDir == "" {
		return
	}
	path := l.binDir
	if cur := os.Getenv("PATH"); cur != "" {
		path += string(os.PathListSeparator) + cur
	}
	if err := os.Setenv("PATH", path); err != nil {
		l.logger.Warn("failed to update PATH", "bin_dir", l.binDir, "error", err)
		return
	}
	l.logger.Debug("prepended bin dir to PATH", "bin_dir", l.binDir)
}

func listTools(ctx context.Context, session *mcp.ClientSession) ([]string, error) {
	var names []string
	params := &mcp.ListToolsParams{}
	for {
		res, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, t := range res.Tools {
			names = append(names, t.Name)
		}
		if res.NextCursor == "" {
			return names, nil
		}
		params = &mcp.ListToolsParams{Cursor: res.NextCursor}
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
