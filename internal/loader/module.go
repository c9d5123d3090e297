package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/logging"
	"github.com/thoreinstein/espresso/pkg/problem"
)

// CallError is a standard function that failed inside the contribution or
// could not be called.
type CallError struct {
	Function string
	Message  string
	Err      error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return "calling " + e.Function + ": " + e.Err.Error()
	}
	return e.Function + " failed: " + e.Message
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Module is a loaded contribution.
type Module struct {
	name    string
	session *mcp.ClientSession
	exports []string
	timeout time.Duration
	stderr  *logging.LineWriter
	logger  *slog.Logger
}

// Name returns the contribution name.
func (m *Module) Name() string {
	return m.name
}

// Exports returns the function names the contribution declares.
func (m *Module) Exports() []string {
	return slices.Clone(m.exports)
}

// SetExampleNumber selects example n.
func (m *Module) SetExampleNumber(ctx context.Context, n int) error {
	_, _, err := m.call(ctx, problem.FuncSetExampleNumber, problem.Args{Index: n})
	return err
}

// SuggestedModel returns the suggested model of the current example.
func (m *Module) SuggestedModel(ctx context.Context) (any, error) {
	env, _, err := m.call(ctx, problem.FuncSuggestedModel, problem.Args{})
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// Data returns the data of the current example.
func (m *Module) Data(ctx context.Context) (any, error) {
	env, _, err := m.call(ctx, problem.FuncData, problem.Args{})
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// Forward returns the synthetic data for model.
func (m *Module) Forward(ctx context.Context, model any) (any, error) {
	env, _, err := m.call(ctx, problem.FuncForward, problem.Args{Model: model})
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// ForwardWithJacobian returns the synthetic data and the jacobian for model.
func (m *Module) ForwardWithJacobian(ctx context.Context, model any) (any, any, error) {
	env, _, err := m.call(ctx, problem.FuncForward, problem.Args{Model: model, WithJacobian: true})
	if err != nil {
		return nil, nil, err
	}
	return env.Value, env.Jacobian, nil
}

// Jacobian returns the jacobian at model.
func (m *Module) Jacobian(ctx context.Context, model any) (any, error) {
	env, _, err := m.call(ctx, problem.FuncJacobian, problem.Args{Model: model})
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// PlotModel returns the figure of model. The value is a *problem.Rendered
// when the contribution sent an image, and the raw result value otherwise.
func (m *Module) PlotModel(ctx context.Context, model any) (any, error) {
	return m.figure(ctx, problem.FuncPlotModel, problem.Args{Model: model})
}

// PlotData returns the figure of data, decoded as for PlotModel.
func (m *Module) PlotData(ctx context.Context, data any) (any, error) {
	return m.figure(ctx, problem.FuncPlotData, problem.Args{Data: data})
}

// Close ends the session and stops the contribution process.
func (m *Module) Close() error {
	err := m.session.Close()
	if m.stderr != nil {
		m.stderr.Flush()
	}
	if err != nil {
		return errors.Wrapf(err, "closing %s", m.name)
	}
	return nil
}

func (m *Module) figure(ctx context.Context, fn string, args problem.Args) (any, error) {
	env, res, err := m.call(ctx, fn, args)
	if err != nil {
		return nil, err
	}
	for _, c := range res.Content {
		if img, ok := c.(*mcp.ImageContent); ok {
			return &problem.Rendered{MIMEType: img.MIMEType, Data: img.Data}, nil
		}
	}
	return env.Value, nil
}

func (m *Module) call(ctx context.Context, fn string, args problem.Args) (*problem.Envelope, *mcp.CallToolResult, error) {
	m.logger.Log(ctx, logging.LevelTrace, "calling function", "function", fn)

	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	res, err := m.session.CallTool(ctx, &mcp.CallToolParams{Name: fn, Arguments: args})
	if err != nil {
		return nil, nil, &CallError{Function: fn, Err: err}
	}
	if res.IsError {
		return nil, nil, &CallError{Function: fn, Message: textContent(res)}
	}

	env, err := envelope(res)
	if err != nil {
		return nil, nil, &CallError{Function: fn, Err: err}
	}
	if env.Status == problem.StatusNotImplemented {
		return nil, nil, errors.Wrapf(problem.ErrNotImplemented, "%s", fn)
	}
	return env, res, nil
}

// envelope decodes the structured result, falling back to a JSON text
// block for servers that only send text.
func envelope(res *mcp.CallToolResult) (*problem.Envelope, error) {
	if res.StructuredContent != nil {
		return problem.DecodeEnvelope(res.StructuredContent)
	}
	text := textContent(res)
	if text == "" {
		return nil, errors.New("result has no content")
	}
	return problem.DecodeEnvelope(json.RawMessage(text))
}

func textContent(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}
