package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to the validator during the MCP handshake.
const Version = "1.0.0"

// NewServer returns an MCP server exposing the functions p exports as tools.
// Names outside the Standard Function Surface are ignored.
func NewServer(name string, p Problem) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: Version}, nil)
	for _, fn := range Exports(p) {
		if !IsStandard(fn) {
			continue
		}
		server.AddTool(&mcp.Tool{
			Name:        fn,
			Description: toolDescriptions[fn],
			InputSchema: toolSchemas[fn],
		}, handler(fn, p))
	}
	return server
}

// Serve runs p on transport until the client disconnects or ctx is done.
func Serve(ctx context.Context, name string, p Problem, transport mcp.Transport) error {
	return NewServer(name, p).Run(ctx, transport)
}

// Main serves p over stdio and exits. It is meant to be the whole body of a
// contribution's main function.
func Main(name string, p Problem) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Serve(ctx, name, p, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		stop()
		os.Exit(1)
	}
}

func handler(fn string, p Problem) mcp.ToolHandler {
	return func(_ context.Context, req *mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				res, err = toolError(errors.Newf("%s panicked: %v", fn, r)), nil
			}
		}()

		var args Args
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return toolError(errors.Wrap(err, "decoding arguments")), nil
			}
		}

		env, fig, err := call(fn, p, args)
		switch {
		case errors.Is(err, ErrNotImplemented):
			return result(&Envelope{Status: StatusNotImplemented}, nil)
		case err != nil:
			return toolError(err), nil
		}
		return result(env, fig)
	}
}

func call(fn string, p Problem, args Args) (*Envelope, Figure, error) {
	ok := func(v any) *Envelope { return &Envelope{Status: StatusOK, Value: v} }

	switch fn {
	case FuncSetExampleNumber:
		return ok(nil), nil, p.SetExampleNumber(args.Index)
	case FuncSuggestedModel:
		v, err := p.SuggestedModel()
		return ok(v), nil, err
	case FuncData:
		v, err := p.Data()
		return ok(v), nil, err
	case FuncForward:
		v, jac, err := p.Forward(args.Model, args.WithJacobian)
		env := ok(v)
		if args.WithJacobian {
			env.Jacobian = jac
		}
		return env, nil, err
	case FuncJacobian:
		v, err := p.Jacobian(args.Model)
		return ok(v), nil, err
	case FuncPlotModel:
		fig, err := p.PlotModel(args.Model)
		return ok(nil), fig, err
	case FuncPlotData:
		fig, err := p.PlotData(args.Data)
		return ok(nil), fig, err
	default:
		return nil, nil, errors.Newf("unknown function %q", fn)
	}
}

func result(env *Envelope, fig Figure) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return toolError(errors.Wrap(err, "encoding result")), nil
	}
	res := &mcp.CallToolResult{
		StructuredContent: json.RawMessage(raw),
		Content:           []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
	if fig == nil {
		return res, nil
	}
	rendered, err := Render(fig)
	if err != nil {
		return toolError(err), nil
	}
	res.Content = append(res.Content, &mcp.ImageContent{MIMEType: rendered.MIMEType, Data: rendered.Data})
	return res, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
