package problem

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Standard function names.
const (
	FuncSetExampleNumber = "set_example_number"
	FuncSuggestedModel   = "suggested_model"
	FuncData             = "data"
	FuncForward          = "forward"
	FuncJacobian         = "jacobian"
	FuncPlotModel        = "plot_model"
	FuncPlotData         = "plot_data"
)

// StandardFunctions lists the full surface in declaration order.
var StandardFunctions = []string{
	FuncSetExampleNumber,
	FuncSuggestedModel,
	FuncData,
	FuncForward,
	FuncJacobian,
	FuncPlotModel,
	FuncPlotData,
}

// RequiredFunctions lists the functions without a not-implemented escape hatch.
var RequiredFunctions = []string{
	FuncSetExampleNumber,
	FuncSuggestedModel,
	FuncData,
	FuncForward,
}

// ErrNotImplemented signals that an optional function is unsupported.
var ErrNotImplemented = errors.New("not implemented")

// IsStandard reports whether name is part of the Standard Function Surface.
func IsStandard(name string) bool {
	return slices.Contains(StandardFunctions, name)
}

// IsRequired reports whether name is a required function.
func IsRequired(name string) bool {
	return slices.Contains(RequiredFunctions, name)
}

// Problem is the Standard Function Surface of a contribution.
//
// SetExampleNumber selects one of the examples declared in metadata.yml and
// must fail for indices outside [0, len(examples)). Values passed to Forward,
// Jacobian, PlotModel and PlotData are JSON-decoded: numbers arrive as
// float64 and arrays as []any. Use [Vector] or [Dense] to convert them.
type Problem interface {
	SetExampleNumber(n int) error
	SuggestedModel() (any, error)
	Data() (any, error)
	// Forward returns the synthetic data for model. When withJacobian is
	// true it also returns the jacobian, or ErrNotImplemented.
	Forward(model any, withJacobian bool) (synthetics, jacobian any, err error)
	Jacobian(model any) (any, error)
	PlotModel(model any) (Figure, error)
	PlotData(data any) (Figure, error)
}

// Exporter declares the public surface of a problem explicitly.
// Problems that do not implement it export every standard function.
type Exporter interface {
	Exports() []string
}

// Exports returns the names p declares.
func Exports(p Problem) []string {
	if e, ok := p.(Exporter); ok {
		return e.Exports()
	}
	return slices.Clone(StandardFunctions)
}

// Unimplemented provides ErrNotImplemented for every optional function.
// Embed it in problems that only implement the required surface.
type Unimplemented struct{}

// Jacobian implements Problem.
func (Unimplemented) Jacobian(any) (any, error) { return nil, ErrNotImplemented }

// PlotModel implements Problem.
func (Unimplemented) PlotModel(any) (Figure, error) { return nil, ErrNotImplemented }

// PlotData implements Problem.
func (Unimplemented) PlotData(any) (Figure, error) { return nil, ErrNotImplemented }
