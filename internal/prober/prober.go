package prober

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/espresso/internal/logging"
	"github.com/thoreinstein/espresso/internal/validator"
	"github.com/thoreinstein/espresso/pkg/problem"
)

// Rules reported by the prober.
const (
	RuleUndeclared     = "undeclared standard function"
	RuleRequiredFailed = "required function failed"
	RuleNotArrayLike   = "required function returned a scalar/non-array value"
	RuleOptionalFailed = "optional function failed"
	RuleOptionalType   = "optional function returned a scalar/non-array value"
	RuleJacobianPair   = "forward with jacobian must return synthetic data and a jacobian, both array-like"
	RuleNotRenderable  = "plot function must return a renderable figure"
)

// maxDescribed caps the length of values quoted in violations.
const maxDescribed = 60

// Module is the standard function surface as seen by the validator.
// *loader.Module satisfies it.
type Module interface {
	Exports() []string
	SetExampleNumber(ctx context.Context, n int) error
	SuggestedModel(ctx context.Context) (any, error)
	Data(ctx context.Context) (any, error)
	Forward(ctx context.Context, model any) (any, error)
	ForwardWithJacobian(ctx context.Context, model any) (any, any, error)
	Jacobian(ctx context.Context, model any) (any, error)
	PlotModel(ctx context.Context, model any) (any, error)
	PlotData(ctx context.Context, data any) (any, error)
}

// Prober exercises modules.
type Prober struct {
	logger *slog.Logger
}

// New returns a Prober logging to logger.
func New(logger *slog.Logger) *Prober {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Prober{logger: logger}
}

// Probe runs every stage and stops at the first violation.
func (p *Prober) Probe(ctx context.Context, m Module) (*Report, *validator.Violation) {
	if v := CheckExports(m); v != nil {
		return nil, v
	}
	model, data, v := p.ProbeRequired(ctx, m)
	if v != nil {
		return nil, v
	}
	report := &Report{
		Model:    model,
		Data:     data,
		Optional: p.ProbeOptional(ctx, m, model, data),
	}
	return report, report.Failure()
}

// CheckExports requires every standard function in the export list. It
// never calls the module.
func CheckExports(m Module) *validator.Violation {
	exports := m.Exports()
	for _, fn := range problem.StandardFunctions {
		if !slices.Contains(exports, fn) {
			return validator.NewViolation(validator.KindInterface, fn, RuleUndeclared, nil)
		}
	}
	return nil
}

// ProbeRequired calls the required functions for example 0 and returns the
// suggested model and data.
func (p *Prober) ProbeRequired(ctx context.Context, m Module) (model, data any, v *validator.Violation) {
	if err := m.SetExampleNumber(ctx, 0); err != nil {
		return nil, nil, requiredFailed(problem.FuncSetExampleNumber, err)
	}

	model, err := m.SuggestedModel(ctx)
	if err != nil {
		return nil, nil, requiredFailed(problem.FuncSuggestedModel, err)
	}
	if v := requireArray(problem.FuncSuggestedModel, model); v != nil {
		return nil, nil, v
	}

	data, err = m.Data(ctx)
	if err != nil {
		return nil, nil, requiredFailed(problem.FuncData, err)
	}
	if v := requireArray(problem.FuncData, data); v != nil {
		return nil, nil, v
	}

	synthetics, err := m.Forward(ctx, model)
	if err != nil {
		return nil, nil, requiredFailed(problem.FuncForward, err)
	}
	if v := requireArray(problem.FuncForward, synthetics); v != nil {
		return nil, nil, v
	}

	p.logger.Debug("required functions ok", "model_ndim", problem.Ndim(model), "data_ndim", problem.Ndim(data))
	return model, data, nil
}

// ProbeOptional calls each optional function once, in order, and stops after
// the first one that fails.
func (p *Prober) ProbeOptional(ctx context.Context, m Module, model, data any) []Probe {
	checks := []struct {
		fn  string
		run func() (*validator.Violation, error)
	}{
		{problem.FuncForward, func() (*validator.Violation, error) {
			synthetics, jacobian, err := m.ForwardWithJacobian(ctx, model)
			if err != nil {
				return nil, err
			}
			if !problem.IsArrayLike(synthetics) || !problem.IsArrayLike(jacobian) {
				return validator.NewViolation(validator.KindInterface, problem.FuncForward, RuleJacobianPair,
					errors.Newf("got (%s, %s)", describe(synthetics), describe(jacobian))), nil
			}
			return nil, nil
		}},
		{problem.FuncJacobian, func() (*validator.Violation, error) {
			jacobian, err := m.Jacobian(ctx, model)
			if err != nil {
				return nil, err
			}
			if !problem.IsArrayLike(jacobian) {
				return validator.NewViolation(validator.KindInterface, problem.FuncJacobian, RuleOptionalType,
					errors.Newf("got %s", describe(jacobian))), nil
			}
			return nil, nil
		}},
		{problem.FuncPlotModel, func() (*validator.Violation, error) {
			fig, err := m.PlotModel(ctx, model)
			if err != nil {
				return nil, err
			}
			return requireFigure(problem.FuncPlotModel, fig), nil
		}},
		{problem.FuncPlotData, func() (*validator.Violation, error) {
			fig, err := m.PlotData(ctx, data)
			if err != nil {
				return nil, err
			}
			return requireFigure(problem.FuncPlotData, fig), nil
		}},
	}

	probes := make([]Probe, 0, len(checks))
	for _, c := range checks {
		pr := p.probe(c.fn, c.run)
		probes = append(probes, pr)
		if pr.Outcome == Failed {
			p.logger.Debug("skipping remaining optional functions", "after", c.fn)
			break
		}
	}
	return probes
}

// probe classifies one optional call. A not-implemented error is the only
// accepted failure.
func (p *Prober) probe(fn string, run func() (*validator.Violation, error)) Probe {
	v, err := run()
	switch {
	case errors.Is(err, problem.ErrNotImplemented):
		p.logger.Debug("optional function not implemented", "function", fn)
		return Probe{Function: fn, Outcome: Unsupported}
	case err != nil:
		v = validator.NewViolation(validator.KindBehavioral, fn, RuleOptionalFailed, err)
	case v == nil:
		p.logger.Debug("optional function supported", "function", fn)
		return Probe{Function: fn, Outcome: Supported}
	}
	p.logger.Debug("optional function failed", "function", fn, "error", v.Error())
	return Probe{Function: fn, Outcome: Failed, Violation: v}
}

func requiredFailed(fn string, err error) *validator.Violation {
	return validator.NewViolation(validator.KindBehavioral, fn, RuleRequiredFailed, err)
}

func requireArray(fn string, v any) *validator.Violation {
	if problem.IsArrayLike(v) {
		return nil
	}
	return validator.NewViolation(validator.KindInterface, fn, RuleNotArrayLike, errors.Newf("got %s", describe(v)))
}

func requireFigure(fn string, v any) *validator.Violation {
	if problem.IsFigure(v) {
		return nil
	}
	cause := errors.Newf("got %s", describe(v))
	if r, ok := v.(*problem.Rendered); ok && r != nil {
		cause = r.Validate()
	}
	return validator.NewViolation(validator.KindInterface, fn, RuleNotRenderable, cause)
}

// describe renders a value for a violation message.
func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	if r, ok := v.(*problem.Rendered); ok {
		return fmt.Sprintf("%s image of %d bytes", r.MIMEType, len(r.Data))
	}
	s := fmt.Sprintf("%T %v", v, v)
	if len(s) > maxDescribed {
		s = s[:maxDescribed-3] + "..."
	}
	return s
}
