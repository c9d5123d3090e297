package conformance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
	"github.com/thoreinstein/espresso/internal/logging"
	"github.com/thoreinstein/espresso/internal/metadata"
	"github.com/thoreinstein/espresso/internal/prober"
	"github.com/thoreinstein/espresso/internal/validator"
	"github.com/thoreinstein/espresso/pkg/problem"
)

// Rules reported by the orchestrator itself.
const (
	RuleUnresolved        = "module cannot be resolved"
	RuleLoadFailed        = "module failed to load"
	RuleMetadataUnread    = "metadata document cannot be read"
	RuleMetadataParse     = "metadata document cannot be parsed"
	RuleMetadataSchema    = "metadata document does not match the schema"
	RuleExampleSelect     = "declared example cannot be selected"
	RuleExampleDimensions = "example does not match its declared dimensions"
	RuleDimensionValue    = "declared dimension is not a positive integer"
)

// Validator runs the conformance steps over contributions.
type Validator struct {
	root    string
	only    []string
	layout  *contrib.Layout
	loader  *loader.Loader
	checker *metadata.Checker
	prober  *prober.Prober
	strict  bool
	logger  *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithRoot sets the contributions root folder.
func WithRoot(root string) Option {
	return func(v *Validator) { v.root = root }
}

// WithOnly restricts Run to the named contributions.
func WithOnly(names ...string) Option {
	return func(v *Validator) { v.only = names }
}

// WithRequiredFiles overrides the required artifact list.
func WithRequiredFiles(files ...string) Option {
	return func(v *Validator) { v.layout = contrib.NewLayout(files...) }
}

// WithStrict also checks, for every example, that the suggested model and
// data have as many elements as metadata.yml declares.
func WithStrict(strict bool) Option {
	return func(v *Validator) { v.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// New creates a Validator loading contributions with l.
func New(l *loader.Loader, opts ...Option) (*Validator, error) {
	checker, err := metadata.NewChecker()
	if err != nil {
		return nil, err
	}

	v := &Validator{
		root:    "contrib",
		layout:  contrib.NewLayout(),
		loader:  l,
		checker: checker,
		logger:  logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.prober = prober.New(v.logger)
	return v, nil
}

// Run validates the contributions under the root, one at a time. It returns
// an error only when the contributions cannot be listed or ctx ends; failing
// contributions are reported in the Summary.
func (v *Validator) Run(ctx context.Context) (*Summary, error) {
	contribs, err := contrib.Find(v.root, v.only...)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		RunID:     uuid.NewString(),
		Mode:      v.loader.Mode(),
		Strict:    v.strict,
		StartedAt: time.Now(),
	}
	logger := v.logger.With("run_id", s.RunID)
	logger.Info("validation started", "root", v.root, "contributions", len(contribs), "mode", s.Mode.String())

	for _, c := range contribs {
		if err := ctx.Err(); err != nil {
			s.Duration = time.Since(s.StartedAt)
			return s, errors.Wrap(err, "validation interrupted")
		}
		r := v.Validate(ctx, c)
		s.add(r)
		if r.Passed {
			logger.Info("contribution passed", logging.SubjectKey, c.Name, "duration", r.Duration)
		} else {
			logger.Info("contribution failed", logging.SubjectKey, c.Name, "step", string(r.FailedStep), "error", r.Violation.Error())
		}
	}

	s.Duration = time.Since(s.StartedAt)
	logger.Info("validation finished", "passed", s.Passed, "failed", s.Failed, "duration", s.Duration)
	return s, nil
}

// Validate runs every step on c.
func (v *Validator) Validate(ctx context.Context, c contrib.Contribution) *Result {
	start := time.Now()
	r := &Result{Name: c.Name, Path: c.Path}
	logger := v.logger.With(logging.SubjectKey, c.Name)

	step, viol := v.validate(ctx, c, r, logger)
	r.Duration = time.Since(start)
	if viol != nil {
		r.FailedStep = step
		r.Violation = viol
		return r
	}
	r.Passed = true
	return r
}

func (v *Validator) validate(ctx context.Context, c contrib.Contribution, r *Result, logger *slog.Logger) (Step, *validator.Violation) {
	if viol := v.layout.CheckNaming(c); viol != nil {
		return StepNaming, viol
	}
	if viol := v.layout.CheckArtifacts(c); viol != nil {
		return StepArtifacts, viol
	}

	m, err := v.loader.Load(ctx, c)
	if err != nil {
		return StepLoad, loadViolation(c, err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Debug("closing module", "error", err)
		}
	}()

	if viol := prober.CheckExports(m); viol != nil {
		return StepExports, viol
	}
	model, data, viol := v.prober.ProbeRequired(ctx, m)
	if viol != nil {
		return StepRequired, viol
	}
	report := &prober.Report{Model: model, Data: data, Optional: v.prober.ProbeOptional(ctx, m, model, data)}
	r.Unsupported = report.Unsupported()
	if viol := report.Failure(); viol != nil {
		return StepOptional, viol
	}

	meta, viol := v.checkMetadata(c)
	if viol != nil {
		return StepMetadata, viol
	}
	r.ExampleCount = meta.ExampleCount()

	if viol := v.checkExamples(ctx, m, meta); viol != nil {
		return StepExamples, viol
	}
	if viol := v.layout.CheckLicence(c); viol != nil {
		return StepLicence, viol
	}
	return "", nil
}

func loadViolation(c contrib.Contribution, err error) *validator.Violation {
	if errors.Is(err, loader.ErrModuleNotFound) {
		return validator.NewViolation(validator.KindStructural, c.Name, RuleUnresolved, err)
	}
	return validator.NewViolation(validator.KindBehavioral, c.Name, RuleLoadFailed, err)
}

func (v *Validator) checkMetadata(c contrib.Contribution) (*metadata.Metadata, *validator.Violation) {
	meta, err := v.checker.CheckFile(c.File(contrib.Metadata))
	if err == nil {
		return meta, nil
	}

	var perr *metadata.ParseError
	var serr *metadata.SchemaError
	switch {
	case errors.As(err, &perr):
		return nil, validator.NewViolation(validator.KindMetadata, contrib.Metadata, RuleMetadataParse, err)
	case errors.As(err, &serr):
		return nil, validator.NewViolation(validator.KindMetadata, contrib.Metadata, RuleMetadataSchema, err)
	default:
		return nil, validator.NewViolation(validator.KindMetadata, contrib.Metadata, RuleMetadataUnread, err)
	}
}

// checkExamples selects every declared example. In strict mode it also
// requires each declared dimension to be a positive integer and compares
// it with the element counts of the suggested model and data.
func (v *Validator) checkExamples(ctx context.Context, m prober.Module, meta *metadata.Metadata) *validator.Violation {
	for i, ex := range meta.Examples {
		if err := m.SetExampleNumber(ctx, i); err != nil {
			return validator.NewViolation(validator.KindBehavioral, problem.FuncSetExampleNumber, RuleExampleSelect,
				errors.Wrapf(err, "example %d of %d", i, len(meta.Examples)))
		}
		if !v.strict {
			continue
		}
		if viol := checkDimension(ctx, i, "model_dimension", ex.ModelDimension, problem.FuncSuggestedModel, m.SuggestedModel); viol != nil {
			return viol
		}
		if viol := checkDimension(ctx, i, "data_dimension", ex.DataDimension, problem.FuncData, m.Data); viol != nil {
			return viol
		}
	}
	return nil
}

func checkDimension(ctx context.Context, i int, field string, dim metadata.Dimension, fn string, get func(context.Context) (any, error)) *validator.Violation {
	want, err := dim.Int()
	if err != nil {
		return validator.NewViolation(validator.KindMetadata, contrib.Metadata, RuleDimensionValue,
			errors.Wrapf(err, "examples[%d].%s", i, field))
	}
	val, err := get(ctx)
	if err != nil {
		return validator.NewViolation(validator.KindBehavioral, fn, prober.RuleRequiredFailed, errors.Wrapf(err, "example %d", i))
	}
	if !problem.IsArrayLike(val) {
		return validator.NewViolation(validator.KindInterface, fn, prober.RuleNotArrayLike, errors.Newf("example %d", i))
	}
	if got := problem.Size(val); got != want {
		return validator.NewViolation(validator.KindInterface, fn, RuleExampleDimensions,
			errors.Newf("example %d: got %d elements, metadata.yml declares %d", i, got, want))
	}
	return nil
}
