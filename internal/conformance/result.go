package conformance

import (
	"time"

	"github.com/thoreinstein/espresso/internal/loader"
	"github.com/thoreinstein/espresso/internal/validator"
)

// Step names a validation step.
type Step string

// Validation steps in execution order.
const (
	StepNaming    Step = "naming"
	StepArtifacts Step = "artifacts"
	StepLoad      Step = "load"
	StepExports   Step = "exports"
	StepRequired  Step = "required"
	StepOptional  Step = "optional"
	StepMetadata  Step = "metadata"
	StepExamples  Step = "examples"
	StepLicence   Step = "licence"
)

// Steps lists every step in execution order.
var Steps = []Step{
	StepNaming,
	StepArtifacts,
	StepLoad,
	StepExports,
	StepRequired,
	StepOptional,
	StepMetadata,
	StepExamples,
	StepLicence,
}

// Result is the outcome of validating one contribution.
type Result struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Passed bool   `json:"passed"`
	// FailedStep and Violation are set when Passed is false.
	FailedStep Step                 `json:"failed_step,omitempty"`
	Violation  *validator.Violation `json:"violation,omitempty"`
	// ExampleCount is the number of examples declared in metadata.yml, once read.
	ExampleCount int `json:"example_count"`
	// Unsupported lists optional functions that reported not implemented.
	Unsupported []string      `json:"unsupported,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// Err returns the violation with the contribution name attached, or nil.
func (r *Result) Err() error {
	if r.Passed || r.Violation == nil {
		return nil
	}
	return &Failure{Contribution: r.Name, Step: r.FailedStep, Violation: r.Violation}
}

// Issues converts r into a validator.Result for reporting.
func (r *Result) Issues() *validator.Result {
	out := &validator.Result{Subject: r.Name}
	if r.Violation != nil {
		out.AddViolation(r.Violation)
		out.Issues[len(out.Issues)-1].Context = map[string]string{"step": string(r.FailedStep)}
	}
	for _, fn := range r.Unsupported {
		out.AddInfo(fn, "not implemented", nil)
	}
	return out
}

// Failure is a contribution that failed a step.
type Failure struct {
	Contribution string
	Step         Step
	Violation    *validator.Violation
}

func (f *Failure) Error() string {
	return "contribution " + f.Contribution + " failed at " + string(f.Step) + ": " + f.Violation.Error()
}

func (f *Failure) Unwrap() error {
	return f.Violation
}

// Summary is the outcome of a validation run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Mode      loader.Mode   `json:"mode"`
	Strict    bool          `json:"strict"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Results   []*Result     `json:"results"`
}

// OK reports whether every contribution passed.
func (s *Summary) OK() bool {
	return s != nil && s.Failed == 0
}

func (s *Summary) add(r *Result) {
	s.Results = append(s.Results, r)
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}
