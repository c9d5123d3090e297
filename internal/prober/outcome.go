package prober

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/espresso/internal/validator"
)

// Outcome is the result of probing one optional function.
type Outcome int

const (
	// Supported means the function returned a value of the right type.
	Supported Outcome = iota
	// Unsupported means the function reported that it is not implemented.
	Unsupported
	// Failed means the function errored or returned the wrong type.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Supported:
		return "supported"
	case Unsupported:
		return "unsupported"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "supported":
		*o = Supported
	case "unsupported":
		*o = Unsupported
	case "failed":
		*o = Failed
	default:
		return errors.Newf("unknown outcome %q", text)
	}
	return nil
}

// Probe is the outcome of one optional function.
type Probe struct {
	Function  string               `json:"function"`
	Outcome   Outcome              `json:"outcome"`
	Violation *validator.Violation `json:"violation,omitempty"`
}

// Report collects what probing learned about a module.
type Report struct {
	// Model and Data are the values returned for example 0.
	Model    any     `json:"-"`
	Data     any     `json:"-"`
	Optional []Probe `json:"optional"`
}

// Unsupported returns the optional functions reported as not implemented.
func (r *Report) Unsupported() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, p := range r.Optional {
		if p.Outcome == Unsupported {
			out = append(out, p.Function)
		}
	}
	return out
}

// Failure returns the first failed optional probe's violation.
func (r *Report) Failure() *validator.Violation {
	if r == nil {
		return nil
	}
	for _, p := range r.Optional {
		if p.Outcome == Failed {
			return p.Violation
		}
	}
	return nil
}
