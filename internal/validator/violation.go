package validator

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the category of a failed rule.
type Kind string

const (
	// KindStructural covers a missing or malformed contribution folder.
	KindStructural Kind = "structural"
	// KindInterface covers undeclared functions and wrong return types.
	KindInterface Kind = "interface"
	// KindMetadata covers unparsable or schema-invalid metadata.
	KindMetadata Kind = "metadata"
	// KindBehavioral covers functions that fail when called.
	KindBehavioral Kind = "behavioral"
	// KindConfiguration covers an invalid validator invocation.
	KindConfiguration Kind = "configuration"
)

// Violation is a failed rule. Subject names the offending function, file
// or metadata field; Err is the underlying cause, if any.
type Violation struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject,omitempty"`
	Rule    string `json:"rule"`
	Err     error  `json:"-"`
}

// NewViolation returns a violation of rule by subject.
func NewViolation(kind Kind, subject, rule string, err error) *Violation {
	return &Violation{Kind: kind, Subject: subject, Rule: rule, Err: err}
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var sb strings.Builder
	sb.WriteString(string(v.Kind))
	sb.WriteString(": ")
	if v.Subject != "" {
		sb.WriteString(v.Subject)
		sb.WriteString(": ")
	}
	sb.WriteString(v.Rule)
	if v.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(v.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (v *Violation) Unwrap() error {
	return v.Err
}

// MarshalJSON includes the rendered message alongside the fields.
func (v *Violation) MarshalJSON() ([]byte, error) {
	type plain Violation
	return json.Marshal(struct {
		*plain
		Message string `json:"message"`
	}{(*plain)(v), v.Error()})
}

// AsViolation returns the first violation in err's chain.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
