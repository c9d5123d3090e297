package metadata

import (
	"fmt"
	"strings"
)

// ParseError indicates that a metadata document is not valid YAML.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Problem is a single schema violation at a location in the document.
type Problem struct {
	// Location is the path of the offending value, e.g. "examples[1]".
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (p Problem) String() string {
	return p.Location + ": " + p.Message
}

// SchemaError lists every schema violation found in a metadata document.
type SchemaError struct {
	Source   string
	Problems []Problem
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s does not match the metadata schema: %s", e.Source, strings.Join(parts, "; "))
}
