package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/espresso/pkg/fileutil"
)

//go:embed schema/metadata.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/thoreinstein/espresso/schemas/metadata.schema.json"

// Schema returns the embedded JSON Schema document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Checker validates metadata documents against the embedded schema.
type Checker struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewChecker compiles the embedded schema.
func NewChecker() (*Checker, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, errors.Wrap(err, "decoding metadata schema")
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, errors.Wrap(err, "adding metadata schema")
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, errors.Wrap(err, "compiling metadata schema")
	}

	return &Checker{
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

// CheckFile reads and checks the metadata document at path.
func (c *Checker) CheckFile(path string) (*Metadata, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filepath.Base(path))
	}
	return c.Check(data, path)
}

// Check parses data and validates it against the schema. source names the
// document in error messages. Parse failures return a *ParseError and schema
// violations a *SchemaError.
func (c *Checker) Check(data []byte, source string) (*Metadata, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	inst, err := toJSONInstance(doc)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	if err := c.schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, errors.Wrapf(err, "validating %s", source)
		}
		return nil, &SchemaError{Source: source, Problems: c.problems(verr)}
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return &meta, nil
}

// toJSONInstance converts a YAML document into the value model the schema
// validator expects by round-tripping through JSON.
func toJSONInstance(doc any) (any, error) {
	raw, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, errors.Wrap(err, "converting document to JSON")
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

// normalize turns the map[any]any values yaml.v3 produces for non-string
// keys into JSON-encodable maps.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// problems flattens a validation error tree into its leaf causes.
func (c *Checker) problems(verr *jsonschema.ValidationError) []Problem {
	var out []Problem
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Problem{
				Location: location(e.InstanceLocation),
				Message:  e.ErrorKind.LocalizedString(c.printer),
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return dedupe(out)
}

func dedupe(problems []Problem) []Problem {
	seen := make(map[Problem]bool, len(problems))
	out := problems[:0]
	for _, p := range problems {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// location renders a JSON pointer as a path like "examples[1].name".
func location(segments []string) string {
	if len(segments) == 0 {
		return "(root)"
	}
	var sb strings.Builder
	for _, s := range segments {
		if _, err := strconv.Atoi(s); err == nil {
			sb.WriteString("[" + s + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s)
	}
	return sb.String()
}
