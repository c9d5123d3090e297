package problem

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Envelope statuses.
const (
	StatusOK             = "ok"
	StatusNotImplemented = "not_implemented"
)

// Wire spellings of non-finite floats, which JSON numbers cannot carry.
const (
	WireNaN    = "NaN"
	WirePosInf = "Infinity"
	WireNegInf = "-Infinity"
)

// Envelope is the structured result of every standard function call.
// Value and Jacobian are converted with the same rules as Args.
type Envelope struct {
	Status   string `json:"status"`
	Value    any    `json:"value"`
	Jacobian any    `json:"jacobian"`
}

type wireEnvelope Envelope

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	w := wireEnvelope(e)
	w.Value = toWire(e.Value)
	w.Jacobian = toWire(e.Jacobian)
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	w.Value = fromWire(w.Value)
	w.Jacobian = fromWire(w.Jacobian)
	*e = Envelope(w)
	return nil
}

// Args are the arguments of every standard function call. Each function
// reads only the fields it needs.
type Args struct {
	Index        int  `json:"index"`
	Model        any  `json:"model"`
	Data         any  `json:"data"`
	WithJacobian bool `json:"with_jacobian,omitempty"`
}

type wireArgs Args

// MarshalJSON implements json.Marshaler. Gonum values become nested arrays,
// nil slices become empty arrays and non-finite floats become strings.
func (a Args) MarshalJSON() ([]byte, error) {
	w := wireArgs(a)
	w.Model = toWire(a.Model)
	w.Data = toWire(a.Data)
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler, restoring non-finite floats.
func (a *Args) UnmarshalJSON(data []byte) error {
	var w wireArgs
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	w.Model = fromWire(w.Model)
	w.Data = fromWire(w.Data)
	*a = Args(w)
	return nil
}

// DecodeEnvelope converts a decoded structured result back into an Envelope.
func DecodeEnvelope(v any) (*Envelope, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return nil, errors.Wrap(err, "encoding structured content")
		}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "decoding result envelope")
	}
	switch env.Status {
	case StatusOK, StatusNotImplemented:
		return &env, nil
	default:
		return nil, errors.Newf("unknown result status %q", env.Status)
	}
}

var toolDescriptions = map[string]string{
	FuncSetExampleNumber: "Select the example with the given index.",
	FuncSuggestedModel:   "Return the suggested starting model for the current example.",
	FuncData:             "Return the observed data for the current example.",
	FuncForward:          "Compute synthetic data for a model, optionally with its jacobian.",
	FuncJacobian:         "Compute the jacobian of the forward operator at a model.",
	FuncPlotModel:        "Plot a model.",
	FuncPlotData:         "Plot data.",
}

var toolSchemas = map[string]map[string]any{
	FuncSetExampleNumber: objectSchema(map[string]any{"index": map[string]any{"type": "integer", "minimum": 0}}, "index"),
	FuncSuggestedModel:   objectSchema(nil),
	FuncData:             objectSchema(nil),
	FuncForward: objectSchema(map[string]any{
		"model":         map[string]any{},
		"with_jacobian": map[string]any{"type": "boolean"},
	}, "model"),
	FuncJacobian:  objectSchema(map[string]any{"model": map[string]any{}}, "model"),
	FuncPlotModel: objectSchema(map[string]any{"model": map[string]any{}}, "model"),
	FuncPlotData:  objectSchema(map[string]any{"data": map[string]any{}}, "data"),
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object"}
	if props != nil {
		s["properties"] = props
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// toWire converts v into values encoding/json accepts: gonum types and
// slices become []any, nil slices become empty, and NaN and infinities
// become their string spellings.
func toWire(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return x
	case float64:
		return wireFloat(x)
	case float32:
		return wireFloat(float64(x))
	case mat.Vector:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = wireFloat(x.AtVec(i))
		}
		return out
	case mat.Matrix:
		r, c := x.Dims()
		out := make([]any, r)
		for i := range out {
			row := make([]any, c)
			for j := range row {
				row[j] = wireFloat(x.At(i, j))
			}
			out[i] = row
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = toWire(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return toWire(rv.Elem().Interface())
	default:
		return v
	}
}

func wireFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return WireNaN
	case math.IsInf(f, 1):
		return WirePosInf
	case math.IsInf(f, -1):
		return WireNegInf
	default:
		return f
	}
}

// fromWire reverses toWire on decoded JSON: the string spellings of
// non-finite floats become float64 again.
func fromWire(v any) any {
	switch x := v.(type) {
	case string:
		if f, ok := parseNonFinite(x); ok {
			return f
		}
		return x
	case []any:
		for i := range x {
			x[i] = fromWire(x[i])
		}
		return x
	default:
		return v
	}
}

func parseNonFinite(s string) (float64, bool) {
	switch s {
	case WireNaN:
		return math.NaN(), true
	case WirePosInf:
		return math.Inf(1), true
	case WireNegInf:
		return math.Inf(-1), true
	default:
		return 0, false
	}
}
