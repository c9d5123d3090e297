// Package translate converts YAML documents to other serialization formats.
//
// Conversion goes through the generic YAML tree, so keys keep the spelling
// of the YAML source in every output format.
package translate

import (
	"encoding/json"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/espresso/internal/errors"
)

// Format is an output serialization format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for formats other than yaml, json and toml.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats.
func Formats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

// ParseFormat converts a format name into a Format, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", errors.Mark(errors.Newf("unknown format %q (valid: %s)", s, strings.Join(Formats(), ", ")), ErrUnknownFormat)
	}
}

// Encode marshals v to YAML and converts the result to format.
func Encode(v any, format Format) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	switch format {
	case FormatYAML:
		return data, nil
	case FormatJSON:
		return YAMLToJSON(data)
	case FormatTOML:
		return YAMLToTOML(data)
	default:
		return nil, errors.Mark(errors.Newf("unknown format %q", format), ErrUnknownFormat)
	}
}

// YAMLToTOML converts YAML data to TOML data.
func YAMLToTOML(yamlData []byte) ([]byte, error) {
	var data any
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling yaml")
	}
	if _, ok := data.(map[string]any); !ok {
		return nil, errors.Newf("toml requires a mapping at the top level, got %T", data)
	}
	out, err := toml.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling toml")
	}
	return out, nil
}

// TOMLToYAML converts TOML data to YAML data.
func TOMLToYAML(tomlData []byte) ([]byte, error) {
	var data any
	if err := toml.Unmarshal(tomlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling toml")
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	return out, nil
}

// YAMLToJSON converts YAML data to indented JSON data.
func YAMLToJSON(yamlData []byte) ([]byte, error) {
	var data any
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling yaml")
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling json")
	}
	return append(out, '\n'), nil
}
