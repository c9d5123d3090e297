package translate

import (
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/espresso/internal/errors"
)

const metadataYAML = `name: linear_regression
short_description: Fit a polynomial to noisy samples
authors:
  - Jane Doe
examples:
  - description: straight line
    model_dimension: 2
    data_dimension: 20
`

func TestYAMLToTOML(t *testing.T) {
	out, err := YAMLToTOML([]byte(metadataYAML))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, toml.Unmarshal(out, &got))
	assert.Equal(t, "linear_regression", got["name"])

	examples, ok := got["examples"].([]any)
	require.True(t, ok, "examples should be an array of tables")
	require.Len(t, examples, 1)
	assert.EqualValues(t, 2, examples[0].(map[string]any)["model_dimension"])
}

func TestYAMLToTOML_NotAMapping(t *testing.T) {
	_, err := YAMLToTOML([]byte("- a\n- b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")
}

func TestYAMLToTOML_InvalidYAML(t *testing.T) {
	_, err := YAMLToTOML([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestTOMLToYAML(t *testing.T) {
	tomlInput := []byte("name = \"test\"\ndescription = \"a test\"\nenabled = true\n")
	out, err := TOMLToYAML(tomlInput)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{"name": "test", "description": "a test", "enabled": true}, got)
}

func TestYAMLToJSON(t *testing.T) {
	out, err := YAMLToJSON([]byte(metadataYAML))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "Fit a polynomial to noisy samples", got["short_description"])
	assert.Equal(t, []any{"Jane Doe"}, got["authors"])
}

func TestEncode(t *testing.T) {
	v := struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"example_count"`
	}{Name: "gravity", Count: 3}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatYAML, "name: gravity\nexample_count: 3\n"},
		{FormatJSON, "{\n  \"example_count\": 3,\n  \"name\": \"gravity\"\n}\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := Encode(v, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}

	t.Run("toml", func(t *testing.T) {
		out, err := Encode(v, FormatTOML)
		require.NoError(t, err)
		assert.Contains(t, string(out), "gravity")
		assert.Contains(t, string(out), "example_count = 3")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Encode(v, Format("xml"))
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = ParseFormat("ini")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Contains(t, err.Error(), "yaml, json, toml")
}
