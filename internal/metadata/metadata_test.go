package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAuthors_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Authors
	}{
		{"scalar", `authors: Jane`, Authors{{Name: "Jane"}}},
		{"names", "authors:\n  - Jane\n  - John\n", Authors{{Name: "Jane"}, {Name: "John"}}},
		{"empty list", "authors: []\n", Authors{}},
		{"mixed", "authors:\n  - Jane\n  - name: John\n    email: j@example.com\n", Authors{{Name: "Jane"}, {Name: "John", Email: "j@example.com"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Authors Authors `yaml:"authors"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &got))
			assert.Equal(t, tt.want, got.Authors)
		})
	}

	t.Run("nested list rejected", func(t *testing.T) {
		var got struct {
			Authors Authors `yaml:"authors"`
		}
		require.Error(t, yaml.Unmarshal([]byte("authors:\n  - [a, b]\n"), &got))
	})
}

func TestAuthors_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Authors{{Name: "Jane"}, {Name: "John"}})
	require.NoError(t, err)
	assert.Equal(t, "- Jane\n- John\n", string(out))

	out, err = yaml.Marshal(Authors{{Name: "Jane", Email: "jane@example.com"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "email: jane@example.com")
}

func TestMetadata_ExampleCountNil(t *testing.T) {
	var m *Metadata
	assert.Equal(t, 0, m.ExampleCount())
}

func TestDimension(t *testing.T) {
	tests := []struct {
		doc      string
		want     int
		wantErr  bool
		wantJSON string
	}{
		{doc: "d: 3", want: 3, wantJSON: "3"},
		{doc: "d: 0", wantErr: true, wantJSON: `"0"`},
		{doc: "d: -2", wantErr: true, wantJSON: `"-2"`},
		{doc: "d: 2.5", wantErr: true, wantJSON: `"2.5"`},
		{doc: "d: variable", wantErr: true, wantJSON: `"variable"`},
		{doc: "d: [1, 2]", wantErr: true, wantJSON: `"[...]"`},
		{doc: "d:", wantErr: true, wantJSON: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			var got struct {
				D Dimension `yaml:"d"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &got))

			n, err := got.D.Int()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadDimension)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, n)
			}

			out, err := json.Marshal(got.D)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(out))
		})
	}
}

func TestDimension_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Example{Description: "line", ModelDimension: Dim(2), DataDimension: Dim(20)})
	require.NoError(t, err)
	assert.Equal(t, "description: line\nmodel_dimension: 2\ndata_dimension: 20\n", string(out))
}
