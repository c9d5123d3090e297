package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `name: Linear regression
short_description: Fit a polynomial to noisy samples.
authors:
  - Jane Doe
  - name: John Roe
    email: john@example.com
examples:
  - description: Straight line
    model_dimension: 2
    data_dimension: 20
  - description: Cubic
    model_dimension: 4
    data_dimension: 20
citation:
  doi: 10.1000/xyz123
contacts:
  - name: Jane Doe
    email: jane@example.com
    website: https://example.com
extra_websites:
  - name: Docs
    link: https://example.com/docs
`

func newChecker(t *testing.T) *Checker {
	t.Helper()
	c, err := NewChecker()
	require.NoError(t, err)
	return c
}

func TestChecker_Valid(t *testing.T) {
	meta, err := newChecker(t).Check([]byte(validDoc), "metadata.yml")
	require.NoError(t, err)

	assert.Equal(t, "Linear regression", meta.Name)
	assert.Equal(t, 2, meta.ExampleCount())
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, meta.Authors.Names())
	assert.Equal(t, "john@example.com", meta.Authors[1].Email)
	n, err := meta.Examples[1].ModelDimension.Int()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NotNil(t, meta.Citation)
	assert.Equal(t, "10.1000/xyz123", meta.Citation.DOI)
	assert.Len(t, meta.Contacts, 1)
	assert.Len(t, meta.ExtraWebsites, 1)
}

func TestChecker_MinimalAndScalarAuthor(t *testing.T) {
	doc := `name: Minimal
short_description: Nothing optional.
authors: Jane Doe
examples: []
`
	meta, err := newChecker(t).Check([]byte(doc), "metadata.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, meta.Authors.Names())
	assert.Equal(t, 0, meta.ExampleCount())
	assert.Nil(t, meta.Citation)
}

func TestChecker_SchemaViolations(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(string) string
		wantLocation string
		wantMessage  string
	}{
		{
			name:         "missing top-level key",
			mutate:       func(s string) string { return strings.Replace(s, "short_description: Fit a polynomial to noisy samples.\n", "", 1) },
			wantLocation: "(root)",
			wantMessage:  "short_description",
		},
		{
			name:         "example missing model_dimension",
			mutate:       func(s string) string { return strings.Replace(s, "    model_dimension: 4\n", "", 1) },
			wantLocation: "examples[1]",
			wantMessage:  "model_dimension",
		},
		{
			name:         "examples not a list",
			mutate:       func(s string) string { return strings.Replace(s, "examples:\n", "examples: several\nignored:\n", 1) },
			wantLocation: "examples",
		},
		{
			name:         "citation not a mapping",
			mutate:       func(s string) string { return strings.Replace(s, "citation:\n  doi: 10.1000/xyz123", "citation: 10.1000/xyz123", 1) },
			wantLocation: "citation",
		},
		{
			name:         "citation without doi",
			mutate:       func(s string) string { return strings.Replace(s, "  doi: 10.1000/xyz123", "  title: Something", 1) },
			wantLocation: "citation",
			wantMessage:  "doi",
		},
		{
			name:         "contact without email",
			mutate:       func(s string) string { return strings.Replace(s, "    email: jane@example.com\n", "", 1) },
			wantLocation: "contacts[0]",
			wantMessage:  "email",
		},
		{
			name:         "website without link",
			mutate:       func(s string) string { return strings.Replace(s, "    link: https://example.com/docs\n", "", 1) },
			wantLocation: "extra_websites[0]",
			wantMessage:  "link",
		},
	}

	c := newChecker(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Check([]byte(tt.mutate(validDoc)), "metadata.yml")

			var serr *SchemaError
			require.ErrorAs(t, err, &serr)
			require.NotEmpty(t, serr.Problems)

			var locations []string
			for _, p := range serr.Problems {
				locations = append(locations, p.Location)
			}
			assert.Contains(t, locations, tt.wantLocation)
			if tt.wantMessage != "" {
				assert.Contains(t, err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestChecker_LooseValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
		check  func(t *testing.T, meta *Metadata)
	}{
		{
			name:   "null short description",
			mutate: func(s string) string { return strings.Replace(s, "short_description: Fit a polynomial to noisy samples.", "short_description:", 1) },
			check:  func(t *testing.T, meta *Metadata) { assert.Empty(t, meta.ShortDescription) },
		},
		{
			name:   "numeric doi",
			mutate: func(s string) string { return strings.Replace(s, "doi: 10.1000/xyz123", "doi: 10.5", 1) },
			check:  func(t *testing.T, meta *Metadata) { assert.Equal(t, "10.5", meta.Citation.DOI) },
		},
		{
			name:   "non-integer dimension",
			mutate: func(s string) string { return strings.Replace(s, "model_dimension: 2", "model_dimension: variable", 1) },
			check: func(t *testing.T, meta *Metadata) {
				assert.Equal(t, "variable", meta.Examples[0].ModelDimension.String())
				_, err := meta.Examples[0].ModelDimension.Int()
				assert.ErrorIs(t, err, ErrBadDimension)
			},
		},
		{
			name:   "zero dimension",
			mutate: func(s string) string { return strings.Replace(s, "model_dimension: 2", "model_dimension: 0", 1) },
			check: func(t *testing.T, meta *Metadata) {
				_, err := meta.Examples[0].ModelDimension.Int()
				assert.ErrorIs(t, err, ErrBadDimension)
			},
		},
		{
			name: "empty author list",
			mutate: func(s string) string {
				return strings.Replace(s, "authors:\n  - Jane Doe\n  - name: John Roe\n    email: john@example.com\n", "authors: []\n", 1)
			},
			check: func(t *testing.T, meta *Metadata) { assert.Empty(t, meta.Authors.Names()) },
		},
	}

	c := newChecker(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.mutate(validDoc)
			require.NotEqual(t, validDoc, doc)

			meta, err := c.Check([]byte(doc), "metadata.yml")
			require.NoError(t, err)
			tt.check(t, meta)
		})
	}
}

func TestChecker_ParseError(t *testing.T) {
	_, err := newChecker(t).Check([]byte("name: [unclosed\n"), "metadata.yml")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "metadata.yml", perr.Source)
}

func TestChecker_NotAMapping(t *testing.T) {
	_, err := newChecker(t).Check([]byte("- just\n- a list\n"), "metadata.yml")

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "(root)", serr.Problems[0].Location)
}

func TestChecker_CheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	meta, err := newChecker(t).CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.ExampleCount())

	_, err = newChecker(t).CheckFile(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "(root)", location(nil))
	assert.Equal(t, "examples[1]", location([]string{"examples", "1"}))
	assert.Equal(t, "examples[0].model_dimension", location([]string{"examples", "0", "model_dimension"}))
}
