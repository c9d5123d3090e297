package contrib

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/espresso/internal/contrib"
	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/metadata"
)

func resetInitFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		initDescription, initAuthor, initEmail = "", "", ""
		initForce, initYes = false, false
	})
}

func TestInit_Prompts(t *testing.T) {
	root := useRoot(t)
	resetInitFlags(t)

	in := strings.NewReader("Gravity anomaly inversion\nJane Doe\njane@example.com\n")
	var out bytes.Buffer
	require.NoError(t, runInit(in, &out, "gravity_survey"))

	assert.Contains(t, out.String(), "Short description [A new espresso test problem.]: ")
	assert.Contains(t, out.String(), "✓ Created "+filepath.Join(root, "gravity_survey"))
	assert.Contains(t, out.String(), "espresso validate --only gravity_survey")

	checker, err := metadata.NewChecker()
	require.NoError(t, err)
	meta, err := checker.CheckFile(filepath.Join(root, "gravity_survey", contrib.Metadata))
	require.NoError(t, err)
	assert.Equal(t, "Gravity anomaly inversion", meta.ShortDescription)
	assert.Equal(t, metadata.Authors{{Name: "Jane Doe", Email: "jane@example.com"}}, meta.Authors)
}

func TestInit_FlagsSkipPrompts(t *testing.T) {
	root := useRoot(t)
	resetInitFlags(t)
	initDescription, initAuthor = "Heat flow", "John Roe"

	// Only the email is asked for.
	in := strings.NewReader("\n")
	var out bytes.Buffer
	require.NoError(t, runInit(in, &out, "heat_flow"))

	assert.NotContains(t, out.String(), "Short description")
	assert.Contains(t, out.String(), "Author email: ")
	assert.FileExists(t, filepath.Join(root, "heat_flow", "heat_flow.go"))
}

func TestInit_Yes(t *testing.T) {
	root := useRoot(t)
	resetInitFlags(t)
	initYes = true

	var out bytes.Buffer
	require.NoError(t, runInit(strings.NewReader(""), &out, "demo"))
	assert.NotContains(t, out.String(), "Short description")

	for _, f := range contrib.DefaultRequiredFiles {
		assert.FileExists(t, filepath.Join(root, "demo", f))
	}
}

func TestInit_Existing(t *testing.T) {
	root := useRoot(t)
	resetInitFlags(t)
	initYes = true
	require.NoError(t, os.MkdirAll(filepath.Join(root, "demo"), 0o755))

	var out bytes.Buffer
	err := runInit(strings.NewReader(""), &out, "demo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contrib.ErrExists))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "use --force to overwrite", exitErr.Suggestion)

	initForce = true
	require.NoError(t, runInit(strings.NewReader(""), &out, "demo"))
}

func TestInit_InvalidName(t *testing.T) {
	useRoot(t)
	resetInitFlags(t)

	err := runInit(strings.NewReader(""), &bytes.Buffer{}, "Gravity-Survey")
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, `Try "gravity_survey"`, exitErr.Suggestion)
}

func TestSuggestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"linear_regression", "linear_regression"},
		{"Gravity-Survey", "gravity_survey"},
		{"  heat flow  ", "heat_flow"},
		{"__x__", "x"},
		{"42", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestName(tt.input))
		})
	}
}
