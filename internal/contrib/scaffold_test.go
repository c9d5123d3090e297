package contrib

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/metadata"
)

func TestScaffold(t *testing.T) {
	root := t.TempDir()

	c, err := Scaffold(root, "heat_flow", ScaffoldOptions{Description: "1-D heat flow.", Author: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "heat_flow", c.Name)

	l := NewLayout()
	assert.Nil(t, l.CheckNaming(c))
	assert.Nil(t, l.CheckArtifacts(c))
	assert.Nil(t, l.CheckLicence(c))

	src, err := os.ReadFile(c.MainFile())
	require.NoError(t, err)
	assert.Contains(t, string(src), "type HeatFlow struct")
	assert.Contains(t, string(src), "func (p *HeatFlow) Exports() []string {\n\treturn problem.StandardFunctions\n}")

	shim, err := os.ReadFile(c.File(InitFile))
	require.NoError(t, err)
	assert.Contains(t, string(shim), `problem.Main("heat_flow", New())`)

	checker, err := metadata.NewChecker()
	require.NoError(t, err)
	meta, err := checker.CheckFile(c.File(Metadata))
	require.NoError(t, err)
	assert.Equal(t, 1, meta.ExampleCount())
	assert.Equal(t, "jane@example.com", meta.Authors[0].Email)
}

func TestScaffold_Existing(t *testing.T) {
	root := t.TempDir()
	_, err := Scaffold(root, "demo", ScaffoldOptions{})
	require.NoError(t, err)

	_, err = Scaffold(root, "demo", ScaffoldOptions{})
	require.True(t, errors.Is(err, ErrExists))

	_, err = Scaffold(root, "demo", ScaffoldOptions{Force: true})
	require.NoError(t, err)
}

func TestScaffold_InvalidName(t *testing.T) {
	_, err := Scaffold(t.TempDir(), "Bad-Name", ScaffoldOptions{})
	require.Error(t, err)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "LinearRegression", typeName("linear_regression"))
	assert.Equal(t, "Mt1d", typeName("mt1d"))
	assert.Equal(t, "AB", typeName("a__b"))
}
