package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/espresso/cmd/espresso/commands/flags"
	"github.com/thoreinstein/espresso/internal/config"
	"github.com/thoreinstein/espresso/internal/errors"
)

func TestConfigInit_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "espresso", "config.yaml")

	var out bytes.Buffer
	require.NoError(t, runConfigInit(&out, path))
	assert.Contains(t, out.String(), "✓ Wrote "+path)

	config.Init()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	err = runConfigInit(&out, path)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	configInitForce = true
	defer func() { configInitForce = false }()
	assert.NoError(t, runConfigInit(&out, path))
}

func TestConfigGet(t *testing.T) {
	config.Init()

	var out bytes.Buffer
	require.NoError(t, runConfigGet(&out, "source_command"))
	assert.Equal(t, "go run .\n", out.String())

	out.Reset()
	require.NoError(t, runConfigGet(&out, "required_files"))
	assert.Equal(t, "README.md\nLICENCE\nmetadata.yml\nmain.go\n", out.String())

	err := runConfigGet(&out, "no_such_key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "no_such_key"`)
}

func TestConfigList(t *testing.T) {
	config.Init()
	flags.SetConfig(config.Default())
	defer flags.SetConfig(nil)

	var out bytes.Buffer
	require.NoError(t, runConfigList(&out))
	assert.Contains(t, out.String(), "# defaults (no config file found)")
	assert.Contains(t, out.String(), "contrib_root: contrib")
	assert.Contains(t, out.String(), "mode: pre")
}
