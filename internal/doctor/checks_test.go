package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/loader"
	"github.com/thoreinstein/espresso/internal/logging"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	}
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		name  string
		check ConfigCheck
		want  Severity
	}{
		{"load error", ConfigCheck{LoadErr: errors.New("validating config: bad mode")}, SeverityError},
		{"defaults", ConfigCheck{}, SeverityInfo},
		{"file", ConfigCheck{File: "/etc/espresso/config.yaml"}, SeverityPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.check.Run(context.Background())
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestContribRootCheck(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		res := (&ContribRootCheck{Root: filepath.Join(t.TempDir(), "nope")}).Run(context.Background())
		assert.Equal(t, SeverityError, res.Status)
		assert.Contains(t, res.FixHint, "--root")
	})

	t.Run("empty root", func(t *testing.T) {
		res := (&ContribRootCheck{Root: t.TempDir()}).Run(context.Background())
		assert.Equal(t, SeverityWarning, res.Status)
		assert.Contains(t, res.FixHint, "espresso contrib init")
	})

	t.Run("invalid names", func(t *testing.T) {
		root := t.TempDir()
		mkdirs(t, root, "good_one", "Bad-One")
		res := (&ContribRootCheck{Root: root}).Run(context.Background())
		assert.Equal(t, SeverityWarning, res.Status)
		assert.Contains(t, res.Message, "Bad-One")
		assert.NotContains(t, res.Message, "good_one")
	})

	t.Run("ok", func(t *testing.T) {
		root := t.TempDir()
		mkdirs(t, root, "alpha", "beta", ".git")
		res := (&ContribRootCheck{Root: root}).Run(context.Background())
		assert.Equal(t, SeverityPass, res.Status)
		assert.Equal(t, 2, res.Details["count"])
	})
}

func TestResolveCheck_Source(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "alpha")

	ok := loader.New(loader.ModeSource, loader.WithSourceCommand("sh", "-c", "true"), loader.WithLogger(logging.ForTest(t)))
	res := (&ResolveCheck{Loader: ok, Root: root}).Run(context.Background())
	assert.Equal(t, SeverityPass, res.Status)

	missing := loader.New(loader.ModeSource, loader.WithSourceCommand("espresso-no-such-tool"), loader.WithLogger(logging.ForTest(t)))
	res = (&ResolveCheck{Loader: missing, Root: root}).Run(context.Background())
	assert.Equal(t, SeverityError, res.Status)
	assert.Equal(t, []string{"alpha"}, res.Details["unresolved"])
	assert.Contains(t, res.FixHint, "source_command")
}

func TestResolveCheck_Installed(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))

	root := t.TempDir()
	mkdirs(t, root, "alpha", "beta")

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "espresso-alpha"), []byte("#!/bin/sh\n"), 0o755))

	l := loader.New(loader.ModeInstalled, loader.WithBinDir(binDir), loader.WithLogger(logging.ForTest(t)))
	res := (&ResolveCheck{Loader: l, Root: root}).Run(context.Background())

	assert.Equal(t, SeverityError, res.Status)
	assert.Equal(t, []string{"beta"}, res.Details["unresolved"])
	assert.Contains(t, res.FixHint, "--bin-dir")
}

func TestResolveCheck_UnreadableRoot(t *testing.T) {
	l := loader.New(loader.ModeSource)
	res := (&ResolveCheck{Loader: l, Root: filepath.Join(t.TempDir(), "nope")}).Run(context.Background())
	assert.Equal(t, SeverityInfo, res.Status)
}
