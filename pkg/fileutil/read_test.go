package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"small file", 100, false},
		{"exact limit", MaxFileSize, false},
		{"too large", MaxFileSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, f.Truncate(tt.size))
			require.NoError(t, f.Close())

			data, err := ReadFileWithLimit(path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrFileTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, int(tt.size))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFileWithLimit(filepath.Join(dir, "nope"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "LICENCE")
	full := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, os.WriteFile(full, []byte("MIT\n"), 0o644))

	got, err := IsEmpty(empty)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = IsEmpty(full)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = IsEmpty(dir)
	require.Error(t, err)

	_, err = IsEmpty(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
