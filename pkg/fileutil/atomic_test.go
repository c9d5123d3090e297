package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"text", []byte("hello world\n"), 0o644},
		{"empty", []byte{}, 0o644},
		{"binary", []byte{0x00, 0x01, 0xFF}, 0o600},
		{"executable", []byte("#!/bin/sh\n"), 0o755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")

			require.NoError(t, AtomicWriteFile(path, tt.data, tt.perm))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.perm, info.Mode().Perm())
		})
	}
}

func TestAtomicWriteFile_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, AtomicWriteFile(path, []byte("new"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestAtomicWriteFile_MissingDirectory(t *testing.T) {
	err := AtomicWriteFile(filepath.Join(t.TempDir(), "no", "such", "file"), []byte("x"), 0o644)
	require.Error(t, err)
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")

	require.NoError(t, AtomicWriteJSON(path, map[string]any{"passed": 2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InDelta(t, 2.0, got["passed"], 0)

	require.Error(t, AtomicWriteJSON(path, make(chan int)))
}

func TestAtomicWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")

	require.NoError(t, AtomicWriteYAML(path, map[string]any{"name": "demo", "examples": []int{1, 2}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "demo", got["name"])

	require.Error(t, AtomicWriteYAML(path, map[string]any{"bad": make(chan int)}))
}

func TestAtomicWrite_FailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	require.Error(t, AtomicWriteJSON(path, map[string]any{"bad": make(chan int)}))
	require.Error(t, AtomicWriteYAML(path, map[string]any{"bad": make(chan int)}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestAtomicWriteYAML_Indent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")

	require.NoError(t, AtomicWriteYAML(path, map[string]any{"citation": map[string]string{"doi": "10.5"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "citation:\n  doi: \"10.5\"\n", string(data))
}
