package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/espresso/internal/errors"
)

// AtomicWriteFile replaces path with data. The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return atomicWrite(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return errors.Wrap(err, "writing temp file")
	})
}

// AtomicWriteJSON writes v as 2-space indented JSON, as used for
// validation summaries.
func AtomicWriteJSON(path string, v any) error {
	return atomicWrite(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	})
}

// AtomicWriteYAML writes v as 2-space indented YAML, the layout of
// metadata.yml and .espresso.yml.
func AtomicWriteYAML(path string, v any) error {
	return atomicWrite(path, 0o644, func(w io.Writer) (err error) {
		// yaml.v3 panics on values it cannot represent.
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("encoding YAML: %v", r)
			}
		}()

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	})
}

// atomicWrite streams the output of write into a temp file next to path and
// renames it over path once complete. On failure path is left untouched.
func atomicWrite(path string, perm os.FileMode, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", filepath.Base(path))
}
