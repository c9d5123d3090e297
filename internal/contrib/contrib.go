package contrib

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/thoreinstein/espresso/internal/errors"
)

// Contribution is a contribution folder found under the contributions root.
type Contribution struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// MainFile returns the path of the main source file <name>.go.
func (c Contribution) MainFile() string {
	return filepath.Join(c.Path, c.Name+".go")
}

// File returns the path of name inside the contribution folder.
func (c Contribution) File(name string) string {
	return filepath.Join(c.Path, name)
}

// namePattern matches names usable both as a folder and as an executable
// suffix: lowercase letters, digits and underscores, starting with a letter.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateName checks that name can be used for a new contribution.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.Newf("invalid contribution name %q: must match %s", name, namePattern)
	}
	return nil
}

// Discover lists the contributions under root, sorted by name. Hidden
// folders and folders starting with an underscore are skipped.
func Discover(root string) ([]Contribution, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "contributions root %s", root)
		}
		return nil, errors.Wrap(err, "reading contributions root")
	}

	var out []Contribution
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		out = append(out, Contribution{Name: e.Name(), Path: filepath.Join(root, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Find returns the named contributions under root in the order given.
// An empty names list returns every contribution.
func Find(root string, names ...string) ([]Contribution, error) {
	all, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Contribution, len(all))
	for _, c := range all {
		byName[c.Name] = c
	}

	out := make([]Contribution, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotFound, "contribution %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}
