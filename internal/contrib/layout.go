package contrib

import (
	"os"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/validator"
	"github.com/thoreinstein/espresso/pkg/fileutil"
)

// Artifact names.
const (
	Readme   = "README.md"
	Licence  = "LICENCE"
	Metadata = "metadata.yml"
	InitFile = "main.go"
)

// DefaultRequiredFiles are the artifacts every contribution must carry.
var DefaultRequiredFiles = []string{Readme, Licence, Metadata, InitFile}

// Layout checks the filesystem shape of a contribution.
type Layout struct {
	RequiredFiles []string
}

// NewLayout returns a layout requiring files, or DefaultRequiredFiles when
// none are given.
func NewLayout(files ...string) *Layout {
	if len(files) == 0 {
		files = DefaultRequiredFiles
	}
	return &Layout{RequiredFiles: files}
}

// CheckNaming requires the main source file <name>.go.
func (l *Layout) CheckNaming(c Contribution) *validator.Violation {
	if !isFile(c.MainFile()) {
		return validator.NewViolation(validator.KindStructural, c.Name+".go",
			"folder name must match the main source file",
			errors.Newf("%s.go is required but you don't have it in %s", c.Name, c.Path))
	}
	return nil
}

// CheckArtifacts requires every configured file, reporting the first missing.
func (l *Layout) CheckArtifacts(c Contribution) *validator.Violation {
	for _, name := range l.RequiredFiles {
		if !isFile(c.File(name)) {
			return validator.NewViolation(validator.KindStructural, name,
				"required artifact is missing",
				errors.Newf("%s is required but you don't have it in %s", name, c.Path))
		}
	}
	return nil
}

// CheckLicence requires a non-empty LICENCE.
func (l *Layout) CheckLicence(c Contribution) *validator.Violation {
	empty, err := fileutil.IsEmpty(c.File(Licence))
	if err != nil {
		return validator.NewViolation(validator.KindStructural, Licence, "licence must be readable", err)
	}
	if empty {
		return validator.NewViolation(validator.KindStructural, Licence,
			"licence must not be empty", errors.Newf("%s shouldn't be empty", Licence))
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
