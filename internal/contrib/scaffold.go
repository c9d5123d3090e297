package contrib

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/thoreinstein/espresso/internal/errors"
	"github.com/thoreinstein/espresso/internal/metadata"
	"github.com/thoreinstein/espresso/pkg/fileutil"
)

// ScaffoldOptions describes a new contribution.
type ScaffoldOptions struct {
	Description string
	Author      string
	Email       string
	// Force overwrites files in an existing folder.
	Force bool
}

// ErrExists indicates the contribution folder already exists.
var ErrExists = errors.New("contribution already exists")

var sourceTemplate = template.Must(template.New("source").Parse(`package main

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/thoreinstein/espresso/pkg/problem"
)

// {{.Type}} is the {{.Name}} test problem.
type {{.Type}} struct {
	problem.Unimplemented
	example int
}

// New returns the problem with example 0 selected.
func New() *{{.Type}} {
	return &{{.Type}}{}
}

// Exports lists the functions served to the validator. Optional
// functions left to problem.Unimplemented report not_implemented.
func (p *{{.Type}}) Exports() []string {
	return problem.StandardFunctions
}

// SetExampleNumber selects an example declared in metadata.yml.
func (p *{{.Type}}) SetExampleNumber(n int) error {
	if n != 0 {
		return errors.Newf("example %d is not defined", n)
	}
	p.example = n
	return nil
}

// SuggestedModel returns a starting model for the current example.
func (p *{{.Type}}) SuggestedModel() (any, error) {
	return mat.NewVecDense(1, []float64{0}), nil
}

// Data returns the observed data for the current example.
func (p *{{.Type}}) Data() (any, error) {
	return mat.NewVecDense(1, []float64{0}), nil
}

// Forward maps a model to synthetic data.
func (p *{{.Type}}) Forward(model any, withJacobian bool) (any, any, error) {
	if withJacobian {
		return nil, nil, problem.ErrNotImplemented
	}
	m, err := problem.Vector(model)
	if err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}
`))

var mainTemplate = template.Must(template.New("main").Parse(`package main

import "github.com/thoreinstein/espresso/pkg/problem"

func main() {
	problem.Main({{printf "%q" .Name}}, New())
}
`))

var readmeTemplate = template.Must(template.New("readme").Parse(`# {{.Name}}

{{.Description}}

## Examples

| index | description |
|---|---|
| 0 | Identity mapping of a single parameter |

## Running

` + "```" + `sh
espresso validate pre --only {{.Name}}
` + "```" + `
`))

var licenceTemplate = template.Must(template.New("licence").Parse(`BSD 2-Clause License

Copyright (c) {{.Year}}, {{.Author}}

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES ARE DISCLAIMED.
`))

type scaffoldData struct {
	Name        string
	Type        string
	Description string
	Author      string
	Year        int
}

// Scaffold creates a new contribution folder under root that passes
// validation as generated.
func Scaffold(root, name string, opts ScaffoldOptions) (Contribution, error) {
	if err := ValidateName(name); err != nil {
		return Contribution{}, err
	}

	c := Contribution{Name: name, Path: filepath.Join(root, name)}
	if _, err := os.Stat(c.Path); err == nil && !opts.Force {
		return Contribution{}, errors.Wrapf(ErrExists, "%s", c.Path)
	}
	if err := os.MkdirAll(c.Path, 0o755); err != nil {
		return Contribution{}, errors.Wrap(err, "creating contribution folder")
	}

	author := opts.Author
	if author == "" {
		author = "Unknown"
	}
	description := opts.Description
	if description == "" {
		description = "A new espresso test problem."
	}
	data := scaffoldData{
		Name:        name,
		Type:        typeName(name),
		Description: description,
		Author:      author,
		Year:        time.Now().Year(),
	}

	files := []struct {
		name string
		tmpl *template.Template
	}{
		{name + ".go", sourceTemplate},
		{InitFile, mainTemplate},
		{Readme, readmeTemplate},
		{Licence, licenceTemplate},
	}
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, data); err != nil {
			return Contribution{}, errors.Wrapf(err, "rendering %s", f.name)
		}
		if err := fileutil.AtomicWriteFile(c.File(f.name), buf.Bytes(), 0o644); err != nil {
			return Contribution{}, errors.Wrapf(err, "writing %s", f.name)
		}
	}

	meta := metadata.Metadata{
		Name:             name,
		ShortDescription: description,
		Authors:          metadata.Authors{{Name: author, Email: opts.Email}},
		Examples: []metadata.Example{
			{Description: "Identity mapping of a single parameter", ModelDimension: metadata.Dim(1), DataDimension: metadata.Dim(1)},
		},
	}
	if err := fileutil.AtomicWriteYAML(c.File(Metadata), meta); err != nil {
		return Contribution{}, errors.Wrapf(err, "writing %s", Metadata)
	}
	return c, nil
}

// typeName converts snake_case to CamelCase.
func typeName(name string) string {
	var out []byte
	upper := true
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch == '_' {
			upper = true
			continue
		}
		if upper && ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		upper = false
		out = append(out, ch)
	}
	return string(out)
}
