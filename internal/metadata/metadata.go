package metadata

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the metadata document inside a contribution folder.
const FileName = "metadata.yml"

// Metadata is a parsed metadata.yml.
type Metadata struct {
	Name             string    `yaml:"name" json:"name"`
	ShortDescription string    `yaml:"short_description" json:"short_description"`
	Title            string    `yaml:"title_of_problem,omitempty" json:"title_of_problem,omitempty"`
	Authors          Authors   `yaml:"authors" json:"authors"`
	Examples         []Example `yaml:"examples" json:"examples"`
	Citation         *Citation `yaml:"citation,omitempty" json:"citation,omitempty"`
	Contacts         []Contact `yaml:"contacts,omitempty" json:"contacts,omitempty"`
	ExtraWebsites    []Website `yaml:"extra_websites,omitempty" json:"extra_websites,omitempty"`
}

// ExampleCount returns the number of declared examples.
func (m *Metadata) ExampleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Examples)
}

// Example describes one selectable example of a problem.
type Example struct {
	Description    string    `yaml:"description" json:"description"`
	ModelDimension Dimension `yaml:"model_dimension" json:"model_dimension"`
	DataDimension  Dimension `yaml:"data_dimension" json:"data_dimension"`
}

// ErrBadDimension is returned by Dimension.Int for values that are not a
// positive integer.
var ErrBadDimension = errors.New("dimension is not a positive integer")

// Dimension is a declared example dimension. Any YAML value loads; Int
// reports whether it is a usable element count.
type Dimension struct {
	raw string
}

// Dim returns the dimension n.
func Dim(n int) Dimension {
	return Dimension{raw: strconv.Itoa(n)}
}

// Int returns the dimension as an element count.
func (d Dimension) Int() (int, error) {
	n, err := strconv.Atoi(d.raw)
	if err != nil || n < 1 {
		return 0, errors.Wrapf(ErrBadDimension, "%q", d.raw)
	}
	return n, nil
}

func (d Dimension) String() string {
	return d.raw
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d.raw = node.Value
	case yaml.SequenceNode:
		d.raw = "[...]"
	default:
		d.raw = "{...}"
	}
	return nil
}

// MarshalYAML writes integer dimensions as numbers.
func (d Dimension) MarshalYAML() (any, error) {
	if n, err := d.Int(); err == nil {
		return n, nil
	}
	return d.raw, nil
}

// MarshalJSON writes integer dimensions as numbers.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if n, err := d.Int(); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(d.raw)
}

// Citation points at the publication describing a problem.
type Citation struct {
	DOI string `yaml:"doi" json:"doi"`
}

// Contact is a maintainer of a contribution.
type Contact struct {
	Name    string `yaml:"name" json:"name"`
	Email   string `yaml:"email" json:"email"`
	Website string `yaml:"website,omitempty" json:"website,omitempty"`
}

// Website is an additional link about a problem.
type Website struct {
	Name string `yaml:"name" json:"name"`
	Link string `yaml:"link" json:"link"`
}

// Author is a contribution author.
type Author struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
}

// Authors accepts a single name, a list of names or a list of
// name/email mappings.
type Authors []Author

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Authors) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = Authors{{Name: node.Value}}
		return nil
	case yaml.SequenceNode:
		out := make(Authors, 0, len(node.Content))
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				out = append(out, Author{Name: item.Value})
			case yaml.MappingNode:
				var author Author
				if err := item.Decode(&author); err != nil {
					return err
				}
				out = append(out, author)
			default:
				return errors.Newf("line %d: author must be a name or a mapping", item.Line)
			}
		}
		*a = out
		return nil
	default:
		return errors.Newf("line %d: authors must be a name or a list", node.Line)
	}
}

// MarshalYAML writes plain names when no author has an email.
func (a Authors) MarshalYAML() (any, error) {
	names := make([]string, 0, len(a))
	for _, author := range a {
		if author.Email != "" {
			return []Author(a), nil
		}
		names = append(names, author.Name)
	}
	return names, nil
}

// Names returns the author names in order.
func (a Authors) Names() []string {
	names := make([]string, len(a))
	for i, author := range a {
		names[i] = author.Name
	}
	return names
}
