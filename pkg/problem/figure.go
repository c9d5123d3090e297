package problem

import (
	"bytes"
	"encoding/xml"
	"image"
	_ "image/png" // registers the PNG decoder for Rendered.Validate
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot/vg"
)

// Figure is a renderable plot. *plot.Plot from gonum.org/v1/plot
// satisfies it.
type Figure interface {
	WriterTo(w, h vg.Length, format string) (io.WriterTo, error)
}

// Default figure size used when a problem's plot is rendered for transport.
const (
	FigureWidth  = 16 * vg.Centimeter
	FigureHeight = 10 * vg.Centimeter
)

// Figure MIME types accepted on the wire.
const (
	MIMETypeSVG = "image/svg+xml"
	MIMETypePNG = "image/png"
)

var formatByMIME = map[string]string{
	MIMETypeSVG: "svg",
	MIMETypePNG: "png",
}

// ErrNotFigure is returned when a value is not a renderable figure.
var ErrNotFigure = errors.New("not a renderable figure")

// Rendered is a figure that has already been rendered to an image,
// typically one received from a plugin process.
type Rendered struct {
	MIMEType string
	Data     []byte
}

// WriterTo implements Figure. The size is fixed at render time, so w and h
// are ignored; format must match the rendered image.
func (r *Rendered) WriterTo(_, _ vg.Length, format string) (io.WriterTo, error) {
	if formatByMIME[r.MIMEType] != strings.ToLower(format) {
		return nil, errors.Newf("figure is %s, cannot write %s", r.MIMEType, format)
	}
	return bytes.NewReader(r.Data), nil
}

// Validate checks that the image decodes as its declared type.
func (r *Rendered) Validate() error {
	if len(r.Data) == 0 {
		return errors.Wrap(ErrNotFigure, "empty image")
	}
	switch r.MIMEType {
	case MIMETypePNG:
		if _, _, err := image.DecodeConfig(bytes.NewReader(r.Data)); err != nil {
			return errors.Wrapf(ErrNotFigure, "decoding png: %v", err)
		}
		return nil
	case MIMETypeSVG:
		return validateSVG(r.Data)
	default:
		return errors.Wrapf(ErrNotFigure, "unsupported image type %q", r.MIMEType)
	}
}

// validateSVG checks that the document's root element is <svg>.
func validateSVG(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrapf(ErrNotFigure, "decoding svg: %v", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "svg" {
				return errors.Wrapf(ErrNotFigure, "root element is <%s>, want <svg>", start.Name.Local)
			}
			return nil
		}
	}
}

// IsFigure reports whether v is a renderable figure. Rendered figures must
// also decode.
func IsFigure(v any) bool {
	switch f := v.(type) {
	case *Rendered:
		return f != nil && f.Validate() == nil
	case Figure:
		return f != nil
	default:
		return false
	}
}

// Render renders fig to SVG for transport.
func Render(fig Figure) (*Rendered, error) {
	if r, ok := fig.(*Rendered); ok {
		return r, nil
	}
	wt, err := fig.WriterTo(FigureWidth, FigureHeight, "svg")
	if err != nil {
		return nil, errors.Wrap(err, "rendering figure")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing figure")
	}
	return &Rendered{MIMEType: MIMETypeSVG, Data: buf.Bytes()}, nil
}
