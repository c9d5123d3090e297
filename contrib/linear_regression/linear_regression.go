package main

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/thoreinstein/espresso/pkg/problem"
)

// example is one polynomial fitting setup.
type example struct {
	// truth holds the polynomial coefficients, lowest order first.
	truth []float64
	// x holds the sample locations.
	x []float64
	// noise is the amplitude of the perturbation added to the data.
	noise float64
}

var examples = []example{
	{truth: []float64{0.5, 2}, x: floats.Span(make([]float64, 20), -1, 1), noise: 0.1},
	{truth: []float64{-3, 0, 1.5, -0.8}, x: floats.Span(make([]float64, 25), -2, 2), noise: 0.3},
}

// LinearRegression fits a polynomial to noisy samples of a known curve.
type LinearRegression struct {
	example int
}

// New returns the problem with example 0 selected.
func New() *LinearRegression {
	return &LinearRegression{}
}

// Exports implements problem.Exporter.
func (p *LinearRegression) Exports() []string {
	return problem.StandardFunctions
}

// SetExampleNumber selects an example declared in metadata.yml.
func (p *LinearRegression) SetExampleNumber(n int) error {
	if n < 0 || n >= len(examples) {
		return errors.Newf("example %d is not defined: choose 0 to %d", n, len(examples)-1)
	}
	p.example = n
	return nil
}

func (p *LinearRegression) current() example {
	return examples[p.example]
}

// SuggestedModel returns a zero polynomial of the example's order.
func (p *LinearRegression) SuggestedModel() (any, error) {
	return mat.NewVecDense(len(p.current().truth), nil), nil
}

// Data returns the true curve sampled at x with a deterministic perturbation.
func (p *LinearRegression) Data() (any, error) {
	ex := p.current()
	d := mat.NewVecDense(len(ex.x), nil)
	d.MulVec(design(ex.x, len(ex.truth)), mat.NewVecDense(len(ex.truth), ex.truth))
	for i := range ex.x {
		d.SetVec(i, d.AtVec(i)+ex.noise*math.Sin(7.3*float64(i+1)))
	}
	return d, nil
}

// Forward evaluates the polynomial model at the sample locations.
func (p *LinearRegression) Forward(model any, withJacobian bool) (any, any, error) {
	m, g, err := p.operator(model)
	if err != nil {
		return nil, nil, err
	}
	d := mat.NewVecDense(g.RawMatrix().Rows, nil)
	d.MulVec(g, m)
	if withJacobian {
		return d, g, nil
	}
	return d, nil, nil
}

// Jacobian returns the design matrix, which does not depend on the model.
func (p *LinearRegression) Jacobian(model any) (any, error) {
	_, g, err := p.operator(model)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// PlotModel draws the polynomial over the sample range.
func (p *LinearRegression) PlotModel(model any) (problem.Figure, error) {
	m, err := p.coefficients(model)
	if err != nil {
		return nil, err
	}
	ex := p.current()

	plt := plot.New()
	plt.Title.Text = "Polynomial model"
	plt.X.Label.Text = "x"
	plt.Y.Label.Text = "y"

	curve := plotter.NewFunction(func(x float64) float64 {
		return polyval(m.RawVector().Data, x)
	})
	curve.XMin, curve.XMax = floats.Min(ex.x), floats.Max(ex.x)
	curve.Samples = 200
	plt.Add(curve)
	plt.Legend.Add("model", curve)
	return plt, nil
}

// PlotData draws data as points at the sample locations.
func (p *LinearRegression) PlotData(data any) (problem.Figure, error) {
	d, err := problem.Vector(data)
	if err != nil {
		return nil, err
	}
	ex := p.current()
	if d.Len() != len(ex.x) {
		return nil, errors.Newf("data has %d points, example %d has %d", d.Len(), p.example, len(ex.x))
	}

	pts := make(plotter.XYs, len(ex.x))
	for i, x := range ex.x {
		pts[i].X, pts[i].Y = x, d.AtVec(i)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "creating scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)

	plt := plot.New()
	plt.Title.Text = "Observations"
	plt.X.Label.Text = "x"
	plt.Y.Label.Text = "y"
	plt.Add(scatter)
	return plt, nil
}

// operator returns the model vector and the design matrix of the current example.
func (p *LinearRegression) operator(model any) (*mat.VecDense, *mat.Dense, error) {
	m, err := p.coefficients(model)
	if err != nil {
		return nil, nil, err
	}
	return m, design(p.current().x, m.Len()), nil
}

func (p *LinearRegression) coefficients(model any) (*mat.VecDense, error) {
	m, err := problem.Vector(model)
	if err != nil {
		return nil, errors.Wrap(err, "model")
	}
	if want := len(p.current().truth); m.Len() != want {
		return nil, errors.Newf("model has %d coefficients, example %d needs %d", m.Len(), p.example, want)
	}
	return m, nil
}

// design builds the Vandermonde matrix with columns 1, x, x^2, ...
func design(x []float64, order int) *mat.Dense {
	g := mat.NewDense(len(x), order, nil)
	for i, xi := range x {
		v := 1.0
		for j := range order {
			g.Set(i, j, v)
			v *= xi
		}
	}
	return g
}

// polyval evaluates the polynomial with coefficients c, lowest order first.
func polyval(c []float64, x float64) float64 {
	y := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}
