package problem

import (
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNotNumeric is returned when a value cannot be converted to float64s.
var ErrNotNumeric = errors.New("value is not numeric")

// Ndim returns the number of array dimensions of v.
//
// Scalars, strings, maps and nil have zero dimensions. Slices and arrays
// have one more dimension than their first element; an empty slice has one.
// gonum vectors have one dimension and matrices two.
func Ndim(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case mat.Vector:
		return 1
	case mat.Matrix:
		return 2
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return 1
		}
		return 1 + Ndim(rv.Index(0).Interface())
	case reflect.Pointer:
		if rv.IsNil() {
			return 0
		}
		return Ndim(rv.Elem().Interface())
	default:
		return 0
	}
}

// IsArrayLike reports whether v has at least one dimension.
func IsArrayLike(v any) bool {
	return Ndim(v) != 0
}

// Size returns the total number of scalar elements in v: 1 for a scalar,
// the product of the dimensions for gonum types and the recursive element
// count for slices.
func Size(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case mat.Vector:
		return x.Len()
	case mat.Matrix:
		r, c := x.Dims()
		return r * c
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := 0
		for i := range rv.Len() {
			n += Size(rv.Index(i).Interface())
		}
		return n
	case reflect.Pointer:
		if rv.IsNil() {
			return 0
		}
		return Size(rv.Elem().Interface())
	default:
		return 1
	}
}

// Float64s flattens v in row-major order.
func Float64s(v any) ([]float64, error) {
	var out []float64
	if err := flatten(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(v any, out *[]float64) error {
	switch x := v.(type) {
	case float64:
		*out = append(*out, x)
		return nil
	case string:
		f, ok := parseNonFinite(x)
		if !ok {
			return errors.Wrapf(ErrNotNumeric, "%q", x)
		}
		*out = append(*out, f)
		return nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return errors.Wrapf(ErrNotNumeric, "%q", x)
		}
		*out = append(*out, f)
		return nil
	case mat.Vector:
		for i := range x.Len() {
			*out = append(*out, x.AtVec(i))
		}
		return nil
	case mat.Matrix:
		r, c := x.Dims()
		for i := range r {
			for j := range c {
				*out = append(*out, x.At(i, j))
			}
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		*out = append(*out, rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*out = append(*out, float64(rv.Uint()))
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := flatten(rv.Index(i).Interface(), out); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrNotNumeric, "%T", v)
	}
	return nil
}

// Vector converts a one-dimensional value into a gonum vector.
func Vector(v any) (*mat.VecDense, error) {
	if vec, ok := v.(mat.Vector); ok {
		return mat.VecDenseCopyOf(vec), nil
	}
	if n := Ndim(v); n != 1 {
		return nil, errors.Newf("want a 1-d array, got %d dimensions", n)
	}
	data, err := Float64s(v)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty vector")
	}
	return mat.NewVecDense(len(data), data), nil
}

// Dense converts a two-dimensional value into a gonum matrix.
// Rows must all have the same length.
func Dense(v any) (*mat.Dense, error) {
	if m, ok := v.(mat.Matrix); ok {
		return mat.DenseCopyOf(m), nil
	}
	if n := Ndim(v); n != 2 {
		return nil, errors.Newf("want a 2-d array, got %d dimensions", n)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	rows := rv.Len()
	var data []float64
	cols := -1
	for i := range rows {
		row, err := Float64s(rv.Index(i).Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		if cols == -1 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, errors.Newf("ragged matrix: row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	if cols <= 0 {
		return nil, errors.New("empty matrix")
	}
	return mat.NewDense(rows, cols, data), nil
}
