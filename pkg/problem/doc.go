// Package problem is the contributor SDK for espresso test problems.
//
// A contribution implements [Problem], the Standard Function Surface:
//
//	set_example_number, suggested_model, data, forward   (required)
//	jacobian, plot_model, plot_data                      (optional)
//
// Optional functions return [ErrNotImplemented] to signal that they are
// unsupported; embedding [Unimplemented] provides those defaults. The same
// applies to [Problem.Forward] when the jacobian is requested.
//
// Contributions are plugin programs. Their main.go is a one-line shim:
//
//	func main() {
//		problem.Main("gravity_density", New())
//	}
//
// [Main] serves the problem as Model Context Protocol tools over stdio, one
// tool per exported function. A problem may narrow its declared surface by
// implementing [Exporter].
//
// # Array-like values
//
// Results of suggested_model, data, forward and jacobian must be array-like:
// any value whose [Ndim] is non-zero. Slices, arrays and gonum vectors and
// matrices qualify; bare numbers do not. [Vector] and [Dense] convert the
// JSON-decoded values a problem receives back into gonum types.
package problem
