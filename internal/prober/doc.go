// Package prober exercises the standard functions of a loaded contribution.
//
// Probing runs in three stages. CheckExports compares the declared export
// list against the seven standard names before anything is called.
// ProbeRequired calls set_example_number(0), suggested_model(), data() and
// forward(model) and requires array-like results. ProbeOptional calls
// forward with the jacobian, jacobian, plot_model and plot_data. Each of
// those is Supported, Unsupported (the contribution reported not
// implemented) or Failed.
package prober
