// Package validator provides the shared result types for espresso checks.
//
// It defines how a failed rule is represented ([Violation]), how issues
// (errors, warnings, info) are collected for one subject ([Result]) and how
// results are printed ([Reporter]).
//
// # Core Concepts
//
//   - [Kind]: The category of a failed rule (structural, interface, ...).
//   - [Violation]: A failed rule as an error value, naming its subject.
//   - [Severity]: Distinguishes between blocking errors and non-blocking notes.
//   - [Issue]: A single reported problem with field context.
//   - [Result]: Aggregates the issues of one subject.
//
// # Basic Usage
//
//	result := &validator.Result{Subject: name}
//	if err := check(); err != nil {
//		result.AddViolation(validator.NewViolation(validator.KindStructural, "LICENCE", "licence must not be empty", err))
//	}
//
//	if result.HasErrors() {
//		// handle validation failure
//	}
package validator
