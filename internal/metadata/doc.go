// Package metadata parses and validates contribution metadata documents.
//
// A metadata.yml is parsed with YAML, converted to JSON and validated against
// an embedded JSON Schema. Required keys are name, short_description,
// authors and examples; citation, contacts and extra_websites are optional
// but must be well formed when present.
//
//	checker, err := metadata.NewChecker()
//	meta, err := checker.CheckFile("contrib/linear_regression/metadata.yml")
//	n := meta.ExampleCount()
package metadata
