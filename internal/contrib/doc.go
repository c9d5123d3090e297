// Package contrib discovers contribution folders and checks their layout.
//
// A contribution is an immediate subfolder of the contributions root. Its
// folder name is the contribution name and must match the main source file
// <name>.go. The folder must also hold the required artifacts (README.md,
// LICENCE, metadata.yml and main.go by default).
package contrib
