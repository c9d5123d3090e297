// Package fileutil provides size-limited reads and atomic writes.
package fileutil
