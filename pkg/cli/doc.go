// Package cli implements the seedapi command line: serve, validate, config
// and version.
package cli
