// Package output renders collstress results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text tables built from structs, slices and maps
//   - json.go, yaml.go: machine-readable encodings
//   - progress.go: live operation counter for runs in a terminal
package output
