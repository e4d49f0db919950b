// Package command defines the collstress command line with urfave/cli/v2.
//
//   - root.go: the application, global flags and shared setup
//   - run.go: run and verify, which drive a workload
//   - config.go: config show and config validate
//   - version.go: build information
package command
