// Package buildinfo reports the collstress version.
//
// Values come from ldflags when set:
//
//	go build -ldflags "-X github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/buildinfo.Version=v1.0.0"
//
// Otherwise they fall back to the module and VCS data embedded by the Go
// toolchain.
package buildinfo
