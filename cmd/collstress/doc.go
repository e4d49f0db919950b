// Package main provides the entry point for collstress.
//
// collstress drives the copy-on-write and lock-guarded collections with a
// concurrent workload and checks that their item counts stay consistent.
//
// Usage:
//
//	collstress run --variant cow --shape list --workers 8 --ops 100000
//	collstress verify --variant locked --shape map --duration 30s
//	collstress config show -o yaml
//	collstress version
package main
