// Package logger provides structured logging for collstress.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the global default
//   - context.go: run and worker tags carried through context.Context and
//     added to every record by the handler
//
// Output is JSON by default; "text" selects slog's text handler. The level
// can be changed at runtime with SetLevel, which the config watcher does
// when log.level changes on disk.
package logger
