package logger

import "context"

type ctxKey int

const (
	loggerKey ctxKey = iota
	runIDKey
	workerKey
)

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID tags ctx with a workload run ID. Records logged with ctx carry
// it as run_id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithWorker tags ctx with a worker index. Records logged with ctx carry it
// as worker.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey, worker)
}

// WorkerFromContext returns the worker index in ctx, or -1.
func WorkerFromContext(ctx context.Context) int {
	if w, ok := ctx.Value(workerKey).(int); ok {
		return w
	}
	return -1
}

// L returns the logger from ctx bound to ctx, so its records pick up the
// run ID and worker tags.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
