// Package shutdown coordinates graceful termination of a workload run.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	... run until ctx is cancelled ...
//	err := h.Shutdown()
package shutdown
