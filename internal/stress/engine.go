package stress

import (
	"context"
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NerdyDuck/NerdyDuck.Collections/internal/telemetry/logger"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/telemetry/metric"
)

// Operation names used in metrics and logs.
const (
	OpInsert    = "insert"
	OpDelete    = "delete"
	OpLookup    = "lookup"
	OpEnumerate = "enumerate"
)

// Engine runs one workload.
type Engine struct {
	cfg     Config
	metrics *metric.Registry
	now     func() time.Time
	current atomic.Pointer[counters]
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMetrics records operations in r instead of the global registry.
func WithMetrics(r *metric.Registry) EngineOption {
	return func(e *Engine) {
		e.metrics = r
	}
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metric.Global()
	}
	return e, nil
}

type counters struct {
	inserts, removes, refused, reads, enumerations, ops atomic.Int64
}

// Progress returns the number of operations completed by the current or
// last run.
func (e *Engine) Progress() int64 {
	if c := e.current.Load(); c != nil {
		return c.ops.Load()
	}
	return 0
}

// Run drives the workload until the op budget is spent, Duration elapses
// or ctx is cancelled. Cancellation is not an error: the report covers
// whatever ran. Any unexpected container error aborts the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	cfg := e.cfg
	runID := ulid.MustNew(ulid.Timestamp(e.now()), rand.Reader).String()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.L(ctx)

	target, err := NewTarget(cfg)
	if err != nil {
		return nil, err
	}
	defer target.Close()

	e.metrics.ContainerSize.Track(cfg.Variant, cfg.Shape, target.Count)
	defer e.metrics.ContainerSize.Untrack(cfg.Variant, cfg.Shape)

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), max(1, cfg.Workers))
	}

	randSeed := cfg.RandSeed
	if randSeed == 0 {
		randSeed = mrand.Uint64()
	}

	log.Info("run started",
		"variant", cfg.Variant,
		"shape", cfg.Shape,
		"untyped", cfg.Untyped,
		"workers", cfg.Workers,
		"ops", cfg.Ops,
		"seed", cfg.Seed,
		"rand_seed", randSeed,
	)

	var c counters
	e.current.Store(&c)
	start := e.now()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		budget := -1
		if cfg.Ops > 0 {
			budget = cfg.Ops / cfg.Workers
			if w < cfg.Ops%cfg.Workers {
				budget++
			}
		}
		wk := &worker{
			id:      w,
			cfg:     cfg,
			target:  target,
			limiter: limiter,
			metrics: e.metrics,
			rng:     mrand.New(mrand.NewPCG(randSeed, uint64(w))),
			c:       &c,
		}
		g.Go(func() error {
			return wk.run(logger.WithWorker(gctx, wk.id), budget)
		})
	}
	runErr := g.Wait()
	elapsed := e.now().Sub(start)

	final, err := target.Count()
	if err != nil {
		return nil, fmt.Errorf("stress: final count: %w", err)
	}

	report := &Report{
		RunID:        runID,
		Variant:      cfg.Variant,
		Shape:        cfg.Shape,
		Untyped:      cfg.Untyped,
		Workers:      cfg.Workers,
		Seeded:       int64(cfg.Seed),
		Inserts:      c.inserts.Load(),
		Removes:      c.removes.Load(),
		Refused:      c.refused.Load(),
		Reads:        c.reads.Load(),
		Enumerations: c.enumerations.Load(),
		Ops:          c.ops.Load(),
		FinalCount:   int64(final),
		Elapsed:      elapsed,
	}
	if elapsed > 0 {
		report.OpsPerSecond = float64(report.Ops) / elapsed.Seconds()
	}

	if runErr != nil {
		log.Error("run aborted", "error", runErr, "ops", report.Ops)
		return report, runErr
	}

	log.Info("run finished",
		"ops", report.Ops,
		"inserts", report.Inserts,
		"removes", report.Removes,
		"final_count", report.FinalCount,
		"elapsed", elapsed,
	)
	return report, nil
}

type worker struct {
	id      int
	cfg     Config
	target  Target
	limiter *rate.Limiter
	metrics *metric.Registry
	rng     *mrand.Rand
	c       *counters
}

// run executes budget operations, or runs until ctx ends when budget is
// negative.
func (w *worker) run(ctx context.Context, budget int) error {
	log := logger.L(ctx)
	for i := 0; budget < 0 || i < budget; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
		}
		if err := w.step(); err != nil {
			log.Error("operation failed", "error", err)
			return err
		}
	}
	log.Debug("worker finished", "budget", budget)
	return nil
}

func (w *worker) step() error {
	key := w.rng.IntN(w.cfg.KeySpace)
	roll := w.rng.Float64()

	var op string
	var err error
	start := time.Now()
	switch {
	case roll < w.cfg.EnumerateRatio:
		op = OpEnumerate
		_, err = w.target.Enumerate()
		if err == nil {
			w.c.enumerations.Add(1)
			w.metrics.IncEnumerations(w.cfg.Variant, w.cfg.Shape)
		}
	case roll < w.cfg.EnumerateRatio+w.cfg.ReadRatio:
		op = OpLookup
		_, err = w.target.Lookup(key)
		if err == nil {
			w.c.reads.Add(1)
		}
	case w.rng.IntN(2) == 0:
		op = OpInsert
		var ok bool
		ok, err = w.target.Insert(key)
		w.tally(ok, err, &w.c.inserts)
	default:
		op = OpDelete
		var ok bool
		ok, err = w.target.Delete(key)
		w.tally(ok, err, &w.c.removes)
	}

	w.c.ops.Add(1)
	w.metrics.RecordOp(w.cfg.Variant, w.cfg.Shape, op, err)
	w.metrics.ObserveOpDuration(w.cfg.Variant, w.cfg.Shape, op, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("stress: worker %d %s key %d: %w", w.id, op, key, err)
	}
	return nil
}

func (w *worker) tally(ok bool, err error, n *atomic.Int64) {
	switch {
	case err != nil:
	case ok:
		n.Add(1)
	default:
		w.c.refused.Add(1)
	}
}
