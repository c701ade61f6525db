package explore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/snapshotpool"
	"github.com/hupe1980/snapshotpool/storage"
)

var (
	// ErrInvalidModel is returned when a model is configured with impossible parameters.
	ErrInvalidModel = errors.New("explore: invalid model")
	// ErrUnknownStorage is returned for an unsupported StorageKind.
	ErrUnknownStorage = errors.New("explore: unknown storage kind")
	// ErrOutOfMemory is returned when pool storage could not grow.
	ErrOutOfMemory = errors.New("explore: out of memory")
)

// cancelCheckInterval is the number of expanded states between context checks.
const cancelCheckInterval = 1024

// Result summarizes one exploration.
type Result struct {
	RunID       string
	Model       string
	States      int
	Transitions int
	Depth       int  // distance of the farthest state from the initial one
	Truncated   bool // MaxStates was reached
	Duration    time.Duration
	VisitedSize uint64 // bytes held by the visited set
	Pool        snapshotpool.Stats
}

// Run explores model breadth-first from its initial state.
//
// On cancellation Run returns the partial result together with the context
// error.
func Run(ctx context.Context, model Model, opts ...Option) (Result, error) {
	return run(ctx, model, applyOptions(opts))
}

// RunAll explores models concurrently, each in its own pool. Results are
// returned in the order of models. The first failure cancels the remaining
// explorations.
func RunAll(ctx context.Context, models []Model, opts ...Option) ([]Result, error) {
	cfg := applyOptions(opts)
	results := make([]Result, len(models))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, m := range models {
		g.Go(func() error {
			if err := cfg.Controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer cfg.Controller.ReleaseWorker()

			res, err := run(gctx, m, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	var opts []storage.Option
	if cfg.Controller != nil {
		opts = append(opts, storage.WithMemoryAcquirer(cfg.Controller))
	}
	switch cfg.Storage {
	case StorageManaged, "":
		return storage.NewManaged(opts...), nil
	case StorageUnmanaged:
		return storage.NewUnmanaged(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}
}

func run(ctx context.Context, model Model, cfg Config) (res Result, err error) {
	res = Result{
		RunID: uuid.NewString(),
		Model: model.Name(),
	}
	logger := cfg.Logger.WithRun(res.RunID)
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		logger.LogExploration(ctx, res.Model, res.States, res.Transitions, err)
	}()

	st, err := newStorage(cfg)
	if err != nil {
		return res, err
	}
	pool, err := snapshotpool.NewWithStorage(st, model.BytesPerState(),
		snapshotpool.WithCapacity(cfg.Capacity),
		snapshotpool.WithName(res.Model),
		snapshotpool.WithLogger(logger),
		snapshotpool.WithMetricsCollector(cfg.Metrics),
	)
	if err != nil {
		return res, err
	}
	defer func() {
		res.Pool = pool.Stats()
		if cerr := pool.Close(); err == nil {
			err = cerr
		}
	}()

	// Storage growth reports exhaustion by panicking.
	defer func() {
		if r := recover(); r != nil {
			var allocErr *storage.AllocationError
			perr, ok := r.(error)
			if !ok || !errors.As(perr, &allocErr) {
				panic(r)
			}
			err = fmt.Errorf("%w: %w", ErrOutOfMemory, allocErr)
		}
	}()

	inst, err := model.Start(pool)
	if err != nil {
		return res, err
	}

	visited := roaring64.New()
	progress := rate.Sometimes{Interval: cfg.ProgressInterval}

	initial := inst.Initial()
	visited.Add(uint64(initial))
	res.States = 1
	frontier := []snapshotpool.Handle{initial}
	var next []snapshotpool.Handle

	visit := func(h snapshotpool.Handle) {
		res.Transitions++
		if res.Truncated {
			return
		}
		if visited.CheckedAdd(uint64(h)) {
			res.States++
			next = append(next, h)
			if cfg.MaxStates > 0 && res.States >= cfg.MaxStates {
				res.Truncated = true
			}
		}
	}

	expanded := 0
	for len(frontier) > 0 && !res.Truncated {
		for _, h := range frontier {
			expanded++
			if expanded%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					res.VisitedSize = visited.GetSizeInBytes()
					return res, err
				}
				progress.Do(func() {
					logger.InfoContext(ctx, "exploring",
						"model", res.Model,
						"states", res.States,
						"depth", res.Depth,
						"frontier", len(frontier),
					)
				})
			}
			inst.Successors(h, visit)
			if res.Truncated {
				break
			}
		}
		if len(next) > 0 {
			res.Depth++
		}
		frontier, next = next, frontier[:0]
	}

	res.VisitedSize = visited.GetSizeInBytes()
	return res, nil
}
