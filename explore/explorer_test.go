package explore

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/snapshotpool"
	"github.com/hupe1980/snapshotpool/resource"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		model  Model
		states int
		depth  int
	}{
		{"counters", Counters{Counters: 4, Max: 10}, 10000, 36},
		{"single counter", Counters{Counters: 1, Max: 5}, 5, 4},
		{"onehot", OneHot{Registers: 4, Width: 5}, 1296, 4},
		{"onehot straddling", OneHot{Registers: 2, Width: 40}, 41 * 41, 2},
		{"words", Words{Alphabet: 3, MaxLen: 5}, 1 + 3 + 9 + 27 + 81 + 243, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range []StorageKind{StorageManaged, StorageUnmanaged} {
				res, err := Run(context.Background(), tt.model, WithStorage(kind), WithCapacity(16))
				require.NoError(t, err)
				assert.Equal(t, tt.model.Name(), res.Model)
				assert.Equal(t, tt.states, res.States, "%s", kind)
				assert.Equal(t, tt.depth, res.Depth, "%s", kind)
				assert.False(t, res.Truncated)
				assert.Positive(t, res.Transitions)
				assert.NotEmpty(t, res.RunID)
				assert.Positive(t, res.VisitedSize)
			}
		})
	}
}

func TestRun_PoolStats(t *testing.T) {
	res, err := Run(context.Background(), Counters{Counters: 3, Max: 10})
	require.NoError(t, err)

	assert.Equal(t, "fixed", res.Pool.Mode)
	assert.Equal(t, 1000, res.Pool.Snapshots)
	assert.Positive(t, res.Pool.Hits)
	assert.Equal(t, uint64(999), res.Pool.Misses)
}

func TestRun_MaxStates(t *testing.T) {
	res, err := Run(context.Background(), Counters{Counters: 4, Max: 10}, WithMaxStates(100))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 100, res.States)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, Counters{Counters: 4, Max: 10})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, res.States, 10000)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Counters{}, WithCapacity(1))
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = Run(context.Background(), Words{Alphabet: 0})
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = Run(context.Background(), Counters{Counters: 1, Max: 2}, WithStorage("disk"))
	assert.ErrorIs(t, err, ErrUnknownStorage)

	_, err = Run(context.Background(), Counters{Counters: 100, Max: 2})
	assert.ErrorIs(t, err, snapshotpool.ErrSnapshotTooLarge)
}

func TestRun_MemoryBudget(t *testing.T) {
	ctl := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 10})

	_, err := Run(context.Background(), Counters{Counters: 6, Max: 10}, WithController(ctl))
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Zero(t, ctl.MemoryUsage())
	assert.LessOrEqual(t, ctl.PeakMemoryUsage(), int64(64<<10))
}

func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := snapshotpool.NewLogger(slog.NewJSONHandler(&buf, nil))

	res, err := Run(context.Background(), Counters{Counters: 2, Max: 3}, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"exploration completed"`)
	assert.Contains(t, out, `"run":"`+res.RunID+`"`)
	assert.Contains(t, out, `"states":9`)
}

func TestRunAll(t *testing.T) {
	models := []Model{
		Counters{Counters: 3, Max: 10},
		OneHot{Registers: 4, Width: 5},
		Words{Alphabet: 2, MaxLen: 8},
	}
	metrics := &snapshotpool.BasicMetricsCollector{}
	ctl := resource.NewController(resource.Config{MaxWorkers: 2})

	results, err := RunAll(context.Background(), models,
		WithWorkers(3),
		WithController(ctl),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1000, results[0].States)
	assert.Equal(t, 1296, results[1].States)
	assert.Equal(t, 511, results[2].States)

	ids := map[string]bool{}
	for _, r := range results {
		ids[r.RunID] = true
	}
	assert.Len(t, ids, 3)
	assert.Positive(t, metrics.GetStats().InternHits)
}

func TestRunAll_FirstErrorWins(t *testing.T) {
	models := []Model{
		Counters{Counters: 2, Max: 3},
		Words{Alphabet: 30, MaxLen: 1},
	}
	_, err := RunAll(context.Background(), models, WithWorkers(2))
	assert.ErrorIs(t, err, ErrInvalidModel)
}
