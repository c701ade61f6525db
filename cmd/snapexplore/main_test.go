package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/snapshotpool/explore"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		arg     string
		want    explore.Model
		wantErr bool
	}{
		{"counters:4,10", explore.Counters{Counters: 4, Max: 10}, false},
		{"onehot:3, 7", explore.OneHot{Registers: 3, Width: 7}, false},
		{"words:2,5", explore.Words{Alphabet: 2, MaxLen: 5}, false},
		{"counters:4", nil, true},
		{"counters:4,-1", nil, true},
		{"words:a,b", nil, true},
		{"queue:1,2", nil, true},
		{"onehot", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseModel(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, errModelArg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunExplore(t *testing.T) {
	opts := RunOptions{
		Workers:   2,
		Storage:   "unmanaged",
		Capacity:  16,
		LogLevel:  "error",
		LogFormat: "json",
	}

	var out bytes.Buffer
	err := runExplore(context.Background(), opts, []string{"counters:2,3", "words:2,3"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "counters(2,3)")
	assert.Contains(t, out.String(), "states=9 ")
	assert.Contains(t, out.String(), "words(2,3)")
	assert.Contains(t, out.String(), "states=15 ")
	assert.Contains(t, out.String(), "peak storage memory")

	t.Run("invalid input", func(t *testing.T) {
		assert.Error(t, runExplore(context.Background(), opts, []string{"nope:1,1"}, io.Discard))

		bad := opts
		bad.LogLevel = "loud"
		assert.Error(t, runExplore(context.Background(), bad, []string{"counters:1,1"}, io.Discard))

		bad = opts
		bad.Storage = "tape"
		assert.ErrorIs(t, runExplore(context.Background(), bad, []string{"counters:1,1"}, io.Discard), explore.ErrUnknownStorage)
	})
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newPrometheusCollector(reg)

	c.RecordIntern(true)
	c.RecordIntern(false)
	c.RecordIntern(false)
	c.RecordGrowth(100, 400)

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `snapshotpool_interns_total{result="hit"} 1`)
	assert.Contains(t, body, `snapshotpool_interns_total{result="miss"} 2`)
	assert.Contains(t, body, "snapshotpool_storage_growths_total 1")
	assert.Contains(t, body, "snapshotpool_storage_grown_bytes_total 300")
}
