package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversAllIndices(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 31, 32, 100, 1000} {
		seen := make([]int32, n)
		For(n, DefaultConfig(), func(i int) {
			atomic.AddInt32(&seen[i], 1)
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func TestForSequentialOrder(t *testing.T) {
	var order []int
	For(10, Sequential(), func(i int) {
		order = append(order, i)
	})
	for i, v := range order {
		if v != i {
			t.Fatalf("sequential loop visited %v", order)
		}
	}
}

func TestForSmallRangeStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 16}
	// n < MinChunkSize*2 runs on the calling goroutine, so appending
	// without synchronization is safe.
	var order []int
	For(31, cfg, func(i int) {
		order = append(order, i)
	})
	if len(order) != 31 {
		t.Fatalf("expected 31 iterations, got %d", len(order))
	}
}

func TestFor2D(t *testing.T) {
	const outer, inner = 7, 13
	var count int32
	seen := make([]int32, outer*inner)
	For2D(outer, inner, DefaultConfig(), func(i, j int) {
		if i < 0 || i >= outer || j < 0 || j >= inner {
			t.Errorf("out of range indices (%d, %d)", i, j)
		}
		atomic.AddInt32(&seen[i*inner+j], 1)
		atomic.AddInt32(&count, 1)
	})
	if count != outer*inner {
		t.Fatalf("expected %d iterations, got %d", outer*inner, count)
	}
	for k, c := range seen {
		if c != 1 {
			t.Fatalf("cell %d visited %d times", k, c)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers = %d", cfg.NumWorkers)
	}
	if cfg.MinChunkSize < 1 {
		t.Errorf("MinChunkSize = %d", cfg.MinChunkSize)
	}
}
