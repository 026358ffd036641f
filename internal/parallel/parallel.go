// Package parallel provides goroutine-based parallel loops for the CPU
// backend. The forward pass is data-parallel across batch elements,
// attention rows and matrix rows, with no shared mutable state, so a
// plain fan-out over index ranges is all that is needed.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16,
	}
}

// Sequential returns a config that always runs loops on the calling
// goroutine. Used by tests that need a deterministic execution order.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n), splitting the range across worker
// goroutines. Falls back to a sequential loop when parallelism is
// disabled or n is too small to amortize the goroutine overhead.
// f must not touch state shared between iterations.
func For(n int, cfg Config, f func(i int)) {
	if !cfg.Enabled || n < cfg.MinChunkSize*2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	if chunk < cfg.MinChunkSize {
		chunk = cfg.MinChunkSize
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// For2D executes f(i, j) for the outer*inner index grid. Common pattern
// for batch*heads iteration in batched matrix multiplication.
func For2D(outer, inner int, cfg Config, f func(i, j int)) {
	For(outer*inner, cfg, func(k int) {
		f(k/inner, k%inner)
	})
}
