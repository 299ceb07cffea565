// Package parallel schedules data-movement loops across CPU workers.
//
// Only draw-free work goes through here. Random kernels consume generator
// state sequentially so that seeded runs reproduce; parallelizing them would
// reorder the draws.
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
		MinChunkSize: 4096,
	}
}

// ForRange splits [0, n) into contiguous chunks and runs f(start, end) on one
// goroutine per chunk. Chunks are disjoint, so f may write to non-overlapping
// regions of a shared buffer without synchronization. Falls back to a single
// sequential call when parallelism is disabled or n is too small to amortize
// the goroutine overhead.
func ForRange(n int, f func(start, end int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
