// Package parallel provides chunked parallel loops used for batch evaluation.
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
		MinChunkSize: 16, // A network sweep is far heavier than a scalar op.
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{}
}

// NumChunks returns how many chunks ForChunks splits n items into.
func NumChunks(n int, cfg Config) int {
	if n <= 0 {
		return 0
	}
	size := chunkSize(n, cfg)
	return (n + size - 1) / size
}

func chunkSize(n int, cfg Config) int {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		return n
	}
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// ForChunks splits [0, n) into contiguous chunks and calls f(chunk, start, end)
// once per chunk, concurrently. chunk is in [0, NumChunks(n, cfg)), so callers
// can give every chunk private scratch state indexed by it.
// Falls back to a single sequential call if parallelism is disabled or n is too small.
func ForChunks(n int, cfg Config, f func(chunk, start, end int)) {
	if n <= 0 {
		return
	}
	size := chunkSize(n, cfg)
	if size >= n {
		f(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	for chunk, start := 0, 0; start < n; chunk, start = chunk+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			f(c, s, e)
		}(chunk, start, end)
	}
	wg.Wait()
}
