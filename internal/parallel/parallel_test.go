package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForChunks_CoversEveryItem(t *testing.T) {
	configs := map[string]Config{
		"parallel":   {Enabled: true, NumWorkers: 4, MinChunkSize: 8},
		"sequential": Sequential(),
		"default":    DefaultConfig(),
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			var counter int64
			n := 1000
			ForChunks(n, cfg, func(_, start, end int) {
				atomic.AddInt64(&counter, int64(end-start))
			})
			assert.Equal(t, int64(n), counter)
		})
	}
}

func TestForChunks(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		cfg        Config
		wantChunks int
	}{
		{"empty", 0, DefaultConfig(), 0},
		{"sequential", 50, Sequential(), 1},
		{"below min chunk", 7, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}, 1},
		{"even split", 40, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}, 4},
		{"min chunk wins", 40, Config{Enabled: true, NumWorkers: 8, MinChunkSize: 16}, 3},
		{"single worker", 40, Config{Enabled: true, NumWorkers: 1, MinChunkSize: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantChunks, NumChunks(tt.n, tt.cfg))

			seen := make([]int32, tt.n)
			chunks := make([]int32, tt.wantChunks)
			ForChunks(tt.n, tt.cfg, func(chunk, start, end int) {
				if !assert.Less(t, chunk, tt.wantChunks) {
					return
				}
				atomic.AddInt32(&chunks[chunk], 1)
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})

			for i, c := range seen {
				assert.Equal(t, int32(1), c, "item %d", i)
			}
			for c, k := range chunks {
				assert.Equal(t, int32(1), k, "chunk %d", c)
			}
		})
	}
}

func BenchmarkForChunks(b *testing.B) {
	n := 10000
	sum := func(_, start, end int) {
		var s int64
		for i := start; i < end; i++ {
			s += int64(i)
		}
		_ = s
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ForChunks(n, DefaultConfig(), sum)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ForChunks(n, Sequential(), sum)
		}
	})
}
