package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForRangeCoversAllIndices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 10

	n := 1000
	seen := make([]int32, n)
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	}, cfg)

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForRangeSequential(t *testing.T) {
	cfg := Config{Enabled: false}

	calls := 0
	ForRange(100, func(start, end int) {
		calls++
		if start != 0 || end != 100 {
			t.Errorf("sequential path should see the full range, got [%d, %d)", start, end)
		}
	}, cfg)
	if calls != 1 {
		t.Errorf("sequential path should call f once, got %d", calls)
	}
}

func TestForRangeSmallFallsBack(t *testing.T) {
	cfg := DefaultConfig()

	calls := 0
	n := cfg.MinChunkSize - 1
	ForRange(n, func(start, end int) {
		calls++
		if end-start != n {
			t.Errorf("small range should stay in one chunk, got [%d, %d)", start, end)
		}
	}, cfg)
	if calls != 1 {
		t.Errorf("small range should call f once, got %d", calls)
	}
}

func TestForRangeZero(t *testing.T) {
	ForRange(0, func(start, end int) {
		if start != end {
			t.Errorf("empty range should be empty, got [%d, %d)", start, end)
		}
	}, Config{Enabled: false})
}
