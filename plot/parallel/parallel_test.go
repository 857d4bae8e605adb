package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForRangeCoversEveryIndexExactlyOnce(t *testing.T) {
	const n = 10000
	var hits [n]int32
	ForRange(0, n, 8, func(start, stop int64) {
		for i := start; i < stop; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d hit %d times, want 1", i, h)
		}
	}
}

func TestForRangeRunsSeriallyForSmallRange(t *testing.T) {
	var calls int32
	ForRange(0, 2, 8, func(start, stop int64) {
		atomic.AddInt32(&calls, 1)
	})
	if calls != 1 {
		t.Fatalf("expected one serial call for a range smaller than the thread count, got %d", calls)
	}
}
