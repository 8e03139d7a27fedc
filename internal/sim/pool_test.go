package sim

import (
	"sync/atomic"
	"testing"
)

func TestPoolCoversRange(t *testing.T) {
	tests := []struct {
		workers int
		n       int
	}{
		{1, 10},
		{4, 10},
		{4, 1000},
		{3, minParallel},
		{8, 7 * minParallel},
	}
	for _, tt := range tests {
		p := newPool(tt.workers)
		hits := make([]int32, tt.n)
		p.run(tt.n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		p.shutdown()

		for i, h := range hits {
			if h != 1 {
				t.Errorf("workers=%d n=%d: index %d visited %d times", tt.workers, tt.n, i, h)
				break
			}
		}
	}
}

func TestPoolSmallRangeRunsInline(t *testing.T) {
	p := newPool(4)
	defer p.shutdown()

	calls := 0
	p.run(minParallel-1, func(lo, hi int) {
		calls++
		if lo != 0 || hi != minParallel-1 {
			t.Errorf("range = [%d, %d)", lo, hi)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNilPool(t *testing.T) {
	var p *pool
	n := 0
	p.run(100, func(lo, hi int) { n += hi - lo })
	p.shutdown()
	if n != 100 {
		t.Errorf("covered %d, want 100", n)
	}
}
