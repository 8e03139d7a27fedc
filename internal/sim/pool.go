package sim

import "sync"

// minParallel is the smallest batch worth splitting across workers.
const minParallel = 64

// pool runs index ranges on a fixed set of worker goroutines.
type pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
}

func newPool(workers int) *pool {
	p := &pool{
		workers: workers,
		jobs:    make(chan func(), workers),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// run calls fn over [0, n) split into contiguous chunks and waits for all of them.
// Small ranges run on the calling goroutine.
func (p *pool) run(n int, fn func(lo, hi int)) {
	if p == nil || p.workers <= 1 || n < minParallel {
		fn(0, n)
		return
	}

	chunks := p.workers
	size := (n + chunks - 1) / chunks
	var done sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		done.Add(1)
		p.jobs <- func() {
			defer done.Done()
			fn(lo, hi)
		}
	}
	done.Wait()
}

// shutdown stops the workers.
func (p *pool) shutdown() {
	if p == nil {
		return
	}
	close(p.jobs)
	p.wg.Wait()
}
