package renderer

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

// minStarsPerTask keeps tiny fields on the calling goroutine.
const minStarsPerTask = 4096

// StarPacker serializes point clouds into GPUStar instance data, splitting large
// clouds into disjoint ranges packed on a fixed set of workers.
//
// The workers share one task channel. Release closes it, which ends every
// worker goroutine; worker.DynamicWorkerPool.Stop routes stop ids through a
// shared channel and can miss workers.
type StarPacker struct {
	mu       sync.RWMutex
	workers  int
	tasks    chan worker.Task
	stop     chan int
	pool     []worker.Worker
	released bool
}

// NewStarPacker creates a packer with the given number of workers.
// A value below one uses runtime.NumCPU.
//
// Parameters:
//   - workers: the maximum number of concurrent pack tasks
//
// Returns:
//   - *StarPacker: the packer
func NewStarPacker(workers int) *StarPacker {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	p := &StarPacker{
		workers: workers,
		tasks:   make(chan worker.Task, 256),
		stop:    make(chan int, workers),
	}
	if workers == 1 {
		return p
	}
	for i := range workers {
		w := worker.NewWorker(i, p.tasks, p.stop, 1*time.Second, func(int) {})
		w.Start()
		p.pool = append(p.pool, w)
	}
	return p
}

// Release stops the packer's workers. Pack keeps working afterwards on the
// calling goroutine. Calling Release more than once is a no-op.
func (p *StarPacker) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	close(p.tasks)
	p.pool = nil
}

// Workers reports how many worker goroutines are running.
func (p *StarPacker) Workers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pool)
}

// Pack writes every point of src into dst, growing dst when it is too small.
//
// Parameters:
//   - dst: a reusable destination buffer, may be nil
//   - src: the point attributes
//
// Returns:
//   - []byte: the packed buffer of src.Len() * GPUStarSize bytes
func (p *StarPacker) Pack(dst []byte, src model.PointSource) []byte {
	n := src.Len()
	size := n * model.GPUStarSize
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	p.mu.RLock()
	defer p.mu.RUnlock()
	if n < minStarsPerTask*2 || len(p.pool) == 0 {
		model.PackStars(dst, src, 0, n)
		return dst
	}

	chunk := (n + p.workers - 1) / p.workers
	chunk = max(chunk, minStarsPerTask)

	// Workers never report completion, so a WaitGroup is the per-frame
	// barrier.
	var wg sync.WaitGroup
	id := 0
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		s, e := start, end
		p.tasks <- worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				model.PackStars(dst, src, s, e)
				return nil, nil
			},
		}
		id++
	}
	wg.Wait()
	return dst
}
