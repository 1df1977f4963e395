package concurrent

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// WorkerPool. goroutine pool (ants) yang dipakai ingestion & parallel relaxation.
type WorkerPool struct {
	pool *ants.Pool
}

// NewWorkerPool. size <= 0 berarti runtime.NumCPU().
func NewWorkerPool(size int) (*WorkerPool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &WorkerPool{pool: pool}, nil
}

func (wp *WorkerPool) Cap() int {
	return wp.pool.Cap()
}

func (wp *WorkerPool) Release() {
	wp.pool.Release()
}

// Go. jalankan task di pool. kalau pool menolak (mis. sudah di release), task dijalankan di goroutine caller.
func (wp *WorkerPool) Go(wg *sync.WaitGroup, task func()) {
	wg.Add(1)
	err := wp.pool.Submit(func() {
		defer wg.Done()
		task()
	})
	if err != nil {
		task()
		wg.Done()
	}
}

// RunJobs. jalankan semua job di pool dan tunggu semuanya selesai (barrier).
// hasil ke-i adalah hasil jobs[i].
func RunJobs[T JobI, G any](wp *WorkerPool, jobs []Job[T], fn JobFunc[T, G]) []G {
	results := make([]G, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		i := i
		wp.Go(&wg, func() {
			results[i] = fn(jobs[i].JobItem)
		})
	}
	wg.Wait()
	return results
}
