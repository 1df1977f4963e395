package concurrent

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunJobsKeepsOrder(t *testing.T) {
	wp, err := NewWorkerPool(4)
	require.NoError(t, err)
	defer wp.Release()

	jobs := make([]Job[RowRange], 0)
	for i := 0; i < 50; i++ {
		jobs = append(jobs, NewJob(i, NewRowRange(int32(i*10), int32(i*10+10))))
	}

	results := RunJobs(wp, jobs, func(r RowRange) int32 {
		return r.End - r.Start + r.Start
	})

	require.Len(t, results, 50)
	for i, res := range results {
		assert.Equal(t, int32(i*10+10), res)
	}
}

func TestWorkerPoolGoAfterRelease(t *testing.T) {
	wp, err := NewWorkerPool(2)
	require.NoError(t, err)
	assert.Equal(t, 2, wp.Cap())
	wp.Release()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wp.Go(&wg, func() {
			count.Add(1)
		})
	}
	wg.Wait()
	assert.Equal(t, int32(5), count.Load())
}
