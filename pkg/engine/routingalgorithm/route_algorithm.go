package routingalgorithm

import "github.com/lintang-b-s/roadpath/pkg/concurrent"

const (
	defaultParallelThreshold = 2048
)

/*
RouteAlgorithm. bounded bellman-ford untuk satu road graph yang sudah di freeze.

incoming arcs setiap node dihitung sekali di NewRouteAlgorithm, lalu dipakai semua query.
RouteAlgorithm aman dipakai concurrent oleh banyak query (source berbeda), setiap query punya DistanceTable sendiri.

kalau ada worker pool dan jumlah node >= parallel threshold, row dalam satu round di relax parallel.
round k+1 baru mulai setelah semua row round k selesai (barrier), karena round k hanya membaca round k-1 hasilnya identik dengan versi sequential.
*/
type RouteAlgorithm struct {
	graph             RoadGraph
	index             NodeIndex
	arcs              [][]arc
	pool              *concurrent.WorkerPool
	parallelThreshold int
}

type Option func(*RouteAlgorithm)

func WithWorkerPool(pool *concurrent.WorkerPool) Option {
	return func(rt *RouteAlgorithm) {
		rt.pool = pool
	}
}

// WithParallelThreshold. jumlah node minimum supaya relaxation dijalankan parallel.
func WithParallelThreshold(n int) Option {
	return func(rt *RouteAlgorithm) {
		rt.parallelThreshold = n
	}
}

func NewRouteAlgorithm(g RoadGraph, ni NodeIndex, opts ...Option) (*RouteAlgorithm, error) {
	arcs, err := buildArcs(g, ni)
	if err != nil {
		return nil, err
	}
	rt := &RouteAlgorithm{
		graph:             g,
		index:             ni,
		arcs:              arcs,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt, nil
}

func (rt *RouteAlgorithm) NumNodes() int {
	return len(rt.arcs)
}

func (rt *RouteAlgorithm) ComputeDistances(source int64) (*DistanceTable, error) {
	return computeDistances(rt.arcs, rt.index, source, rt.relax)
}

func (rt *RouteAlgorithm) ReconstructPath(table *DistanceTable, target int64) (Path, error) {
	return ReconstructPath(rt.graph, rt.index, table, target)
}

// ShortestPath. ComputeDistances dari source lalu ReconstructPath ke target.
func (rt *RouteAlgorithm) ShortestPath(source, target int64) (Path, error) {
	// cek target dulu supaya tidak buang waktu isi tabel n x n
	if _, err := rt.index.IndexOf(target); err != nil {
		return Path{}, err
	}
	table, err := rt.ComputeDistances(source)
	if err != nil {
		return Path{}, err
	}
	return rt.ReconstructPath(table, target)
}

// ShortestDistances. versi rolling buffer, urut internal index.
func (rt *RouteAlgorithm) ShortestDistances(source int64) ([]float64, error) {
	return shortestDistances(rt.arcs, rt.index, source, rt.relax)
}

func (rt *RouteAlgorithm) relax(curr, prev []float64, arcs [][]arc) {
	n := len(arcs)
	if rt.pool == nil || n < rt.parallelThreshold || rt.pool.Cap() < 2 {
		sequentialRelax(curr, prev, arcs)
		return
	}

	workers := rt.pool.Cap()
	chunk := (n + workers - 1) / workers

	jobs := make([]concurrent.Job[concurrent.RowRange], 0, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		jobs = append(jobs, concurrent.NewJob(len(jobs), concurrent.NewRowRange(int32(start), int32(end))))
	}

	concurrent.RunJobs(rt.pool, jobs, func(rows concurrent.RowRange) struct{} {
		relaxRows(curr, prev, arcs, rows.Start, rows.End)
		return struct{}{}
	})
}
