package routingalgorithm

import (
	"fmt"
	"math"
)

// arc. edge u->v dilihat dari v (incoming). karena graph dua arah, incoming arc v diambil dari adjacency list v sendiri: edge v->u dibaca sebagai u->v.
type arc struct {
	from   int32
	weight float64
}

// buildArcs. incoming arcs setiap node, urut sesuai adjacency order graph.
func buildArcs(g RoadGraph, ni NodeIndex) ([][]arc, error) {
	n := ni.Len()
	arcs := make([][]arc, n)
	for v := 0; v < n; v++ {
		id, err := ni.ExternalIDOf(int32(v))
		if err != nil {
			return nil, err
		}
		edges := g.Neighbors(id)
		arcs[v] = make([]arc, 0, len(edges))
		for _, e := range edges {
			u, err := ni.IndexOf(e.To)
			if err != nil {
				return nil, fmt.Errorf("road %q %d->%d: %w", e.Name, e.From, e.To, err)
			}
			arcs[v] = append(arcs[v], arc{from: u, weight: e.Weight})
		}
	}
	return arcs, nil
}

// relaxRows. isi curr[v] untuk v di [start, end) dari prev (round sebelumnya).
// curr[v] = min(prev[v], prev[u] + w(u,v)). pakai strict <, jadi kalau ada beberapa kandidat yang sama, arc pertama di adjacency order yang menang.
func relaxRows(curr, prev []float64, arcs [][]arc, start, end int32) {
	for v := start; v < end; v++ {
		best := prev[v]
		for _, a := range arcs[v] {
			candidate := prev[a.from] + a.weight
			if candidate < best {
				best = candidate
			}
		}
		curr[v] = best
	}
}

/*
ComputeDistances. bounded bellman-ford pakai explicit dynamic programming.

	A[s][0] = 0, A[v][0] = +Inf
	A[v][k] = min(A[v][k-1], min_{(u,v) in E} A[u][k-1] + w(u,v)),  k = 1..n-1

loop jalan tepat n-1 round. precondition: semua weight finite & nonnegative (dicek saat edge masuk graph),
tidak ada negative cycle detection.

ErrUnknownNode kalau source tidak ada di index.
*/
func ComputeDistances(g RoadGraph, ni NodeIndex, source int64) (*DistanceTable, error) {
	arcs, err := buildArcs(g, ni)
	if err != nil {
		return nil, err
	}
	return computeDistances(arcs, ni, source, sequentialRelax)
}

type relaxFunc func(curr, prev []float64, arcs [][]arc)

func sequentialRelax(curr, prev []float64, arcs [][]arc) {
	relaxRows(curr, prev, arcs, 0, int32(len(arcs)))
}

func computeDistances(arcs [][]arc, ni NodeIndex, source int64, relax relaxFunc) (*DistanceTable, error) {
	s, err := ni.IndexOf(source)
	if err != nil {
		return nil, fmt.Errorf("source %d: %w", source, err)
	}

	n := len(arcs)
	table := newDistanceTable(source, s, n)
	for k := 1; k < n; k++ {
		relax(table.rounds[k], table.rounds[k-1], arcs)
	}
	return table, nil
}

// shortestDistances. versi rolling two-row buffer, memori O(n). hasilnya sama dengan kolom terakhir DistanceTable.
func shortestDistances(arcs [][]arc, ni NodeIndex, source int64, relax relaxFunc) ([]float64, error) {
	s, err := ni.IndexOf(source)
	if err != nil {
		return nil, fmt.Errorf("source %d: %w", source, err)
	}

	n := len(arcs)
	prev := make([]float64, n)
	curr := make([]float64, n)
	for i := range prev {
		prev[i] = math.Inf(1)
	}
	prev[s] = 0

	for k := 1; k < n; k++ {
		relax(curr, prev, arcs)
		prev, curr = curr, prev
	}
	return prev, nil
}

// ShortestDistances. shortest distance dari source ke semua node (urut internal index), tanpa menyimpan tabel n x n.
// path tidak bisa di reconstruct dari hasil ini.
func ShortestDistances(g RoadGraph, ni NodeIndex, source int64) ([]float64, error) {
	arcs, err := buildArcs(g, ni)
	if err != nil {
		return nil, err
	}
	return shortestDistances(arcs, ni, source, sequentialRelax)
}
