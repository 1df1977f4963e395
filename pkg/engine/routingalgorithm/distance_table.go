package routingalgorithm

import "math"

/*
DistanceTable. tabel dynamic programming bounded bellman-ford.

At(v, k) = total weight minimum walk dari source ke v yang memakai paling banyak k edge (+Inf kalau tidak ada).
v adalah internal node index, k dari 0 sampai n-1 (n = jumlah node).

invariant:
  - At(source, 0) = 0, At(v, 0) = +Inf untuk v != source.
  - At(v, k) <= At(v, k-1) untuk k >= 1.

secara internal disimpan per round (rounds[k][v]) karena round k hanya membaca round k-1.
satu tabel dimiliki satu query, jangan di share.
*/
type DistanceTable struct {
	source    int64
	sourceIdx int32
	rounds    [][]float64
}

func newDistanceTable(source int64, sourceIdx int32, n int) *DistanceTable {
	rounds := make([][]float64, n)
	cells := make([]float64, n*n)
	for i := range cells {
		cells[i] = math.Inf(1)
	}
	for k := 0; k < n; k++ {
		rounds[k] = cells[k*n : (k+1)*n : (k+1)*n]
	}
	if n > 0 {
		rounds[0][sourceIdx] = 0
	}
	return &DistanceTable{
		source:    source,
		sourceIdx: sourceIdx,
		rounds:    rounds,
	}
}

// Source. external id source node.
func (dt *DistanceTable) Source() int64 {
	return dt.source
}

func (dt *DistanceTable) SourceIndex() int32 {
	return dt.sourceIdx
}

// Size. jumlah node n (tabel n x n).
func (dt *DistanceTable) Size() int {
	return len(dt.rounds)
}

// Budget. edge budget terbesar, n-1.
func (dt *DistanceTable) Budget() int {
	if len(dt.rounds) == 0 {
		return 0
	}
	return len(dt.rounds) - 1
}

func (dt *DistanceTable) At(v int32, k int) float64 {
	return dt.rounds[k][v]
}

// Distance. shortest distance ke v, At(v, n-1).
func (dt *DistanceTable) Distance(v int32) float64 {
	return dt.rounds[dt.Budget()][v]
}

func (dt *DistanceTable) Reachable(v int32) bool {
	return !math.IsInf(dt.Distance(v), 1)
}

// Row. copy semua nilai node v untuk k = 0..n-1.
func (dt *DistanceTable) Row(v int32) []float64 {
	row := make([]float64, len(dt.rounds))
	for k := range dt.rounds {
		row[k] = dt.rounds[k][v]
	}
	return row
}

// Distances. copy kolom terakhir (shortest distance semua node, urut internal index).
func (dt *DistanceTable) Distances() []float64 {
	if len(dt.rounds) == 0 {
		return []float64{}
	}
	last := dt.rounds[dt.Budget()]
	dists := make([]float64, len(last))
	copy(dists, last)
	return dists
}
