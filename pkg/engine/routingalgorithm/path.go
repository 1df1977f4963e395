package routingalgorithm

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/util"
)

var (
	// ErrNoPath. target tidak reachable dari source. ReconstructPath sendiri return Path{Found: false}, error ini buat layer di atasnya.
	ErrNoPath = errors.New("no path found")

	ErrTableMismatch = errors.New("distance table does not belong to this road graph")
)

// Path. satu shortest path. Edges urut dari source ke target (Edges[0].From = Source, Edges[len-1].To = Target).
// Found = false berarti tidak ada path; Found = true dengan Edges kosong berarti source == target.
type Path struct {
	Source   int64
	Target   int64
	Edges    []datastructure.Edge
	Distance float64
	Found    bool
}

func (p Path) StreetNames() []string {
	names := make([]string, 0, len(p.Edges))
	for _, e := range p.Edges {
		names = append(names, e.Name)
	}
	return names
}

/*
ReconstructPath. backtrack DistanceTable dari target untuk dapat satu shortest path.

mulai dari v = target, k = n-1. selama k > 0:
  - kalau A[v][k] == A[v][k-1], optimal value tidak berubah di budget k, k-- tanpa pakai edge.
  - selain itu cari edge pertama di adjacency list v (u = edge.To) dengan A[v][k] == A[u][k-1] + w.
    edge itu (dibalik jadi u->v) masuk ke depan path, v = u, k--.

adjacency list yang dibaca sama dengan yang dipakai ComputeDistances, jadi tie-break nya konsisten.
*/
func ReconstructPath(g RoadGraph, ni NodeIndex, table *DistanceTable, target int64) (Path, error) {
	t, err := ni.IndexOf(target)
	if err != nil {
		return Path{}, fmt.Errorf("target %d: %w", target, err)
	}
	if table.Size() != ni.Len() {
		return Path{}, fmt.Errorf("%w: table size %d, node count %d", ErrTableMismatch, table.Size(), ni.Len())
	}

	k := table.Budget()
	path := Path{
		Source:   table.Source(),
		Target:   target,
		Edges:    []datastructure.Edge{},
		Distance: table.At(t, k),
	}
	if math.IsInf(path.Distance, 1) {
		return path, nil
	}

	// edge di append dari target ke source, di reverse di akhir
	backward := make([]datastructure.Edge, 0)
	v := t
	for k > 0 {
		if table.At(v, k) == table.At(v, k-1) {
			k--
			continue
		}

		id, err := ni.ExternalIDOf(v)
		if err != nil {
			return Path{}, err
		}

		found := false
		for _, e := range g.Neighbors(id) {
			u, err := ni.IndexOf(e.To)
			if err != nil {
				return Path{}, fmt.Errorf("road %q %d->%d: %w", e.Name, e.From, e.To, err)
			}
			if table.At(v, k) == table.At(u, k-1)+e.Weight {
				backward = append(backward, e.Reverse())
				v = u
				found = true
				break
			}
		}
		if !found {
			return Path{}, fmt.Errorf("%w: no predecessor for node %d at budget %d", ErrTableMismatch, id, k)
		}
		k--
	}

	path.Edges = util.ReverseG(backward)
	path.Found = true
	return path, nil
}
