package datastructure

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Edge. satu road (street) yang arahnya From -> To. road dua arah disimpan sebagai dua Edge.
// Edge comparable, dua Edge sama kalau keempat field nya sama.
type Edge struct {
	From   int64
	To     int64
	Name   string
	Weight float64
}

func NewEdge(from, to int64, name string, weight float64) Edge {
	return Edge{
		From:   from,
		To:     to,
		Name:   name,
		Weight: weight,
	}
}

// Reverse. edge yang sama dengan arah kebalikan.
func (e Edge) Reverse() Edge {
	return Edge{
		From:   e.To,
		To:     e.From,
		Name:   e.Name,
		Weight: e.Weight,
	}
}

// Validate. weight harus finite dan nonnegative.
func (e Edge) Validate() error {
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
		return fmt.Errorf("%w: road %q %d->%d weight=%v", ErrMalformedEdge, e.Name, e.From, e.To, e.Weight)
	}
	return nil
}

type roadList struct {
	mu    sync.Mutex
	edges []Edge
}

/*
RoadGraph. adjacency list dari road network. key nya external node id, value nya list edge yang keluar dari node itu.

setiap road {u,v} disimpan dua kali: u->v di list u dan v->u di list v, jadi adjacency list nya juga reverse adjacency list.

AddEdge aman dipanggil concurrent, lock nya per node list (bukan satu lock buat seluruh graph).
setelah BuildIndex graph di freeze: NodeIndex dibuat, adjacency per index disimpan & tidak berubah lagi.
*/
type RoadGraph struct {
	adjList sync.Map // int64 -> *roadList

	frozen    atomic.Bool // AddEdge ditolak
	ready     atomic.Bool // index & adjacency sudah terisi
	buildOnce sync.Once
	index     *NodeIndex
	adjacency [][]Edge // [internal index] -> outgoing edges
	numEdges  int

	coordMu     sync.RWMutex
	coordinates map[int64]Coordinate
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		coordinates: make(map[int64]Coordinate),
	}
}

// AddEdge. tambah edge ke list node e.From kalau belum ada edge yang sama di list itu.
func (g *RoadGraph) AddEdge(e Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if g.frozen.Load() {
		return ErrGraphFrozen
	}

	l, _ := g.adjList.LoadOrStore(e.From, &roadList{})
	roads := l.(*roadList)

	roads.mu.Lock()
	defer roads.mu.Unlock()

	// BuildIndex bisa jalan di antara check di atas dan Lock.
	if g.frozen.Load() {
		return ErrGraphFrozen
	}

	for _, existing := range roads.edges {
		if existing == e {
			return nil
		}
	}
	roads.edges = append(roads.edges, e)
	return nil
}

// AddNode. daftarkan node tanpa edge. normalnya setiap node berasal dari edge, tapi node terisolasi tetap valid (tidak reachable dari node lain).
func (g *RoadGraph) AddNode(id int64) error {
	if g.frozen.Load() {
		return ErrGraphFrozen
	}
	g.adjList.LoadOrStore(id, &roadList{})
	return nil
}

// AddRoad. tambah road dua arah: e dan e.Reverse().
func (g *RoadGraph) AddRoad(e Edge) error {
	if err := g.AddEdge(e); err != nil {
		return err
	}
	return g.AddEdge(e.Reverse())
}

// Neighbors. semua edge yang keluar dari node id. setelah freeze, slice yang direturn selalu slice yang sama (urutan stabil) dan tidak boleh dimodifikasi caller.
func (g *RoadGraph) Neighbors(id int64) []Edge {
	if g.ready.Load() {
		idx, err := g.index.IndexOf(id)
		if err != nil {
			return []Edge{}
		}
		return g.adjacency[idx]
	}

	l, ok := g.adjList.Load(id)
	if !ok {
		return []Edge{}
	}
	roads := l.(*roadList)
	roads.mu.Lock()
	defer roads.mu.Unlock()

	edges := make([]Edge, len(roads.edges))
	copy(edges, roads.edges)
	return edges
}

// NeighborsOf. sama dengan Neighbors tapi pakai internal index. graph harus sudah di freeze.
func (g *RoadGraph) NeighborsOf(idx int32) ([]Edge, error) {
	if !g.ready.Load() {
		return nil, ErrGraphNotFrozen
	}
	if idx < 0 || int(idx) >= len(g.adjacency) {
		return nil, fmt.Errorf("%w: index %d, node count %d", ErrOutOfRange, idx, len(g.adjacency))
	}
	return g.adjacency[idx], nil
}

// NodeIds. semua node id yang punya entry di adjacency list, urut ascending.
func (g *RoadGraph) NodeIds() []int64 {
	if g.ready.Load() {
		return g.index.IDs()
	}

	ids := make([]int64, 0)
	g.adjList.Range(func(key, _ any) bool {
		ids = append(ids, key.(int64))
		return true
	})
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// BuildIndex. freeze graph & bikin NodeIndex. dipanggil setelah semua edge di load, jangan concurrent dengan AddEdge.
func (g *RoadGraph) BuildIndex() *NodeIndex {
	g.buildOnce.Do(func() {
		g.frozen.Store(true)

		ids := g.NodeIds()
		g.index = NewNodeIndex(ids)
		g.adjacency = make([][]Edge, len(ids))
		g.numEdges = 0

		for i, id := range ids {
			l, _ := g.adjList.Load(id)
			roads := l.(*roadList)

			roads.mu.Lock()
			if roads.edges == nil {
				roads.edges = []Edge{}
			}
			g.adjacency[i] = roads.edges
			roads.mu.Unlock()

			g.numEdges += len(g.adjacency[i])
		}
		g.ready.Store(true)
	})
	return g.index
}

// Index. NodeIndex graph, nil kalau belum BuildIndex.
func (g *RoadGraph) Index() *NodeIndex {
	if !g.ready.Load() {
		return nil
	}
	return g.index
}

func (g *RoadGraph) IsFrozen() bool {
	return g.frozen.Load()
}

func (g *RoadGraph) NumNodes() int {
	if g.ready.Load() {
		return g.index.Len()
	}
	n := 0
	g.adjList.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// NumEdges. jumlah directed edge (satu road dua arah = 2).
func (g *RoadGraph) NumEdges() int {
	if g.ready.Load() {
		return g.numEdges
	}
	n := 0
	g.adjList.Range(func(_, value any) bool {
		roads := value.(*roadList)
		roads.mu.Lock()
		n += len(roads.edges)
		roads.mu.Unlock()
		return true
	})
	return n
}

func (g *RoadGraph) SetCoordinate(id int64, c Coordinate) {
	g.coordMu.Lock()
	g.coordinates[id] = c
	g.coordMu.Unlock()
}

func (g *RoadGraph) Coordinate(id int64) (Coordinate, bool) {
	g.coordMu.RLock()
	defer g.coordMu.RUnlock()
	c, ok := g.coordinates[id]
	return c, ok
}

// Coordinates. copy dari semua koordinat node yang diketahui.
func (g *RoadGraph) Coordinates() map[int64]Coordinate {
	g.coordMu.RLock()
	defer g.coordMu.RUnlock()
	coords := make(map[int64]Coordinate, len(g.coordinates))
	for id, c := range g.coordinates {
		coords[id] = c
	}
	return coords
}

// Fingerprint. hash xxhash dari node order & adjacency order. buat versioning cache key. graph di freeze kalau belum.
func (g *RoadGraph) Fingerprint() uint64 {
	index := g.BuildIndex()

	h := xxhash.New()
	buf := make([]byte, 0, 64)
	for i, id := range index.IDs() {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(id))
		h.Write(buf)
		for _, e := range g.adjacency[i] {
			buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(e.To))
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(e.Weight))
			buf = append(buf, e.Name...)
			h.Write(buf)
		}
	}
	return h.Sum64()
}
