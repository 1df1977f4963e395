package snap

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/geo"
	"github.com/lintang-b-s/roadpath/pkg/kv"
)

const (
	pointTolerance = 1e-9
	// kandidat dari rtree (jarak euclidean lat/lon), lalu dipilih ulang pakai haversine
	nearestCandidates = 8
)

type nodePoint struct {
	id    int64
	coord datastructure.Coordinate
}

func (n *nodePoint) Bounds() rtreego.Rect {
	return rtreego.Point{n.coord.Lat, n.coord.Lon}.ToRect(pointTolerance)
}

// NodeSnapper. in-memory r-tree dari koordinat node road graph. dipakai kalau key-value db (h3 index) tidak tersedia.
type NodeSnapper struct {
	rtree *rtreego.Rtree
}

func NewNodeSnapper(coords map[int64]datastructure.Coordinate) *NodeSnapper {
	ids := make([]int64, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	objs := make([]rtreego.Spatial, 0, len(ids))
	for _, id := range ids {
		objs = append(objs, &nodePoint{id: id, coord: coords[id]})
	}
	return &NodeSnapper{
		rtree: rtreego.NewTree(2, 25, 50, objs...),
	}
}

func (s *NodeSnapper) Size() int {
	return s.rtree.Size()
}

// NearestNode. node terdekat (haversine) dari titik (lat, lon). kalau jaraknya sama, id terkecil.
func (s *NodeSnapper) NearestNode(lat, lon float64) (kv.NodeLocation, error) {
	candidates := s.rtree.NearestNeighbors(nearestCandidates, rtreego.Point{lat, lon})

	var best *nodePoint
	bestDist := 0.0
	for _, c := range candidates {
		n, ok := c.(*nodePoint)
		if !ok || n == nil {
			continue
		}
		dist := geo.CalculateHaversineDistance(lat, lon, n.coord.Lat, n.coord.Lon)
		if best == nil || dist < bestDist || (dist == bestDist && n.id < best.id) {
			best = n
			bestDist = dist
		}
	}
	if best == nil {
		return kv.NodeLocation{}, kv.ErrNodesNotFound
	}
	return kv.NodeLocation{ID: best.id, Lat: best.coord.Lat, Lon: best.coord.Lon}, nil
}
