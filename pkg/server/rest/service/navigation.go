package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadpath/pkg/geo"
	"github.com/lintang-b-s/roadpath/pkg/kv"
	"github.com/lintang-b-s/roadpath/pkg/server"
)

type RoadGraph interface {
	NodeIds() []int64
	Fingerprint() uint64
	PathCoordinates(edges []datastructure.Edge) ([]datastructure.Coordinate, bool)
}

type RoutingAlgorithm interface {
	ShortestPath(source, target int64) (routingalgorithm.Path, error)
	ShortestDistances(source int64) ([]float64, error)
}

type Snapper interface {
	NearestNode(lat, lon float64) (kv.NodeLocation, error)
}

type KVDB interface {
	Snapper
	SaveRoute(key kv.RouteKey, route kv.CachedRoute) error
	GetRoute(key kv.RouteKey) (kv.CachedRoute, bool, error)
}

type NavigationService struct {
	graph       RoadGraph
	routing     RoutingAlgorithm
	kv          KVDB
	snapper     Snapper
	fingerprint uint64
}

type Option func(*NavigationService)

// WithSnapper. snapping koordinat ke node pakai s, bukan h3 index di kvDB.
func WithSnapper(s Snapper) Option {
	return func(uc *NavigationService) {
		uc.snapper = s
	}
}

// NewNavigationService. kvDB boleh nil: tanpa route cache, dan snapping koordinat hanya lewat WithSnapper.
func NewNavigationService(graph RoadGraph, routing RoutingAlgorithm, kvDB KVDB, opts ...Option) *NavigationService {
	uc := &NavigationService{
		graph:       graph,
		routing:     routing,
		kv:          kvDB,
		fingerprint: graph.Fingerprint(),
	}
	if kvDB != nil {
		uc.snapper = kvDB
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type ShortestPathResult struct {
	Source      int64
	Target      int64
	Edges       []datastructure.Edge
	StreetNames []string
	Distance    float64
	// Polyline. kosong kalau koordinat node tidak diketahui (graph dari csv).
	Polyline string
	Cached   bool
}

type NodeDistance struct {
	NodeID   int64
	Distance float64
}

func (uc *NavigationService) ShortestPath(ctx context.Context, source, target int64) (ShortestPathResult, error) {
	if err := ctx.Err(); err != nil {
		return ShortestPathResult{}, err
	}

	key := kv.RouteKey{Fingerprint: uc.fingerprint, Source: source, Target: target}
	if uc.kv != nil {
		cached, ok, err := uc.kv.GetRoute(key)
		if err != nil {
			log.Printf("get cached route %d -> %d: %v", source, target, err)
		} else if ok {
			return uc.buildResult(source, target, cached, true)
		}
	}

	path, err := uc.routing.ShortestPath(source, target)
	if errors.Is(err, datastructure.ErrUnknownNode) {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrNotFound, "node not found on the road graph")
	}
	if err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	route := kv.CachedRoute{
		Found:    path.Found,
		Distance: path.Distance,
		Edges:    path.Edges,
	}
	if uc.kv != nil {
		if err := uc.kv.SaveRoute(key, route); err != nil {
			log.Printf("cache route %d -> %d: %v", source, target, err)
		}
	}
	return uc.buildResult(source, target, route, false)
}

func (uc *NavigationService) buildResult(source, target int64, route kv.CachedRoute, cached bool) (ShortestPathResult, error) {
	if !route.Found {
		return ShortestPathResult{}, server.WrapErrorf(routingalgorithm.ErrNoPath, server.ErrNotFound,
			"no path from %d to %d", source, target)
	}

	edges := route.Edges
	if edges == nil {
		edges = []datastructure.Edge{}
	}
	names := make([]string, 0, len(edges))
	for _, e := range edges {
		names = append(names, e.Name)
	}

	polyline := ""
	if coords, ok := uc.graph.PathCoordinates(edges); ok && len(coords) > 0 {
		polyline = datastructure.RenderPath(geo.RamerDouglasPeucker(coords, geo.DOUGLAS_PEUCKER_THRESHOLD))
	}

	return ShortestPathResult{
		Source:      source,
		Target:      target,
		Edges:       edges,
		StreetNames: names,
		Distance:    route.Distance,
		Polyline:    polyline,
		Cached:      cached,
	}, nil
}

// ShortestPathCoord. snap kedua koordinat ke node terdekat lalu ShortestPath.
func (uc *NavigationService) ShortestPathCoord(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (ShortestPathResult, error) {
	if uc.snapper == nil {
		return ShortestPathResult{}, server.NewErrorf(server.ErrInternalServerError, "coordinate snapping is not available")
	}

	from, err := uc.SnapLocToNode(srcLat, srcLon)
	if err != nil {
		return ShortestPathResult{}, err
	}
	to, err := uc.SnapLocToNode(dstLat, dstLon)
	if err != nil {
		return ShortestPathResult{}, err
	}
	return uc.ShortestPath(ctx, from, to)
}

func (uc *NavigationService) SnapLocToNode(lat, lon float64) (int64, error) {
	node, err := uc.snapper.NearestNode(lat, lon)
	if errors.Is(err, kv.ErrNodesNotFound) {
		return 0, server.WrapErrorf(err, server.ErrNotFound, "the location you entered is not covered by the road graph")
	}
	if err != nil {
		return 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return node.ID, nil
}

// Distances. shortest distance dari source ke semua node yang reachable, urut node id.
func (uc *NavigationService) Distances(ctx context.Context, source int64) ([]NodeDistance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dists, err := uc.routing.ShortestDistances(source)
	if errors.Is(err, datastructure.ErrUnknownNode) {
		return nil, server.WrapErrorf(err, server.ErrNotFound, "node not found on the road graph")
	}
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	ids := uc.graph.NodeIds()
	result := make([]NodeDistance, 0, len(dists))
	for i, d := range dists {
		if math.IsInf(d, 1) {
			continue
		}
		result = append(result, NodeDistance{NodeID: ids[i], Distance: d})
	}
	return result, nil
}
