package osmparser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type NodeType uint8

const (
	BETWEEN_NODE NodeType = iota + 1
	END_NODE
	JUNCTION_NODE
)

var (
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"cycleway":               {},
		"path":                   {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"cyclist_waiting_aid":    {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"phone":                  {},
		"ladder":                 {},
		"milestone":              {},
		"passing_place":          {},
		"platform":               {},
		"speed_camera":           {},
		"track":                  {},
		"bus_guideway":           {},
		"speed_display":          {},
		"stop":                   {},
		"toll_gantry":            {},
		"traffic_mirror":         {},
		"traffic_signals":        {},
		"trailhead":              {},
	}
)

type osmWay struct {
	id    int64
	name  string
	nodes []int64
}

// Stats. ringkasan satu kali parse.
type Stats struct {
	Ways        int
	Roads       int
	Nodes       int
	SkippedWays int
}

/*
OsmParser. baca openstreetmap pbf jadi road graph.

pass 1 cuma baca way: setiap node di way yang routable ditandai BETWEEN_NODE / END_NODE, node yang dipakai >= 2 way jadi JUNCTION_NODE.
pass 2 baca koordinat node & way lagi. setiap way dipotong di END_NODE / JUNCTION_NODE, satu potongan = satu road dengan weight panjang haversine (mil).
*/
type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]datastructure.Coordinate
	ways            []osmWay
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]datastructure.Coordinate),
		ways:            make([]osmWay, 0),
	}
}

func (p *OsmParser) ParseFile(ctx context.Context, mapFile string, g *datastructure.RoadGraph) (Stats, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()
	return p.Parse(ctx, f, g)
}

// Parse. r harus bisa di Seek karena file dibaca dua kali.
func (p *OsmParser) Parse(ctx context.Context, r io.ReadSeeker, g *datastructure.RoadGraph) (Stats, error) {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(0))
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if p.markWay(way) {
			if (countWays+1)%50000 == 0 {
				log.Printf("reading openstreetmap ways: %d...", countWays+1)
			}
			countWays++
		}
	}
	err := scanner.Err()
	scanner.Close()
	if err != nil {
		return Stats{}, fmt.Errorf("scan openstreetmap ways: %w", err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Stats{}, err
	}

	scanner = osmpbf.New(ctx, r, runtime.GOMAXPROCS(0))
	scanner.SkipRelations = true
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%50000 == 0 {
				log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			p.addNode(o)
		case *osm.Way:
			p.collectWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("scan openstreetmap nodes: %w", err)
	}

	return p.buildRoads(g)
}

// markWay. pass 1. return false kalau way bukan road.
func (p *OsmParser) markWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return false
	}
	for i, node := range way.Nodes {
		id := int64(node.ID)
		if _, ok := p.wayNodeMap[id]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = END_NODE
			} else {
				p.wayNodeMap[id] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[id] = JUNCTION_NODE
		}
	}
	return true
}

func (p *OsmParser) addNode(node *osm.Node) {
	if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
		p.acceptedNodeMap[int64(node.ID)] = datastructure.NewCoordinate(node.Lat, node.Lon)
	}
}

func (p *OsmParser) collectWay(way *osm.Way) {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return
	}
	nodes := make([]int64, 0, len(way.Nodes))
	for _, node := range way.Nodes {
		nodes = append(nodes, int64(node.ID))
	}
	p.ways = append(p.ways, osmWay{
		id:    int64(way.ID),
		name:  streetName(way),
		nodes: nodes,
	})
}

func (p *OsmParser) isGraphNode(nodeID int64) bool {
	t := p.wayNodeMap[nodeID]
	return t == JUNCTION_NODE || t == END_NODE
}

// buildRoads. potong semua way yang sudah dikumpulkan & masukkan ke graph. way yang node nya tidak punya koordinat (di luar extract) di skip.
func (p *OsmParser) buildRoads(g *datastructure.RoadGraph) (Stats, error) {
	stats := Stats{}
	graphNodes := make(map[int64]struct{})

	for _, way := range p.ways {
		complete := true
		for _, id := range way.nodes {
			if _, ok := p.acceptedNodeMap[id]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			stats.SkippedWays++
			continue
		}
		stats.Ways++

		segment := []int64{way.nodes[0]}
		for i := 1; i < len(way.nodes); i++ {
			id := way.nodes[i]
			segment = append(segment, id)
			if !p.isGraphNode(id) && i != len(way.nodes)-1 {
				continue
			}

			roads, err := p.processSegment(segment, way.name, g, graphNodes)
			if err != nil {
				return stats, fmt.Errorf("way %d: %w", way.id, err)
			}
			stats.Roads += roads
			segment = []int64{id}
		}
	}

	for id := range graphNodes {
		g.SetCoordinate(id, p.acceptedNodeMap[id])
	}
	stats.Nodes = len(graphNodes)
	log.Printf("total openstreetmap ways: %d, roads: %d, nodes: %d", stats.Ways, stats.Roads, stats.Nodes)
	return stats, nil
}

// processSegment. satu segment jadi satu road. segment loop (node awal = node akhir) dipecah dua di node tengah supaya tidak jadi self loop.
func (p *OsmParser) processSegment(segment []int64, name string, g *datastructure.RoadGraph,
	graphNodes map[int64]struct{}) (int, error) {
	if segment[0] != segment[len(segment)-1] {
		return 1, p.addRoad(segment, name, g, graphNodes)
	}
	if len(segment) <= 2 {
		return 0, nil
	}

	mid := len(segment) / 2
	if err := p.addRoad(segment[:mid+1], name, g, graphNodes); err != nil {
		return 0, err
	}
	if err := p.addRoad(segment[mid:], name, g, graphNodes); err != nil {
		return 1, err
	}
	return 2, nil
}

func (p *OsmParser) addRoad(segment []int64, name string, g *datastructure.RoadGraph, graphNodes map[int64]struct{}) error {
	distance := 0.0 // mil
	for i := 1; i < len(segment); i++ {
		prev := p.acceptedNodeMap[segment[i-1]]
		curr := p.acceptedNodeMap[segment[i]]
		distance += geo.HaversineMiles(prev.Lat, prev.Lon, curr.Lat, curr.Lon)
	}

	from, to := segment[0], segment[len(segment)-1]
	graphNodes[from] = struct{}{}
	graphNodes[to] = struct{}{}
	return g.AddRoad(datastructure.NewEdge(from, to, name, distance))
}

// streetName. name, kalau kosong ref, kalau kosong juga highway type.
func streetName(way *osm.Way) string {
	if name := way.Tags.Find("name"); name != "" {
		return name
	}
	if ref := way.Tags.Find("ref"); ref != "" {
		return ref
	}
	return way.Tags.Find("highway")
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}
