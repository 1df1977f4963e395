package datastructure

import "github.com/twpayne/go-polyline"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// RenderPath. encode koordinat path jadi google encoded polyline.
func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// PathCoordinates. koordinat node-node yang dilewati edges (From edge pertama, lalu To setiap edge).
// ok = false kalau ada node yang koordinatnya tidak diketahui.
func (g *RoadGraph) PathCoordinates(edges []Edge) ([]Coordinate, bool) {
	if len(edges) == 0 {
		return []Coordinate{}, true
	}
	coords := make([]Coordinate, 0, len(edges)+1)
	first, ok := g.Coordinate(edges[0].From)
	if !ok {
		return []Coordinate{}, false
	}
	coords = append(coords, first)
	for _, e := range edges {
		c, ok := g.Coordinate(e.To)
		if !ok {
			return []Coordinate{}, false
		}
		coords = append(coords, c)
	}
	return coords, true
}
