package routingalgorithm

import "github.com/lintang-b-s/roadpath/pkg/datastructure"

// RoadGraph. read access ke adjacency list. Neighbors harus return list yang sama (urutan stabil) di setiap pemanggilan,
// karena tie-break di forward pass dan di reconstruction bergantung ke urutan itu.
type RoadGraph interface {
	Neighbors(id int64) []datastructure.Edge
}

type NodeIndex interface {
	IndexOf(id int64) (int32, error)
	ExternalIDOf(idx int32) (int64, error)
	Len() int
}
