package datastructure

import "fmt"

// NodeIndex. mapping dua arah antara external node id (arbitrary int64) dan internal index 0..V-1.
// kedua arah disimpan eksplisit, jadi ExternalIDOf tidak perlu scan map.
type NodeIndex struct {
	idToIdx map[int64]int32
	idxToID []int64
}

// NewNodeIndex. index ke-i = ids[i]. id duplikat di skip.
func NewNodeIndex(ids []int64) *NodeIndex {
	ni := &NodeIndex{
		idToIdx: make(map[int64]int32, len(ids)),
		idxToID: make([]int64, 0, len(ids)),
	}
	for _, id := range ids {
		if _, ok := ni.idToIdx[id]; ok {
			continue
		}
		ni.idToIdx[id] = int32(len(ni.idxToID))
		ni.idxToID = append(ni.idxToID, id)
	}
	return ni
}

func (ni *NodeIndex) IndexOf(id int64) (int32, error) {
	idx, ok := ni.idToIdx[id]
	if !ok {
		return -1, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return idx, nil
}

func (ni *NodeIndex) ExternalIDOf(idx int32) (int64, error) {
	if idx < 0 || int(idx) >= len(ni.idxToID) {
		return 0, fmt.Errorf("%w: index %d, node count %d", ErrOutOfRange, idx, len(ni.idxToID))
	}
	return ni.idxToID[idx], nil
}

func (ni *NodeIndex) Contains(id int64) bool {
	_, ok := ni.idToIdx[id]
	return ok
}

func (ni *NodeIndex) Len() int {
	return len(ni.idxToID)
}

// IDs. external id urut sesuai internal index. jangan dimodifikasi.
func (ni *NodeIndex) IDs() []int64 {
	return ni.idxToID
}
