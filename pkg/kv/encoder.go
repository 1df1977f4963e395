package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeNodes(nodes []NodeLocation) ([]byte, error) {
	bb, err := binary.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func loadNodes(bbCompressed []byte) ([]NodeLocation, error) {
	if len(bbCompressed) == 0 {
		return []NodeLocation{}, nil
	}
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var nodes []NodeLocation
	err = binary.Unmarshal(bb, &nodes)
	return nodes, err
}

func encodeRoute(route CachedRoute) ([]byte, error) {
	bb, err := binary.Marshal(route)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func loadRoute(bbCompressed []byte) (CachedRoute, error) {
	var route CachedRoute
	bb, err := decompress(bbCompressed)
	if err != nil {
		return route, err
	}
	err = binary.Unmarshal(bb, &route)
	return route, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
