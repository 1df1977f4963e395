package datastructure

import "errors"

var (
	ErrUnknownNode    = errors.New("unknown node")
	ErrOutOfRange     = errors.New("node index out of range")
	ErrMalformedEdge  = errors.New("malformed edge")
	ErrGraphFrozen    = errors.New("road graph already indexed, cannot add edges")
	ErrGraphNotFrozen = errors.New("road graph not indexed yet")
	ErrCorruptedGraph = errors.New("corrupted road graph snapshot")
)
