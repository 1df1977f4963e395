package datastructure

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/compress/zstd"
)

// roadGraphSnapshot. isi file graph. NodeIDs urut sesuai internal index, Adjacency[i] urut sesuai adjacency order node ke-i.
// urutan keduanya harus dipertahankan supaya tie-break shortest path sama di setiap proses.
type roadGraphSnapshot struct {
	NodeIDs     []int64
	Adjacency   [][]Edge
	Coordinates map[int64]Coordinate
}

// SaveToFile. simpan graph (gob + zstd) ke file. graph di freeze kalau belum.
func (g *RoadGraph) SaveToFile(path string) error {
	index := g.BuildIndex()

	snapshot := roadGraphSnapshot{
		NodeIDs:     index.IDs(),
		Adjacency:   g.adjacency,
		Coordinates: g.Coordinates(),
	}

	buf := new(bytes.Buffer)
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode road graph: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := compressData(buf.Bytes(), f); err != nil {
		return fmt.Errorf("compress road graph: %w", err)
	}
	log.Printf("road graph saved to %s: %d nodes, %d edges", path, index.Len(), g.numEdges)
	return nil
}

// LoadRoadGraph. load graph yang disimpan SaveToFile. graph hasil load sudah frozen.
func LoadRoadGraph(path string) (*RoadGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw := new(bytes.Buffer)
	if err := decompressData(f, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedGraph, err)
	}

	var snapshot roadGraphSnapshot
	dec := gob.NewDecoder(raw)
	if err := dec.Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedGraph, err)
	}

	return newRoadGraphFromSnapshot(snapshot)
}

func newRoadGraphFromSnapshot(snapshot roadGraphSnapshot) (*RoadGraph, error) {
	if len(snapshot.NodeIDs) != len(snapshot.Adjacency) {
		return nil, fmt.Errorf("%w: %d nodes but %d adjacency lists", ErrCorruptedGraph,
			len(snapshot.NodeIDs), len(snapshot.Adjacency))
	}

	index := NewNodeIndex(snapshot.NodeIDs)
	if index.Len() != len(snapshot.NodeIDs) {
		return nil, fmt.Errorf("%w: duplicate node ids", ErrCorruptedGraph)
	}

	g := NewRoadGraph()
	numEdges := 0
	for i, id := range snapshot.NodeIDs {
		edges := snapshot.Adjacency[i]
		if edges == nil {
			edges = []Edge{}
		}
		for _, e := range edges {
			if e.From != id || !index.Contains(e.To) {
				return nil, fmt.Errorf("%w: edge %d->%d stored at node %d", ErrCorruptedGraph, e.From, e.To, id)
			}
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptedGraph, err)
			}
		}
		g.adjList.Store(id, &roadList{edges: edges})
		snapshot.Adjacency[i] = edges
		numEdges += len(edges)
	}
	for id, c := range snapshot.Coordinates {
		g.coordinates[id] = c
	}

	g.buildOnce.Do(func() {
		g.index = index
		g.adjacency = snapshot.Adjacency
		g.numEdges = numEdges
		g.frozen.Store(true)
		g.ready.Store(true)
	})
	return g, nil
}

func compressData(inData []byte, out io.Writer) error {
	encoder, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	if _, err = io.Copy(encoder, bytes.NewReader(inData)); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func decompressData(in io.Reader, out io.Writer) error {
	d, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}
