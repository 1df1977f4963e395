package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/geo"
	"github.com/uber/h3-go/v4"
)

const (
	h3Resolution   = 9
	maxRingLevel   = 10
	nodeKeyPrefix  = "h3:"
	routeKeyPrefix = "route:"

	defaultRouteTTL = 24 * time.Hour
)

var (
	ErrNodesNotFound = errors.New("nodes not found")
)

// NodeLocation. node road graph beserta koordinatnya, isi satu bucket h3.
type NodeLocation struct {
	ID  int64
	Lat float64
	Lon float64
}

/*
KVDB. badger key-value store:
  - h3:<cell> -> semua node graph di dalam h3 cell resolusi 9 (buat snapping koordinat ke node terdekat).
  - route:<fingerprint>:<source>:<target> -> hasil shortest path yang sudah pernah dihitung (dengan TTL).

value di encode pakai kelindar/binary lalu di compress zstd.
*/
type KVDB struct {
	db       *badger.DB
	routeTTL time.Duration
}

type Option func(*KVDB)

// WithRouteTTL. ttl <= 0 berarti route cache tidak expire.
func WithRouteTTL(ttl time.Duration) Option {
	return func(k *KVDB) {
		k.routeTTL = ttl
	}
}

func NewKVDB(db *badger.DB, opts ...Option) *KVDB {
	k := &KVDB{
		db:       db,
		routeTTL: defaultRouteTTL,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func nodeKey(cell h3.Cell) []byte {
	return []byte(nodeKeyPrefix + cell.String())
}

// BuildH3IndexedNodes. kelompokkan node per h3 cell lalu simpan per batch.
func (k *KVDB) BuildH3IndexedNodes(ctx context.Context, coords map[int64]datastructure.Coordinate) error {
	log.Printf("creating & saving h3 indexed nodes to key-value db...")
	buckets := make(map[h3.Cell][]NodeLocation)
	for id, c := range coords {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cell := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), h3Resolution)
		buckets[cell] = append(buckets[cell], NodeLocation{ID: id, Lat: c.Lat, Lon: c.Lon})
	}

	batchSize := 1000
	batches := make([]batchData, 0, batchSize)
	for cell, nodes := range buckets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sort.Slice(nodes, func(i, j int) bool {
			return nodes[i].ID < nodes[j].ID
		})
		batches = append(batches, batchData{
			key:   nodeKey(cell),
			value: nodes,
		})
		if len(batches) == batchSize {
			if err := k.saveBatchNodes(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchNodes(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed nodes done: %d nodes in %d cells", len(coords), len(buckets))
	return nil
}

type batchData struct {
	key   []byte
	value []NodeLocation
}

func (k *KVDB) saveBatchNodes(ctx context.Context, batchData []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		val, err := encodeNodes(data.value)
		if err != nil {
			return err
		}
		if err := batch.Set(data.key, val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving nodes: %v", err)
		return err
	}
	return nil
}

// get. nil tanpa error kalau key tidak ada.
func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return val, err
}

func (k *KVDB) nodesInCell(cell h3.Cell) ([]NodeLocation, error) {
	val, err := k.get(nodeKey(cell))
	if err != nil {
		return nil, err
	}
	return loadNodes(val)
}

// GetNearestNodesFromPointCoord. node di h3 cell titik (lat, lon). kalau kosong, cari di ring 1, 2, ... sampai 10.
func (k *KVDB) GetNearestNodesFromPointCoord(lat, lon float64) ([]NodeLocation, error) {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)

	nodes, err := k.nodesInCell(cell)
	if err != nil {
		return []NodeLocation{}, err
	}

	visited := map[h3.Cell]struct{}{cell: {}}
	for lev := 1; lev <= maxRingLevel && len(nodes) == 0; lev++ {
		for _, currCell := range h3.GridDisk(cell, lev) {
			if _, ok := visited[currCell]; ok {
				continue
			}
			visited[currCell] = struct{}{}

			ringNodes, err := k.nodesInCell(currCell)
			if err != nil {
				return []NodeLocation{}, err
			}
			nodes = append(nodes, ringNodes...)
		}
	}

	if len(nodes) == 0 {
		return []NodeLocation{}, ErrNodesNotFound
	}
	return nodes, nil
}

// NearestNode. node terdekat (haversine) dari hasil GetNearestNodesFromPointCoord. kalau jaraknya sama, id terkecil.
func (k *KVDB) NearestNode(lat, lon float64) (NodeLocation, error) {
	nodes, err := k.GetNearestNodesFromPointCoord(lat, lon)
	if err != nil {
		return NodeLocation{}, err
	}

	best := nodes[0]
	bestDist := geo.CalculateHaversineDistance(lat, lon, best.Lat, best.Lon)
	for _, n := range nodes[1:] {
		dist := geo.CalculateHaversineDistance(lat, lon, n.Lat, n.Lon)
		if dist < bestDist || (dist == bestDist && n.ID < best.ID) {
			best = n
			bestDist = dist
		}
	}
	return best, nil
}

// RouteKey. key route cache. Fingerprint dari RoadGraph.Fingerprint, jadi cache dari graph lain tidak kepakai.
type RouteKey struct {
	Fingerprint uint64
	Source      int64
	Target      int64
}

func (rk RouteKey) bytes() []byte {
	return []byte(fmt.Sprintf("%s%016x:%d:%d", routeKeyPrefix, rk.Fingerprint, rk.Source, rk.Target))
}

// CachedRoute. hasil shortest path yang disimpan. Found = false juga di cache (no path).
type CachedRoute struct {
	Found    bool
	Distance float64
	Edges    []datastructure.Edge
}

func (k *KVDB) SaveRoute(key RouteKey, route CachedRoute) error {
	val, err := encodeRoute(route)
	if err != nil {
		return err
	}
	return k.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key.bytes(), val)
		if k.routeTTL > 0 {
			entry = entry.WithTTL(k.routeTTL)
		}
		return txn.SetEntry(entry)
	})
}

// GetRoute. false tanpa error kalau route belum pernah di cache (atau sudah expire).
func (k *KVDB) GetRoute(key RouteKey) (CachedRoute, bool, error) {
	val, err := k.get(key.bytes())
	if err != nil {
		return CachedRoute{}, false, err
	}
	if val == nil {
		return CachedRoute{}, false, nil
	}

	route, err := loadRoute(val)
	if err != nil {
		return CachedRoute{}, false, err
	}
	return route, true, nil
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
