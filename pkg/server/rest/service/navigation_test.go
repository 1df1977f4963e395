package service

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadpath/pkg/kv"
	"github.com/lintang-b-s/roadpath/pkg/server"
	"github.com/lintang-b-s/roadpath/pkg/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
	1 --Main St (1.0)-- 2 --College St (1.0)-- 3        9 (isolated)
	|                                          |
	+-----------------Route 7 (5.0)------------+
*/
func newTestService(t *testing.T, withKV bool) (*NavigationService, *kv.KVDB) {
	t.Helper()
	g := datastructure.NewRoadGraph()
	require.NoError(t, g.AddRoad(datastructure.NewEdge(1, 2, "Main St", 1.0)))
	require.NoError(t, g.AddRoad(datastructure.NewEdge(2, 3, "College St", 1.0)))
	require.NoError(t, g.AddRoad(datastructure.NewEdge(1, 3, "Route 7", 5.0)))
	require.NoError(t, g.AddNode(9))
	g.SetCoordinate(1, datastructure.NewCoordinate(44.0153, -73.1673))
	g.SetCoordinate(2, datastructure.NewCoordinate(44.0170, -73.1600))
	g.SetCoordinate(3, datastructure.NewCoordinate(44.0200, -73.1500))
	ni := g.BuildIndex()

	rt, err := routingalgorithm.NewRouteAlgorithm(g, ni)
	require.NoError(t, err)

	if !withKV {
		return NewNavigationService(g, rt, nil), nil
	}

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	t.Cleanup(func() {
		kvDB.Close()
	})
	require.NoError(t, kvDB.BuildH3IndexedNodes(context.Background(), g.Coordinates()))
	return NewNavigationService(g, rt, kvDB), kvDB
}

func TestShortestPath(t *testing.T) {
	svc, _ := newTestService(t, false)

	res, err := svc.ShortestPath(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Distance)
	assert.Equal(t, []string{"Main St", "College St"}, res.StreetNames)
	assert.NotEmpty(t, res.Polyline)
	assert.False(t, res.Cached)
}

func TestShortestPathErrors(t *testing.T) {
	svc, _ := newTestService(t, false)

	_, err := svc.ShortestPath(context.Background(), 1, 9)
	assert.ErrorIs(t, err, routingalgorithm.ErrNoPath)
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))

	_, err = svc.ShortestPath(context.Background(), 1, 42)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))

	_, err = svc.ShortestPathCoord(context.Background(), 44.0153, -73.1673, 44.02, -73.15)
	assert.Equal(t, server.ErrInternalServerError, server.CodeOf(err))
}

func TestShortestPathCached(t *testing.T) {
	svc, _ := newTestService(t, true)

	first, err := svc.ShortestPath(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.ShortestPath(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.Distance, second.Distance)
	assert.Equal(t, first.Polyline, second.Polyline)

	// no path juga di cache
	_, err = svc.ShortestPath(context.Background(), 1, 9)
	assert.ErrorIs(t, err, routingalgorithm.ErrNoPath)
	_, err = svc.ShortestPath(context.Background(), 1, 9)
	assert.ErrorIs(t, err, routingalgorithm.ErrNoPath)
}

func TestShortestPathCoord(t *testing.T) {
	svc, _ := newTestService(t, true)

	res, err := svc.ShortestPathCoord(context.Background(), 44.01531, -73.16731, 44.02001, -73.15001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Source)
	assert.Equal(t, int64(3), res.Target)
	assert.Equal(t, 2.0, res.Distance)

	_, err = svc.ShortestPathCoord(context.Background(), 45.5019, -73.5674, 44.02, -73.15)
	assert.ErrorIs(t, err, kv.ErrNodesNotFound)
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
}

func TestDistances(t *testing.T) {
	svc, _ := newTestService(t, false)

	dists, err := svc.Distances(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []NodeDistance{
		{NodeID: 1, Distance: 1.0},
		{NodeID: 2, Distance: 0},
		{NodeID: 3, Distance: 1.0},
	}, dists)

	_, err = svc.Distances(context.Background(), 42)
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
}

func TestCanceledContext(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ShortestPath(ctx, 1, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShortestPathCoordWithSnapper(t *testing.T) {
	g := datastructure.NewRoadGraph()
	require.NoError(t, g.AddRoad(datastructure.NewEdge(1, 2, "Main St", 1.0)))
	g.SetCoordinate(1, datastructure.NewCoordinate(44.0153, -73.1673))
	g.SetCoordinate(2, datastructure.NewCoordinate(44.0170, -73.1600))
	ni := g.BuildIndex()
	rt, err := routingalgorithm.NewRouteAlgorithm(g, ni)
	require.NoError(t, err)

	svc := NewNavigationService(g, rt, nil, WithSnapper(snap.NewNodeSnapper(g.Coordinates())))
	res, err := svc.ShortestPathCoord(context.Background(), 44.0152, -73.1672, 44.0171, -73.1601)
	require.NoError(t, err)
	assert.Equal(t, []string{"Main St"}, res.StreetNames)
	assert.False(t, res.Cached)
}
