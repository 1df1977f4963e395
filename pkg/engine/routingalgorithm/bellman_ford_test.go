package routingalgorithm

import (
	"container/heap"
	"math"
	"testing"

	"github.com/lintang-b-s/roadpath/pkg/concurrent"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func buildGraph(t *testing.T, roads []datastructure.Edge, isolated ...int64) (*datastructure.RoadGraph, *datastructure.NodeIndex) {
	t.Helper()
	g := datastructure.NewRoadGraph()
	for _, r := range roads {
		require.NoError(t, g.AddRoad(r))
	}
	for _, id := range isolated {
		require.NoError(t, g.AddNode(id))
	}
	return g, g.BuildIndex()
}

func indexOf(t *testing.T, ni *datastructure.NodeIndex, id int64) int32 {
	t.Helper()
	idx, err := ni.IndexOf(id)
	require.NoError(t, err)
	return idx
}

/*
p=0, v=1, q=2, w=3, r=4, f=5

	 p
	  \
	   \
	    10
	     \
		  v -----3----- r
		 /            /
		6            5
	   /    		/
	  q ---5----- w ----15---- f

semua edge bidirectional
*/
func newPVQWRFGraph(t *testing.T) (*datastructure.RoadGraph, *datastructure.NodeIndex) {
	return buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(0, 1, "pv", 10),
		datastructure.NewEdge(1, 4, "vr", 3),
		datastructure.NewEdge(1, 2, "vq", 6),
		datastructure.NewEdge(2, 3, "qw", 5),
		datastructure.NewEdge(3, 4, "wr", 5),
		datastructure.NewEdge(3, 5, "wf", 15),
	})
}

func TestShortestPathPVQWRF(t *testing.T) {
	g, ni := newPVQWRFGraph(t)

	table, err := ComputeDistances(g, ni, 0)
	require.NoError(t, err)

	path, err := ReconstructPath(g, ni, table, 5)
	require.NoError(t, err)

	// shortest path nya:  P(0) -> V(1) -> R(4) -> W(3) -> F(5)
	assert.True(t, path.Found)
	assert.Equal(t, 33.0, path.Distance)
	assert.Equal(t, []string{"pv", "vr", "wr", "wf"}, path.StreetNames())
	assert.Equal(t, int64(0), path.Edges[0].From)
	assert.Equal(t, int64(1), path.Edges[0].To)
	assert.Equal(t, int64(4), path.Edges[1].To)
	assert.Equal(t, int64(3), path.Edges[2].To)
	assert.Equal(t, int64(5), path.Edges[3].To)
}

func TestTrianglePrefersTwoShortRoads(t *testing.T) {
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "a", 1.0),
		datastructure.NewEdge(2, 3, "b", 1.0),
		datastructure.NewEdge(1, 3, "c", 5.0),
	})

	table, err := ComputeDistances(g, ni, 1)
	require.NoError(t, err)
	path, err := ReconstructPath(g, ni, table, 3)
	require.NoError(t, err)

	assert.True(t, path.Found)
	assert.Equal(t, 2.0, path.Distance)
	assert.Equal(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "a", 1.0),
		datastructure.NewEdge(2, 3, "b", 1.0),
	}, path.Edges)
}

func TestDisconnectedTargetHasNoPath(t *testing.T) {
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "X", 3.0),
	}, 3)

	table, err := ComputeDistances(g, ni, 1)
	require.NoError(t, err)
	path, err := ReconstructPath(g, ni, table, 3)
	require.NoError(t, err)

	assert.False(t, path.Found)
	assert.Empty(t, path.Edges)
	assert.True(t, math.IsInf(path.Distance, 1))
	assert.False(t, table.Reachable(indexOf(t, ni, 3)))
}

func TestSeparateComponentHasNoPath(t *testing.T) {
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "X", 3.0),
		datastructure.NewEdge(3, 4, "Y", 1.0),
	})

	table, err := ComputeDistances(g, ni, 1)
	require.NoError(t, err)
	for _, target := range []int64{3, 4} {
		path, err := ReconstructPath(g, ni, table, target)
		require.NoError(t, err)
		assert.False(t, path.Found)
	}
}

func TestZeroWeightPathIsNotNoPath(t *testing.T) {
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "bridge", 0),
	})

	table, err := ComputeDistances(g, ni, 1)
	require.NoError(t, err)
	path, err := ReconstructPath(g, ni, table, 2)
	require.NoError(t, err)

	assert.True(t, path.Found)
	assert.Equal(t, 0.0, path.Distance)
	assert.Equal(t, []string{"bridge"}, path.StreetNames())
}

func TestSourceEqualsTarget(t *testing.T) {
	g, ni := newPVQWRFGraph(t)

	table, err := ComputeDistances(g, ni, 3)
	require.NoError(t, err)
	path, err := ReconstructPath(g, ni, table, 3)
	require.NoError(t, err)

	assert.True(t, path.Found)
	assert.Empty(t, path.Edges)
	assert.Equal(t, 0.0, path.Distance)
}

func TestUnknownNode(t *testing.T) {
	g, ni := newPVQWRFGraph(t)

	_, err := ComputeDistances(g, ni, 42)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)

	table, err := ComputeDistances(g, ni, 0)
	require.NoError(t, err)
	_, err = ReconstructPath(g, ni, table, 42)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)

	_, err = ShortestDistances(g, ni, 42)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)
}

func TestTableFromAnotherGraph(t *testing.T) {
	g, ni := newPVQWRFGraph(t)
	small, smallIndex := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(0, 5, "shortcut", 1),
	})

	table, err := ComputeDistances(small, smallIndex, 0)
	require.NoError(t, err)

	_, err = ReconstructPath(g, ni, table, 5)
	assert.ErrorIs(t, err, ErrTableMismatch)
}

func TestBaseRowAndMonotonicity(t *testing.T) {
	g, ni := newPVQWRFGraph(t)
	source := int64(2)
	table, err := ComputeDistances(g, ni, source)
	require.NoError(t, err)

	n := ni.Len()
	require.Equal(t, n, table.Size())
	require.Equal(t, n-1, table.Budget())

	s := indexOf(t, ni, source)
	assert.Equal(t, s, table.SourceIndex())
	assert.Equal(t, source, table.Source())
	for v := int32(0); v < int32(n); v++ {
		if v == s {
			assert.Equal(t, 0.0, table.At(v, 0))
		} else {
			assert.True(t, math.IsInf(table.At(v, 0), 1))
		}
		for k := 1; k < n; k++ {
			assert.LessOrEqual(t, table.At(v, k), table.At(v, k-1))
		}
	}
}

func TestTieBreakUsesFirstAdjacentEdge(t *testing.T) {
	/*
		  1 --x1-- 2 --x2-- 4
		  |                 |
		  +--y1--- 3 --y2---+

		 kedua path weight nya 2. adjacency list node 4 = [4->2, 4->3], jadi predecessor yang dipilih 2.
	*/
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(1, 2, "x1", 1),
		datastructure.NewEdge(2, 4, "x2", 1),
		datastructure.NewEdge(1, 3, "y1", 1),
		datastructure.NewEdge(3, 4, "y2", 1),
	})

	for i := 0; i < 5; i++ {
		table, err := ComputeDistances(g, ni, 1)
		require.NoError(t, err)
		path, err := ReconstructPath(g, ni, table, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"x1", "x2"}, path.StreetNames())
	}
}

func TestIdempotentAndSymmetric(t *testing.T) {
	g, ni := buildGraph(t, []datastructure.Edge{
		datastructure.NewEdge(100, 200, "Main St", 5.0),
		datastructure.NewEdge(200, 300, "College St", 0.7),
		datastructure.NewEdge(300, 100, "Weybridge St", 6.1),
	})

	first, err := ComputeDistances(g, ni, 100)
	require.NoError(t, err)
	second, err := ComputeDistances(g, ni, 100)
	require.NoError(t, err)
	for v := int32(0); v < int32(ni.Len()); v++ {
		assert.Equal(t, first.Row(v), second.Row(v))
	}

	fromB, err := ComputeDistances(g, ni, 200)
	require.NoError(t, err)
	assert.Equal(t, first.Distance(indexOf(t, ni, 200)), fromB.Distance(indexOf(t, ni, 100)))
}

func assertConnectedWalk(t *testing.T, path Path) {
	t.Helper()
	if len(path.Edges) == 0 {
		assert.Equal(t, path.Source, path.Target)
		return
	}
	assert.Equal(t, path.Source, path.Edges[0].From)
	assert.Equal(t, path.Target, path.Edges[len(path.Edges)-1].To)
	for i := 1; i < len(path.Edges); i++ {
		assert.Equal(t, path.Edges[i-1].To, path.Edges[i].From)
	}
}

// randomRoadGraph. graph random, sebagian node sengaja tidak terhubung.
func randomRoadGraph(t *testing.T, rd *rand.Rand, nodes, roads int) (*datastructure.RoadGraph, *datastructure.NodeIndex) {
	t.Helper()
	edges := make([]datastructure.Edge, 0, roads)
	for i := 0; i < roads; i++ {
		u := int64(rd.Intn(nodes)) * 7
		v := int64(rd.Intn(nodes)) * 7
		if u == v {
			continue
		}
		// weight kelipatan 0.25 supaya banyak path dengan weight sama
		w := float64(rd.Intn(20)) * 0.25
		edges = append(edges, datastructure.NewEdge(u, v, "road", w))
	}
	return buildGraph(t, edges)
}

type dijkstraItem struct {
	node int64
	dist float64
}

type dijkstraPQ []dijkstraItem

func (pq dijkstraPQ) Len() int            { return len(pq) }
func (pq dijkstraPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq dijkstraPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *dijkstraPQ) Push(x interface{}) { *pq = append(*pq, x.(dijkstraItem)) }
func (pq *dijkstraPQ) Pop() interface{} {
	old := *pq
	item := old[len(old)-1]
	*pq = old[:len(old)-1]
	return item
}

// referenceDijkstra. cuma buat ngecek hasil bellman-ford.
func referenceDijkstra(g *datastructure.RoadGraph, source int64) map[int64]float64 {
	dist := map[int64]float64{source: 0}
	pq := &dijkstraPQ{{node: source, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(dijkstraItem)
		if item.dist > dist[item.node] {
			continue
		}
		for _, e := range g.Neighbors(item.node) {
			nd := item.dist + e.Weight
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				heap.Push(pq, dijkstraItem{node: e.To, dist: nd})
			}
		}
	}
	return dist
}

func TestRandomGraphsMatchDijkstra(t *testing.T) {
	rd := rand.New(rand.NewSource(20241019))
	for iter := 0; iter < 20; iter++ {
		g, ni := randomRoadGraph(t, rd, 30, 45)
		if ni.Len() == 0 {
			continue
		}
		ids := ni.IDs()
		source := ids[rd.Intn(len(ids))]

		table, err := ComputeDistances(g, ni, source)
		require.NoError(t, err)
		expected := referenceDijkstra(g, source)

		for _, target := range ids {
			v := indexOf(t, ni, target)
			path, err := ReconstructPath(g, ni, table, target)
			require.NoError(t, err)

			want, reachable := expected[target]
			if !reachable {
				assert.False(t, path.Found)
				continue
			}
			require.True(t, path.Found)
			assert.InDelta(t, want, table.Distance(v), 1e-9)
			assert.Equal(t, table.Distance(v), path.Distance)
			assert.LessOrEqual(t, len(path.Edges), ni.Len()-1)

			total := 0.0
			for _, e := range path.Edges {
				total += e.Weight
			}
			assert.InDelta(t, path.Distance, total, 1e-9)
			assertConnectedWalk(t, path)
		}
	}
}

func TestShortestDistancesMatchesTable(t *testing.T) {
	rd := rand.New(rand.NewSource(7))
	g, ni := randomRoadGraph(t, rd, 40, 80)
	source := ni.IDs()[0]

	table, err := ComputeDistances(g, ni, source)
	require.NoError(t, err)
	dists, err := ShortestDistances(g, ni, source)
	require.NoError(t, err)

	assert.Equal(t, table.Distances(), dists)
}

func TestParallelRelaxationMatchesSequential(t *testing.T) {
	rd := rand.New(rand.NewSource(99))
	g, ni := randomRoadGraph(t, rd, 120, 300)

	pool, err := concurrent.NewWorkerPool(4)
	require.NoError(t, err)
	defer pool.Release()

	parallel, err := NewRouteAlgorithm(g, ni, WithWorkerPool(pool), WithParallelThreshold(1))
	require.NoError(t, err)
	sequential, err := NewRouteAlgorithm(g, ni)
	require.NoError(t, err)
	assert.Equal(t, ni.Len(), parallel.NumNodes())

	for _, source := range ni.IDs()[:5] {
		want, err := sequential.ComputeDistances(source)
		require.NoError(t, err)
		got, err := parallel.ComputeDistances(source)
		require.NoError(t, err)
		for v := int32(0); v < int32(ni.Len()); v++ {
			assert.Equal(t, want.Row(v), got.Row(v))
		}

		rolling, err := parallel.ShortestDistances(source)
		require.NoError(t, err)
		assert.Equal(t, want.Distances(), rolling)
	}
}

func TestRouteAlgorithmShortestPath(t *testing.T) {
	g, ni := newPVQWRFGraph(t)
	rt, err := NewRouteAlgorithm(g, ni)
	require.NoError(t, err)

	path, err := rt.ShortestPath(2, 5)
	require.NoError(t, err)
	// q -> w -> f
	assert.Equal(t, 20.0, path.Distance)
	assert.Equal(t, []string{"qw", "wf"}, path.StreetNames())
	assertConnectedWalk(t, path)

	_, err = rt.ShortestPath(2, 99)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)
	_, err = rt.ShortestPath(99, 2)
	assert.ErrorIs(t, err, datastructure.ErrUnknownNode)
}
