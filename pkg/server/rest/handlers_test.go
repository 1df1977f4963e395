package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadpath/pkg/server"
	"github.com/lintang-b-s/roadpath/pkg/server/rest/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Metrics) {
	t.Helper()
	g := datastructure.NewRoadGraph()
	require.NoError(t, g.AddRoad(datastructure.NewEdge(1, 2, "a", 1.0)))
	require.NoError(t, g.AddRoad(datastructure.NewEdge(2, 3, "b", 1.0)))
	require.NoError(t, g.AddRoad(datastructure.NewEdge(1, 3, "c", 5.0)))
	require.NoError(t, g.AddNode(9))
	ni := g.BuildIndex()

	rt, err := routingalgorithm.NewRouteAlgorithm(g, ni)
	require.NoError(t, err)
	svc := service.NewNavigationService(g, rt, nil)

	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	NavigatorRouter(r, svc, m)
	return r, m
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestShortestPathHandler(t *testing.T) {
	r, m := newTestRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path", `{"source": 1, "target": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortestPathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2.0, resp.Distance)
	assert.Equal(t, []string{"a", "b"}, resp.StreetNames)
	assert.Equal(t, []RoadResponse{
		{From: 1, To: 2, Name: "a", Weight: 1},
		{From: 2, To: 3, Name: "b", Weight: 1},
	}, resp.Roads)
	// graph tanpa koordinat, polyline kosong
	assert.Empty(t, resp.Path)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HttpRequestCounter.WithLabelValues("200", http.MethodPost, "/api/navigations/shortest-path")))
}

func TestShortestPathHandlerSourceEqualsTarget(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path", `{"source": 2, "target": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortestPathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Distance)
	assert.Empty(t, resp.Roads)
}

func TestShortestPathHandlerErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"no path", `{"source": 1, "target": 9}`, http.StatusNotFound},
		{"unknown node", `{"source": 1, "target": 42}`, http.StatusNotFound},
		{"missing target", `{"source": 1}`, http.StatusBadRequest},
		{"not json", `source=1`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path", tc.body)
			assert.Equal(t, tc.code, rec.Code)

			var resp ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.StatusText)
		})
	}
}

func TestNoPathMessage(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path", `{"source": 1, "target": 9}`)
	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no path from 1 to 9", resp.ErrorText)
}

func TestShortestPathCoordValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path-coord",
		`{"src_lat": 120, "src_lon": -73.1, "dst_lat": 44.0, "dst_lon": -73.2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.ErrValidation, 1)

	// service tanpa kv tidak bisa snapping
	rec = doRequest(r, http.MethodPost, "/api/navigations/shortest-path-coord",
		`{"src_lat": 44.0, "src_lon": -73.1, "dst_lat": 44.0, "dst_lon": -73.2}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDistancesHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, http.MethodGet, "/api/navigations/distances/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DistancesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Source)
	assert.Equal(t, []NodeDistanceResponse{
		{NodeID: 1, Distance: 0},
		{NodeID: 2, Distance: 1},
		{NodeID: 3, Distance: 2},
	}, resp.Distances)

	rec = doRequest(r, http.MethodGet, "/api/navigations/distances/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodGet, "/api/navigations/distances/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingService struct{}

func (failingService) ShortestPath(ctx context.Context, source, target int64) (service.ShortestPathResult, error) {
	return service.ShortestPathResult{}, server.NewErrorf(server.ErrConflict, "graph is reloading")
}

func (failingService) ShortestPathCoord(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (service.ShortestPathResult, error) {
	return service.ShortestPathResult{}, context.DeadlineExceeded
}

func (failingService) Distances(ctx context.Context, source int64) ([]service.NodeDistance, error) {
	return nil, server.NewErrorf(server.ErrBadParamInput, "bad source")
}

func TestServiceErrorMapping(t *testing.T) {
	r := chi.NewRouter()
	NavigatorRouter(r, failingService{}, NewMetrics(prometheus.NewRegistry()))

	rec := doRequest(r, http.MethodPost, "/api/navigations/shortest-path", `{"source": 1, "target": 2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(r, http.MethodPost, "/api/navigations/shortest-path-coord",
		`{"src_lat": 44.0, "src_lon": -73.1, "dst_lat": 44.0, "dst_lon": -73.2}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(r, http.MethodGet, "/api/navigations/distances/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
