package qdrant_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/domain"
	"clusterviz/internal/vectorstore/qdrant"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func newServer(t *testing.T, handle func(r recorded) string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{method: r.Method, path: r.URL.Path}
		_ = json.Unmarshal(raw, &rec.body)
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		assert.Equal(t, "key", r.Header.Get("api-key"))
		_, _ = w.Write([]byte(handle(rec)))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestStorage_VectorsScrollsAllPages(t *testing.T) {
	srv, calls := newServer(t, func(r recorded) string {
		if _, ok := r.body["offset"]; !ok {
			return `{"result":{"points":[
				{"id":1,"payload":{"tag":"alice"},"vector":[1,0]},
				{"id":2,"payload":{},"vector":[0,1]}
			],"next_page_offset":3}}`
		}
		return `{"result":{"points":[{"id":3,"payload":{"tag":"bob"},"vector":[0,1]}],"next_page_offset":null}}`
	})

	s := qdrant.NewStorage(qdrant.Config{URL: srv.URL, APIKey: "key", Collection: "entities"})
	got, err := s.Vectors(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.EntityVector{
		{Tag: "alice", Vector: []float64{1, 0}},
		{Tag: "bob", Vector: []float64{0, 1}},
	}, got)
	require.Len(t, *calls, 2)
	assert.Equal(t, "/collections/entities/points/scroll", (*calls)[0].path)
	assert.EqualValues(t, 3, (*calls)[1].body["offset"])
}

func TestStorage_Search(t *testing.T) {
	srv, calls := newServer(t, func(recorded) string {
		return `{"result":[{"score":0.9,"payload":{"tag":"alice"}},{"score":0.5,"payload":{"tag":"zed"}}]}`
	})

	s := qdrant.NewStorage(qdrant.Config{URL: srv.URL, APIKey: "key", Collection: "c", Clusters: map[string]int{"alice": 4}})
	got, err := s.Search(context.Background(), []float64{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Neighbor{
		{Tag: "alice", ClusterID: 4, Score: 0.9},
		{Tag: "zed", ClusterID: domain.Unclustered, Score: 0.5},
	}, got)
	assert.Equal(t, "/collections/c/points/search", (*calls)[0].path)
	assert.EqualValues(t, 2, (*calls)[0].body["limit"])
}

func TestStorage_InitAndUpsert(t *testing.T) {
	srv, calls := newServer(t, func(recorded) string { return `{"result":true}` })
	s := qdrant.NewStorage(qdrant.Config{URL: srv.URL, APIKey: "key", Collection: "c", TagField: "name"})

	require.Error(t, s.Init(context.Background(), 0))
	require.NoError(t, s.Init(context.Background(), 2))
	require.NoError(t, s.Upsert(context.Background(), []domain.EntityVector{{Tag: "alice", Vector: []float64{1, 0}}}))
	require.NoError(t, s.Clear())

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/collections/c", (*calls)[0].path)
	points := (*calls)[1].body["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)
	assert.Equal(t, map[string]any{"name": "alice"}, point["payload"])
	assert.Len(t, point["id"], 36)
	assert.Equal(t, http.MethodDelete, (*calls)[2].method)
}

func TestStorage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := qdrant.NewStorage(qdrant.Config{URL: srv.URL, Collection: "c"}).Vectors(context.Background(), nil)
	require.Error(t, err)
}
