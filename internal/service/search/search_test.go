package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kasir/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return New(client, "products"), &seen
}

func TestProductIndex_Search(t *testing.T) {
	idx, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":1,"name":"Kopi Susu","category":"Minuman","price":8000,"stock":12}},
			{"_source":{"id":4,"name":"Kopi Hitam","category":"Minuman","price":6000,"stock":3}}
		]}}`)
	})

	total, prods, err := idx.Search(context.Background(), "kopi", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, prods, 2)
	assert.Equal(t, "Kopi Susu", prods[0].Name)
	assert.Equal(t, uint(4), prods[1].ID)
	assert.Equal(t, 3, prods[1].Stock)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "/products/_search", req.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "kopi", mm["query"])
	assert.EqualValues(t, 10, body["size"])
}

func TestProductIndex_SearchErrorStatus(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"parse"}`)
	})

	_, _, err := idx.Search(context.Background(), "kopi", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestProductIndex_IndexAndDelete(t *testing.T) {
	idx, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	ctx := context.Background()
	require.NoError(t, idx.IndexProduct(ctx, models.Product{ID: 7, Name: "Teh Botol", Price: 5000}))
	require.NoError(t, idx.DeleteProduct(ctx, 7))

	require.Len(t, *seen, 2)
	assert.Equal(t, "/products/_doc/7", (*seen)[0].Path)
	assert.True(t, strings.Contains((*seen)[0].Body, `"Teh Botol"`))
	assert.Equal(t, http.MethodDelete, (*seen)[1].Method)
	assert.Equal(t, "/products/_doc/7", (*seen)[1].Path)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var idx Index = Nop{}
	assert.NoError(t, idx.IndexProduct(context.Background(), models.Product{}))
	_, _, err := idx.Search(context.Background(), "x", 0, 10)
	assert.ErrorIs(t, err, ErrDisabled)
}
