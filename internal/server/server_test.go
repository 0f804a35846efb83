package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/embed"
	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/index"
	"github.com/verdantcart/hybridsearch/internal/search"
)

func serverFixture(t *testing.T) (*Server, *graph.MemoryStore) {
	t.Helper()

	source := catalog.NewMemorySource(
		&catalog.Product{
			ID:            1,
			Name:          "Organic Turmeric Powder",
			Slug:          "organic-turmeric-powder",
			Description:   "Golden turmeric powder for cooking and wellness",
			Brand:         "Verdant Farms",
			Price:         8.50,
			Categories:    []string{"Spices"},
			AverageRating: 4.8,
			ReviewCount:   50,
			InStock:       true,
		},
		&catalog.Product{
			ID:          2,
			Name:        "Brown Basmati Rice",
			Slug:        "brown-basmati-rice",
			Description: "Whole grain basmati rice",
			Brand:       "Verdant Farms",
			Price:       12.00,
			Categories:  []string{"Grains"},
			InStock:     true,
		},
	)
	t.Cleanup(func() { _ = source.Close() })

	embedder := embed.NewStaticEmbedder()
	snapshots := index.NewCache(source, embedder, index.WithRebuildTTL(time.Hour))

	store := graph.NewMemoryStore()

	engine, err := search.NewEngine(snapshots, embedder, search.WithGraphStore(store))
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	srv := New(Config{
		Host:            "127.0.0.1",
		Port:            0,
		ShutdownTimeout: time.Second,
	}, engine,
		WithGraphStore(store),
		WithEmbedder(embedder),
		WithSnapshotCache(snapshots),
	)

	return srv, store
}

func TestSearchEndpointReturnsResults(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/search?q=turmeric+powder&mode=keyword_only")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body search.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Results)
	assert.Equal(t, int64(1), body.Results[0].ProductID)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/search")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ERR_402_QUERY_EMPTY", body.Code)
}

func TestSearchEndpointRejectsInvalidMode(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/search?q=rice&mode=psychic")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpointRejectsBadFilterValues(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for _, url := range []string{
		"/v1/search?q=rice&price_min=cheap",
		"/v1/search?q=rice&in_stock=maybe",
		"/v1/search?q=rice&offset=first",
	} {
		resp, err := http.Get(ts.URL + url)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, url)
	}
}

func TestSearchEndpointAppliesFilters(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/search?q=verdant&mode=keyword_only&category=Grains")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body search.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	for _, res := range body.Results {
		assert.Equal(t, int64(2), res.ProductID)
	}
}

func TestRebuildEndpoint(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/index/rebuild", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body rebuildResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Products)
	assert.NotEmpty(t, body.BuiltAt)
}

func TestHealthEndpoint(t *testing.T) {
	srv, store := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["graph"])
	assert.Equal(t, "ok", body.Checks["embedder"])
	assert.Equal(t, "not built", body.Checks["index"])

	// Health stays 200 when the graph store degrades; search still works
	// without graph scoring.
	store.Err = assert.AnError
	resp2, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var degraded healthResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&degraded))
	assert.Contains(t, degraded.Checks["graph"], "unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := serverFixture(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
