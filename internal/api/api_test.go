package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/harvest/internal/api"
	"github.com/UnknownOlympus/harvest/internal/basket"
	"github.com/UnknownOlympus/harvest/internal/cache"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/ranking"
	"github.com/UnknownOlympus/harvest/internal/service"
	"github.com/UnknownOlympus/harvest/test/mocks"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	source   *mocks.Source
	geocoder *mocks.Provider
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	source := mocks.NewSource(t)
	geocoder := mocks.NewProvider(t)

	nearby := service.NewNearbyService(logger, source, "llm", geocoder, ranking.NewRanker(logger, appMetrics), appMetrics)
	baskets := basket.NewService(basket.NewStoreRepository(cache.NewMemoryStore(), logger), logger)

	return &testServer{
		router:   api.NewRouter(logger, appMetrics, nearby, baskets),
		source:   source,
		geocoder: geocoder,
		metrics:  appMetrics,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

type errorBody struct {
	Error string `json:"error"`
}

func TestNoRoute(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/unknown", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "route not found", decode[errorBody](t, w).Error)
}
