package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/api/middleware"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/service"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, storage.DatasetKind, any) error {
	return errors.New("bucket unavailable")
}

func (brokenStore) Load(context.Context, storage.DatasetKind, any) error {
	return storage.ErrNotFound
}

func newTestRouter(t *testing.T, store storage.DatasetStore) *gin.Engine {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "dvur")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dvur_24_01.csv"),
		[]byte("Odběratel;Obrat;Zisk\nAcme;1000;100\nČedok;500;20\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dvur_24_02.csv"),
		[]byte("Odběratel;Obrat;Zisk\nAcme;1100;110\nČedok;400;20\n"), 0o644))

	cfg := config.IngestConfig{CustomerDir: dir, SupplierDir: filepath.Join(root, "dodavatele"), Workers: 1}
	if store == nil {
		store = storage.NewFileStore(map[storage.DatasetKind]string{
			storage.KindCustomers: filepath.Join(root, "processed.json"),
			storage.KindSuppliers: filepath.Join(root, "suppliers.json"),
		})
	}
	svc := service.NewDatasetService(cfg, store, nil, zerolog.Nop())
	return NewRouter(&Services{Datasets: svc}, nil)
}

func do(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)
	return w
}

func TestHealthAndMiddleware(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCustomerEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/customers")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(router, http.MethodPost, "/api/v1/data/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	var refresh struct {
		OK    bool `json:"ok"`
		Stats struct {
			Months    int    `json:"months"`
			Customers int    `json:"customers"`
			Generated string `json:"generatedAt"`
		} `json:"stats"`
		Summary domain.RefreshSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refresh))
	assert.True(t, refresh.OK)
	assert.Equal(t, 2, refresh.Stats.Months)
	assert.Equal(t, 2, refresh.Stats.Customers)
	assert.Equal(t, 2, refresh.Summary.FilesProcessed)

	w = do(router, http.MethodGet, "/api/v1/customers?mode=declining-desc")
	require.Equal(t, http.StatusOK, w.Code)
	var result domain.CustomerQueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Customers, 1)
	assert.Equal(t, "Čedok", result.Customers[0].Name)
	assert.Equal(t, domain.TrendDown, result.Customers[0].RangeTrend.Trend)
	assert.Equal(t, 2, result.Summary.ActiveCustomers)

	w = do(router, http.MethodGet, "/api/v1/customers?q=cedok")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Customers, 1)

	w = do(router, http.MethodGet, "/api/v1/customers/acme?start=2024-02&end=2024-02")
	require.Equal(t, http.StatusOK, w.Code)
	var view domain.CustomerView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1100.0, view.Range.TotalRevenue)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/customers/nobody").Code)

	w = do(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "growth_refresh_duration_seconds")
}

func TestBadQueryParameters(t *testing.T) {
	router := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/v1/data/refresh").Code)

	for _, target := range []string{
		"/api/v1/customers?mode=sideways",
		"/api/v1/customers?start=2024-13",
		"/api/v1/customers?start=2024-03&end=2024-01",
		"/api/v1/customers/acme?end=march",
	} {
		w := do(router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "error", target)
	}
}

func TestSupplierRefreshFailure(t *testing.T) {
	router := newTestRouter(t, brokenStore{})

	w := do(router, http.MethodPost, "/api/v1/suppliers/refresh")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "bucket unavailable")

	assert.Equal(t, http.StatusServiceUnavailable, do(router, http.MethodGet, "/api/v1/suppliers").Code)
}
