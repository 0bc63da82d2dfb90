package routes

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/quill/config"
	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

func setupTestRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	db, err := config.OpenDatabase(
		config.DatabaseSection{Driver: "sqlite", URI: filepath.Join(t.TempDir(), "router.db")},
		"silent", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.AppConfig{
		App: config.AppSection{AllowedOrigins: origins},
		Gin: config.GinSection{Mode: "test"},
	}
	return SetupRouter(cfg, Dependencies{DB: db, Tokens: utils.NewJWTManager("secret", time.Hour)})
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t, []string{"*"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNoRoute(t *testing.T) {
	r := setupTestRouter(t, []string{"*"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":40400,"error":"route not found"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t, []string{"*"})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quill_http_requests_total")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := setupTestRouter(t, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
