package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quillpost/quill/config"
	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/routes"
	"github.com/quillpost/quill/utils"
)

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) DeleteImage(ctx context.Context, imageURL string) error {
	return m.Called(ctx, imageURL).Error(0)
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.JWTManager
	images *mockImageStore
}

// newTestApp builds the full router over a fresh sqlite database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbCfg := config.DatabaseSection{Driver: "sqlite", URI: filepath.Join(t.TempDir(), "quill_test.db")}
	db, err := config.OpenDatabase(dbCfg, "silent", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	images := &mockImageStore{}
	images.On("DeleteImage", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := config.AppConfig{
		App: config.AppSection{AllowedOrigins: []string{"*"}},
		Gin: config.GinSection{Mode: "test"},
	}
	tokens := utils.NewJWTManager("test-secret", time.Hour)
	router := routes.SetupRouter(cfg, routes.Dependencies{DB: db, Tokens: tokens, Images: images})

	return &testApp{t: t, db: db, router: router, tokens: tokens, images: images}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns its token and id.
func (a *testApp) signup(name, email string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/auth/signup", "", gin.H{"name": name, "email": email, "password": "password123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode(a.t, w)
	user := resp["user"].(map[string]interface{})
	return resp["token"].(string), user["id"].(string)
}

func (a *testApp) createPost(token, title, body, image string) string {
	a.t.Helper()
	payload := gin.H{"title": title, "body": body}
	if image != "" {
		payload["image"] = image
	}
	w := a.do(http.MethodPost, "/posts", token, payload)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)["post"].(map[string]interface{})["id"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) ([]interface{}, map[string]interface{}) {
	t.Helper()
	resp := decode(t, w)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok, w.Body.String())
	pagination, _ := resp["pagination"].(map[string]interface{})
	return data, pagination
}
