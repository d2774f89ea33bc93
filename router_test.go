package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-api/config"
	"portfolio-api/identity"
	"portfolio-api/models"
)

const testJWTSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            testJWTSecret,
		JWTAudience:          "authenticated",
		CORSOrigins:          "http://localhost:5173",
		BlogImagesBucket:     "blog-images",
		PortfolioMediaBucket: "portfolio-media",
		S3URL:                "https://storage.example.com",
		S3Region:             "eu-central-1",
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.BlogPost{}, &models.Tag{}, &models.BlogPostTag{},
		&models.PortfolioItem{},
		&models.Experience{}, &models.TimelineEvent{}, &models.FeaturedPost{},
		&models.Influence{}, &models.SiteSettings{},
	); err != nil {
		t.Fatalf("auto-migration failed: %v", err)
	}
	return db
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	db := setupTestDB(t)
	logging := zap.NewNop()
	router := newRouter(cfg, db, logging, nil, identity.NewClient(cfg, logging))
	return router, db, cfg
}

func adminToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"aud":   "authenticated",
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestRootHealthMessage(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/blog/admin/posts"},
		{http.MethodPost, "/api/portfolio/admin/items"},
		{http.MethodGet, "/api/work/admin/experiences"},
		{http.MethodGet, "/api/influences/admin/influences"},
		{http.MethodPut, "/api/settings/admin"},
		{http.MethodPost, "/api/upload/blog-image"},
	}
	for _, p := range paths {
		w := doJSON(t, router, p.method, p.path, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestAdminRoutesRejectBadToken(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/blog/admin/posts", nil, signed)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong signature, got %d", w.Code)
	}
}
