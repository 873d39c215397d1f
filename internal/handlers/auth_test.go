package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskdeck/backend/internal/config"
	"taskdeck/backend/internal/handlers"
	"taskdeck/backend/internal/models"
	"taskdeck/backend/internal/services"
)

func setupAuthRouter(t *testing.T) (*services.AuthService, *gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	auth := services.NewAuthService(config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   24 * time.Hour,
		BCryptCost: 4,
	})
	handler := handlers.NewAuthHandler(db, auth, nil)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)

	return auth, db, router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterSuccess(t *testing.T) {
	auth, _, router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "A",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var resp handlers.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("Expected a token in the response")
	}
	if resp.User.Email != "a@x.com" || resp.User.Name != "A" {
		t.Errorf("Unexpected user projection: %+v", resp.User)
	}

	// The token encodes the registered user's id.
	id, err := auth.VerifyToken(resp.Token, time.Now())
	if err != nil {
		t.Fatalf("Token verification failed: %v", err)
	}
	if id.String() != resp.User.ID {
		t.Errorf("Token identity %s does not match user %s", id, resp.User.ID)
	}

	if strings.Contains(w.Body.String(), "passwordHash") || strings.Contains(w.Body.String(), "password_hash") {
		t.Error("Response must not contain the password hash")
	}
}

func TestRegisterValidationFailures(t *testing.T) {
	_, _, router := setupAuthRouter(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing fields", map[string]string{"email": "a@x.com"}},
		{"bad email", map[string]string{"email": "nope", "password": "secret1", "name": "A"}},
		{"short password", map[string]string{"email": "a@x.com", "password": "12345", "name": "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/auth/register", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, _, router := setupAuthRouter(t)

	first := postJSON(router, "/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "A",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("Expected first registration to succeed, got %d", first.Code)
	}

	second := postJSON(router, "/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "different", "name": "B",
	})
	if second.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d for duplicate email, got %d", http.StatusBadRequest, second.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	_, _, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "A",
	})

	w := postJSON(router, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp handlers.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestLoginBadCredentialsAreIndistinguishable(t *testing.T) {
	_, _, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "A",
	})

	unknown := postJSON(router, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	})
	wrongPw := postJSON(router, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})

	if unknown.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for unknown email, got %d", http.StatusUnauthorized, unknown.Code)
	}
	if wrongPw.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for wrong password, got %d", http.StatusUnauthorized, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Error("Login failures must not reveal whether the email exists")
	}
}

func TestLoginMissingFields(t *testing.T) {
	_, _, router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/login", map[string]string{"email": "a@x.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
