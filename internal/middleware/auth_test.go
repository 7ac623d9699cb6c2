package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	r := gin.New()
	r.GET("/protected", AuthRequired(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": GetEmail(c)})
	})
	return r, db
}

func TestAuthRequired_ValidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r, db := setupAuthRouter(t)

	db.Create(&models.Account{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "irrelevant",
		Contact:  "555-0100",
	})

	token, err := utils.GenerateToken("alice@example.com", 60)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["email"] != "alice@example.com" {
		t.Errorf("handler saw email %q", body["email"])
	}
}

func TestAuthRequired_Rejections(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r, _ := setupAuthRouter(t)

	// Token for an email never registered.
	orphanToken, err := utils.GenerateToken("ghost@example.com", 60)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "malformed token", header: "Bearer not.a.jwt"},
		{name: "unknown account", header: "Bearer " + orphanToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, expected 401", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["detail"] != "Could not validate credentials" {
				t.Errorf("detail = %q", body["detail"])
			}
		})
	}
}
