package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Remedy92/Culi-sub000/internal/auth"
)

func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret-key-for-testing-only", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

func protectedRouter(t *testing.T, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(testTokens(t), nil))
	if len(roles) > 0 {
		router.Use(RequireRole(roles...))
	}
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString("userID"),
			"userEmail": c.GetString("userEmail"),
		})
	})
	return router
}

func serve(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	router := protectedRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"invalid format", "InvalidFormat"},
		{"wrong scheme", "Basic abc"},
		{"invalid token", "Bearer invalid_token_xyz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := serve(router, tc.header); w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := testTokens(t).GenerateToken(auth.Claims{
		UserID: "test-user-id",
		Email:  "test@example.com",
		Role:   auth.RoleRestaurant,
	})
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	if w := serve(protectedRouter(t), "Bearer "+token); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := testTokens(t)
	restaurant, _ := tokens.GenerateToken(auth.Claims{UserID: "r1", Role: auth.RoleRestaurant})
	customer, _ := tokens.GenerateToken(auth.Claims{UserID: "c1", Role: "CUSTOMER"})

	router := protectedRouter(t, auth.RoleRestaurant, auth.RoleAdmin)

	if w := serve(router, "Bearer "+restaurant); w.Code != http.StatusOK {
		t.Errorf("expected 200 for restaurant, got %d", w.Code)
	}
	if w := serve(router, "Bearer "+customer); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for customer, got %d", w.Code)
	}
}

func TestRequireRole_MissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireRole(auth.RoleAdmin))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(router, ""); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.ErrorLevel {
		t.Fatalf("unexpected levels %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["status"] != int64(500) {
		t.Fatalf("unexpected fields %v", entries[1].ContextMap())
	}
}
