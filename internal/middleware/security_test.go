package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"wakeguard/internal/services"
)

func protectedRouter(authEnabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.POST("/kill", AuthRequired(authEnabled), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthRequiredDisabledPassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/kill", nil)
	protectedRouter(false).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status code = %d, want 200 with auth disabled", w.Code)
	}
}

func TestAuthRequiredRejectsMissingAndBadTokens(t *testing.T) {
	services.InitAuthService("middleware-test-secret", time.Hour)
	r := protectedRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kill", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no header: status code = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/kill", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status code = %d, want 401", w.Code)
	}
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	services.InitAuthService("middleware-test-secret", time.Hour)

	token, err := services.GenerateToken("test-client")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/kill", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(true).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status code = %d, want 200 with valid token", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	protectedRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kill", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRateLimiterReusesPerIPLimiter(t *testing.T) {
	rl := NewRateLimiter()
	a := rl.GetLimiter("127.0.0.1")
	b := rl.GetLimiter("127.0.0.1")
	if a != b {
		t.Error("same IP got two limiters")
	}
	if c := rl.GetLimiter("127.0.0.2"); c == a {
		t.Error("different IPs share a limiter")
	}
}
