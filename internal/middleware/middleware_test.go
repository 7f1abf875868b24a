package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneytracker/internal/auth"
	"moneytracker/internal/config"

	"github.com/gin-gonic/gin"
)

func newRouter(ts *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/me", NewAuthMiddleware(ts).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(UserIDKey)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	ts := auth.NewTokenService(config.Config{JWTSecret: "k", JWTAccessTTL: time.Minute, JWTRefreshTTL: time.Hour})
	pair, err := ts.IssuePair(9)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + pair.Access, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + pair.Access, http.StatusOK},
	}
	r := newRouter(ts)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != `{"user_id":9}` {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := auth.NewTokenService(config.Config{JWTSecret: "k", JWTAccessTTL: time.Minute, JWTRefreshTTL: time.Hour})
	r := newRouter(ts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request id = %q", w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc" {
		t.Errorf("request id = %q, want abc", got)
	}
}
