package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]domain.Principal

func (s stubVerifier) VerifyToken(token string) (domain.Principal, error) {
	if token == "expired" {
		return domain.Principal{}, service.ErrExpiredToken
	}
	p, ok := s[token]
	if !ok {
		return domain.Principal{}, service.ErrInvalidToken
	}
	return p, nil
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := BearerToken(tc.header)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}

func TestJWTMiddleware(t *testing.T) {
	v := stubVerifier{
		"user":  {UserID: 1, Role: domain.RoleUser},
		"admin": {UserID: 2, Role: domain.RoleAdmin},
	}
	r := gin.New()
	r.GET("/me", JWT(v), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		uid, _ := c.Get(CtxUserID)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "ctx": uid})
	})
	r.GET("/admin", JWT(v), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Token user", http.StatusUnauthorized},
		{"invalid token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"expired token", "/me", "Bearer expired", http.StatusUnauthorized},
		{"valid token", "/me", "Bearer user", http.StatusOK},
		{"admin route as user", "/admin", "Bearer user", http.StatusForbidden},
		{"admin route as admin", "/admin", "Bearer admin", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := map[string]string{}
			if tc.header != "" {
				h["Authorization"] = tc.header
			}
			w := do(r, http.MethodGet, tc.path, h)
			if w.Code != tc.want {
				t.Fatalf("status = %d; want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestLocalRateLimit(t *testing.T) {
	limiter := NewRateLimiter(nil)
	now := time.Now()
	limiter.local.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/x", limiter.ByIP("test", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/x", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := do(r, http.MethodGet, "/x", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" || w.Header().Get("Retry-After") != "60" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}

	now = now.Add(61 * time.Second)
	if w := do(r, http.MethodGet, "/x", nil); w.Code != http.StatusOK {
		t.Fatalf("new window should allow, got %d", w.Code)
	}
}

func TestUserRateLimitKeysByPrincipal(t *testing.T) {
	v := stubVerifier{
		"a": {UserID: 1, Role: domain.RoleUser},
		"b": {UserID: 2, Role: domain.RoleUser},
	}
	limiter := NewRateLimiter(nil)
	r := gin.New()
	r.GET("/x", JWT(v), limiter.ByUser("api", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(r, http.MethodGet, "/x", map[string]string{"Authorization": "Bearer a"}); w.Code != http.StatusOK {
		t.Fatalf("a first: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/x", map[string]string{"Authorization": "Bearer a"}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("a second: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/x", map[string]string{"Authorization": "Bearer b"}); w.Code != http.StatusOK {
		t.Fatalf("b must have its own budget: %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", map[string]string{"Origin": "https://app.example"})
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	w = do(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin must not be echoed")
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
	w = do(r, http.MethodGet, "/x", map[string]string{requestIDHeader: "given"})
	if w.Header().Get(requestIDHeader) != "given" {
		t.Fatalf("expected propagated request id, got %q", w.Header().Get(requestIDHeader))
	}
}
