package middleware

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter()
	e.Use(rl.RateLimit())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/api/admin/verify-pin", ok)
	e.GET("/api/posts", ok)
	e.GET("/uploads/*", ok)

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		if code := do(http.MethodPost, "/api/admin/verify-pin"); code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200 within the burst", i+1, code)
		}
	}
	if code := do(http.MethodPost, "/api/admin/verify-pin"); code != http.StatusTooManyRequests {
		t.Fatalf("request past the burst = %d, want 429", code)
	}
	if code := do(http.MethodGet, "/api/posts"); code != http.StatusTooManyRequests {
		t.Errorf("blocked IP reached another route: %d", code)
	}
	if code := do(http.MethodGet, "/uploads/images/a.jpg"); code != http.StatusOK {
		t.Errorf("uploads were rate limited: %d", code)
	}
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(pin string) error {
	if pin != "2580" {
		return errors.New("incorrect pin")
	}
	return nil
}

func (fakeVerifier) ValidateToken(token string) error {
	if token != "good-token" {
		return errors.New("invalid token")
	}
	return nil
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	e.POST("/api/admin/posts", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		if !IsAdmin(c) {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, string(body))
	}, RequireAdmin(fakeVerifier{}))

	multipartBody := func(pin string) (io.Reader, string) {
		var buf strings.Builder
		w := multipart.NewWriter(&buf)
		w.WriteField("title", "Flow")
		w.WriteField("pin", pin)
		w.Close()
		return strings.NewReader(buf.String()), w.FormDataContentType()
	}

	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{name: "no credentials", status: http.StatusUnauthorized, build: func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil)
		}},
		{name: "bearer token", status: http.StatusOK, build: func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
			return req
		}},
		{name: "bad token", status: http.StatusUnauthorized, build: func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
			return req
		}},
		{name: "pin header", status: http.StatusOK, build: func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil)
			req.Header.Set(AdminPinHeader, "2580")
			return req
		}},
		{name: "wrong pin header", status: http.StatusUnauthorized, build: func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil)
			req.Header.Set(AdminPinHeader, "0000")
			return req
		}},
		{name: "multipart pin", status: http.StatusOK, build: func() *http.Request {
			body, contentType := multipartBody("2580")
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			return req
		}},
		{name: "wrong multipart pin", status: http.StatusUnauthorized, build: func() *http.Request {
			body, contentType := multipartBody("1111")
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			return req
		}},
		{name: "json pin", status: http.StatusOK, build: func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(`{"title":"Flow","pin":"2580"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			return req
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, tt.build())
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "Incorrect PIN.") {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}

	// The handler still sees the JSON body the PIN was read from
	req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(`{"title":"Flow","pin":"2580"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"title":"Flow"`) {
		t.Errorf("JSON body not restored: %s", rec.Body.String())
	}
}

func TestNewCORSConfig(t *testing.T) {
	cfg := NewCORSConfig("https://yoga.test", []string{" https://admin.yoga.test ", "https://yoga.test", ""})
	count := map[string]int{}
	for _, o := range cfg.AllowOrigins {
		count[o]++
	}
	if count["https://yoga.test"] != 1 || count["https://admin.yoga.test"] != 1 || count[""] != 0 {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeadersWithConfig(SecurityConfig{MediaDomains: []string{"https://res.cloudinary.com"}}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "media-src 'self' data: https://res.cloudinary.com") {
		t.Errorf("CSP = %q", csp)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
}
