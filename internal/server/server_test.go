package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farellandr/eventgate/internal/middleware"
	"github.com/farellandr/eventgate/internal/storage/memory"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(secret string) *gin.Engine {
	return NewRouter(Dependencies{
		Store:          memory.New(),
		JWTSecret:      secret,
		QRSize:         64,
		RequestTimeout: time.Second,
		Logger:         log.New(io.Discard, "", 0),
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter("")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response has no request id")
	}
}

func TestRoutes(t *testing.T) {
	r := newTestRouter("")
	want := map[string]bool{
		"GET /health":                      true,
		"GET /v1/events":                   true,
		"GET /v1/events/:id":               true,
		"POST /v1/events":                  true,
		"POST /v1/events/:id/register":     true,
		"GET /v1/events/:id/registration":  true,
		"POST /v1/events/:id/generateQR":   true,
		"GET /v1/events/:id/event-qrcodes": true,
		"PATCH /v1/events/:id/qr-check-in": true,
	}
	for _, route := range r.Routes() {
		delete(want, route.Method+" "+route.Path)
	}
	for missing := range want {
		t.Errorf("route %s not registered", missing)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter("secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("public list: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"userEmail":"alice@example.com"}`)
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/events/1/register", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("register without token: status = %d", rec.Code)
	}
}

func TestEndToEnd(t *testing.T) {
	r := newTestRouter("")
	send := func(method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	steps := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/v1/events", `{"title":"Gig","capacity":1,"startTime":"2025-03-14T20:00:00Z","endTime":"2025-03-14T23:00:00Z"}`, http.StatusCreated},
		{http.MethodPost, "/v1/events/1/register", `{"userEmail":"alice@example.com"}`, http.StatusCreated},
		{http.MethodPost, "/v1/events/1/register", `{"userEmail":"bob@example.com"}`, http.StatusBadRequest},
		{http.MethodPost, "/v1/events/1/generateQR", `{"registrationId":1}`, http.StatusOK},
		{http.MethodPatch, "/v1/events/1/qr-check-in", `{"registrationHash":"registrationId:1;eventId:1;userEmail:alice@example.com;instance:0"}`, http.StatusOK},
		{http.MethodPatch, "/v1/events/1/qr-check-in", `{"registrationHash":"registrationId:1;eventId:1;userEmail:alice@example.com;instance:0"}`, http.StatusConflict},
	}
	for _, s := range steps {
		rec := send(s.method, s.path, s.body)
		if rec.Code != s.status {
			t.Fatalf("%s %s: status = %d, want %d (body %s)", s.method, s.path, rec.Code, s.status, rec.Body.String())
		}
	}
}
