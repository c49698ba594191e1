package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"posterlang/internal/api"
)

func TestHandleImagesRejectsBadRequests(t *testing.T) {
	d := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	d.api.handleImages(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", w.Code)
	}

	body := `{"kind":"movie"}`
	req = httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(body))
	w = httptest.NewRecorder()
	d.api.handleImages(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing ids: expected 400, got %d", w.Code)
	}
	var apiErr api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil || apiErr.Error == "" {
		t.Fatalf("expected error payload, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/images", nil)
	w = httptest.NewRecorder()
	d.api.handleImages(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET: expected 405, got %d", w.Code)
	}
}

func TestHandleCacheRemoveSingleKey(t *testing.T) {
	d := newTestDaemon(t)
	if err := d.cache.Store("movie_550", "en"); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if err := d.cache.Store("movie_603", "en"); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/cache?key=movie_550", nil)
	w := httptest.NewRecorder()
	d.api.handleCache(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := d.cache.Lookup("movie_550"); ok {
		t.Error("movie_550 should be removed")
	}
	if _, ok := d.cache.Lookup("movie_603"); !ok {
		t.Error("movie_603 should survive")
	}
}

func TestHandleWarmWithoutJellyfinConflicts(t *testing.T) {
	d := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodPost, "/api/warm", nil)
	w := httptest.NewRecorder()
	d.api.handleWarm(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", w.Code)
	}

	open := authMiddleware("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	open(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("no token configured: expected 200, got %d", w.Code)
	}
}
