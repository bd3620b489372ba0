package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func newOrigin(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/", "/index.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>shell</html>"))
		case "/style.css":
			w.Header().Set("Content-Type", "text/css")
			w.Write([]byte("body{}"))
		case "/api-data":
			w.Write([]byte("fresh"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCache_CacheFirstServesStoredCopy(t *testing.T) {
	var hits atomic.Int64
	origin := newOrigin(t, &hits)

	cache, err := NewCache(t.TempDir(), "gen-1", origin.URL)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
		w := httptest.NewRecorder()
		cache.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "body{}" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	}

	if hits.Load() != 1 {
		t.Fatalf("expected a single origin fetch, got %d", hits.Load())
	}
}

func TestCache_NetworkFirstRefetches(t *testing.T) {
	var hits atomic.Int64
	origin := newOrigin(t, &hits)

	cache, err := NewCache(t.TempDir(), "gen-1", origin.URL)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api-data", nil)
		w := httptest.NewRecorder()
		cache.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	}

	if hits.Load() != 2 {
		t.Fatalf("expected two origin fetches, got %d", hits.Load())
	}
}

func TestCache_NetworkFirstFallsBackWhenOffline(t *testing.T) {
	var hits atomic.Int64
	origin := newOrigin(t, &hits)

	cache, err := NewCache(t.TempDir(), "gen-1", origin.URL)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api-data", nil)
	w := httptest.NewRecorder()
	cache.ServeHTTP(w, req)
	if w.Body.String() != "fresh" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	origin.Close()

	w = httptest.NewRecorder()
	cache.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-data", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected cached fallback, got %d", w.Code)
	}
	if w.Body.String() != "fresh" {
		t.Fatalf("unexpected fallback body: %s", w.Body.String())
	}
}

func TestCache_OfflineWithoutEntry(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "gen-1", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	w := httptest.NewRecorder()
	cache.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if w.Body.String() != "Offline" {
		t.Fatalf("expected Offline body, got %q", w.Body.String())
	}
}

func TestCache_InstallAndActivate(t *testing.T) {
	var hits atomic.Int64
	origin := newOrigin(t, &hits)

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "gen-old"), 0o755); err != nil {
		t.Fatal(err)
	}

	cache, err := NewCache(dir, "gen-2", origin.URL)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	cache.Install(context.Background(), []string{"/", "/index.html", "/style.css"}, nil)
	if hits.Load() != 3 {
		t.Fatalf("expected 3 preload fetches, got %d", hits.Load())
	}

	origin.Close()

	// Preloaded shell survives without network.
	w := httptest.NewRecorder()
	cache.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected preloaded shell, got %d", w.Code)
	}

	if err := cache.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen-old")); !os.IsNotExist(err) {
		t.Fatal("expected old generation to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "gen-2")); err != nil {
		t.Fatalf("expected active generation to remain: %v", err)
	}
}

func TestIsStatic(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/index.html", true},
		{"/script.js", true},
		{"/icons/icon-192.png", true},
		{"/api-data", false},
		{"/tasks/sync", false},
	}
	for _, tc := range cases {
		if got := isStatic(tc.path); got != tc.want {
			t.Errorf("isStatic(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
