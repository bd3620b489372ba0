package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// staticExts are the asset extensions served cache-first. Anything else is
// fetched network-first with the cache as a fallback.
var staticExts = map[string]bool{
	".html":  true,
	".css":   true,
	".js":    true,
	".json":  true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".svg":   true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
}

// cachedMeta is the sidecar record stored next to each cached body.
type cachedMeta struct {
	Key         string    `json:"key"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Cache is an offline-capable asset proxy. Requests are keyed by path (or
// full URL for external assets) and stored under a generation-named
// directory; bumping the generation and activating discards older entries.
type Cache struct {
	mu         sync.Mutex
	dir        string // root cache directory, one subdirectory per generation
	generation string
	origin     *url.URL
	client     *http.Client
}

// NewCache creates a Cache proxying the given origin. Origin may be empty,
// in which case only preloaded and previously cached entries are served.
func NewCache(dir, generation, origin string) (*Cache, error) {
	c := &Cache{
		dir:        dir,
		generation: generation,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	if origin != "" {
		u, err := url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin: %w", err)
		}
		c.origin = u
	}
	if err := os.MkdirAll(c.genDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return c, nil
}

func (c *Cache) genDir() string {
	return filepath.Join(c.dir, c.generation)
}

// Generation returns the active cache generation name.
func (c *Cache) Generation() string {
	return c.generation
}

// Install preloads the app shell paths and external URLs into the cache.
// Failures are logged per asset; a cold cache is not fatal.
func (c *Cache) Install(ctx context.Context, shell, external []string) {
	for _, p := range shell {
		if err := c.preload(ctx, p); err != nil {
			slog.Warn("cache: preload failed", "asset", p, "error", err)
		}
	}
	for _, u := range external {
		if err := c.preload(ctx, u); err != nil {
			slog.Warn("cache: preload failed", "asset", u, "error", err)
		}
	}
	slog.Info("cache installed", "generation", c.generation, "shell", len(shell), "external", len(external))
}

// Activate removes every generation directory except the active one.
func (c *Cache) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.generation {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("remove old generation %s: %w", e.Name(), err)
		}
		slog.Info("cache: removed old generation", "name", e.Name())
	}
	return nil
}

// ServeHTTP serves one asset request using the strategy for its path.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.URL.Path
	if isStatic(key) {
		c.cacheFirst(r.Context(), w, key)
		return
	}
	c.networkFirst(r.Context(), w, key)
}

// isStatic reports whether the path is an app shell asset: the root path or
// a file with a known static extension.
func isStatic(p string) bool {
	if p == "/" {
		return true
	}
	return staticExts[strings.ToLower(path.Ext(p))]
}

// cacheFirst serves from cache, falling back to the network and storing the
// response for next time.
func (c *Cache) cacheFirst(ctx context.Context, w http.ResponseWriter, key string) {
	if meta, body, err := c.get(key); err == nil {
		writeCached(w, meta, body)
		return
	}

	meta, body, err := c.fetchAndStore(ctx, key)
	if err != nil {
		c.serveOffline(w)
		return
	}
	writeCached(w, meta, body)
}

// networkFirst fetches from the network, refreshing the cache, and serves the
// cached copy only when the network is unavailable.
func (c *Cache) networkFirst(ctx context.Context, w http.ResponseWriter, key string) {
	meta, body, err := c.fetchAndStore(ctx, key)
	if err == nil {
		writeCached(w, meta, body)
		return
	}

	if meta, body, err := c.get(key); err == nil {
		writeCached(w, meta, body)
		return
	}
	c.serveOffline(w)
}

func (c *Cache) serveOffline(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	io.WriteString(w, "Offline")
}

func writeCached(w http.ResponseWriter, meta cachedMeta, body []byte) {
	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	w.WriteHeader(meta.Status)
	w.Write(body)
}

// preload fetches one asset (path or absolute URL) into the cache.
func (c *Cache) preload(ctx context.Context, key string) error {
	_, _, err := c.fetchAndStore(ctx, key)
	return err
}

// fetchAndStore retrieves the asset from the network and caches successful
// responses. Only 2xx responses are stored.
func (c *Cache) fetchAndStore(ctx context.Context, key string) (cachedMeta, []byte, error) {
	target, err := c.resolve(key)
	if err != nil {
		return cachedMeta{}, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return cachedMeta{}, nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return cachedMeta{}, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cachedMeta{}, nil, err
	}

	meta := cachedMeta{
		Key:         key,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FetchedAt:   time.Now(),
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := c.put(key, meta, body); err != nil {
			slog.Warn("cache: store failed", "key", key, "error", err)
		}
	}
	return meta, body, nil
}

// resolve turns a cache key into a fetchable URL. Absolute URLs pass
// through; paths are joined to the configured origin.
func (c *Cache) resolve(key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	if c.origin == nil {
		return "", fmt.Errorf("no origin configured for %s", key)
	}
	u := *c.origin
	u.Path = path.Join(u.Path, key)
	if strings.HasSuffix(key, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

func (c *Cache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.genDir(), hex.EncodeToString(sum[:16]))
}

// put writes the body and its meta sidecar atomically (tmp then rename).
func (c *Cache) put(key string, meta cachedMeta, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.entryPath(key)
	if err := writeAtomic(base+".body", body); err != nil {
		return err
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(base+".json", metaData)
}

// get loads a cached entry. Missing entries return an error.
func (c *Cache) get(key string) (cachedMeta, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.entryPath(key)
	metaData, err := os.ReadFile(base + ".json")
	if err != nil {
		return cachedMeta{}, nil, err
	}
	var meta cachedMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return cachedMeta{}, nil, err
	}
	body, err := os.ReadFile(base + ".body")
	if err != nil {
		return cachedMeta{}, nil, err
	}
	return meta, body, nil
}

func writeAtomic(dest string, data []byte) error {
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}
