package offline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBypassPrefixes are the path prefixes that must never be served from
// cache: stale auth or checkout responses are worse than an error.
var DefaultBypassPrefixes = []string{"/auth", "/checkout", "/payment"}

var staticExtensions = map[string]bool{
	".js":    true,
	".css":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".svg":   true,
	".webp":  true,
	".ico":   true,
}

// Transport wraps an http.RoundTripper with the three caching strategies.
// Non-GET requests always pass through.
type Transport struct {
	next   http.RoundTripper
	cache  Cache
	bypass []string
	sfg    singleflight.Group
	logger *zap.Logger
}

func NewTransport(next http.RoundTripper, cache Cache, logger *zap.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		next:   next,
		cache:  cache,
		bypass: DefaultBypassPrefixes,
		logger: logger,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.bypassed(req.URL.Path) {
		return t.next.RoundTrip(req)
	}

	key := req.URL.String()
	if isStaticAsset(req.URL.Path) {
		return t.cacheFirst(req, key)
	}
	return t.networkFirst(req, key)
}

func (t *Transport) cacheFirst(req *http.Request, key string) (*http.Response, error) {
	if entry, err := t.cache.Get(key); err == nil {
		return entry.response(req), nil
	}
	entry, err := t.fetch(req, key)
	if err != nil {
		// Network down and nothing fresh: a stale asset beats a broken page.
		if stale, serr := t.cache.GetStale(key); serr == nil {
			return stale.response(req), nil
		}
		return nil, err
	}
	return entry.response(req), nil
}

func (t *Transport) networkFirst(req *http.Request, key string) (*http.Response, error) {
	entry, err := t.fetch(req, key)
	if err == nil {
		return entry.response(req), nil
	}
	if stale, serr := t.cache.GetStale(key); serr == nil {
		t.logger.Info("serving cached response after network failure", zap.String("url", key))
		return stale.response(req), nil
	}
	return nil, err
}

// fetch performs the network round trip, deduplicating concurrent requests
// for the same URL. Only 200 responses are written to the cache.
func (t *Transport) fetch(req *http.Request, key string) (*Entry, error) {
	v, err, _ := t.sfg.Do(key, func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		entry := &Entry{
			Status: resp.StatusCode,
			Header: resp.Header.Clone(),
			Body:   body,
		}
		if resp.StatusCode == http.StatusOK {
			if err := t.cache.Put(key, entry); err != nil {
				t.logger.Warn("cache write failed", zap.String("url", key), zap.Error(err))
			}
		}
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

func (t *Transport) bypassed(p string) bool {
	for _, prefix := range t.bypass {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func isStaticAsset(p string) bool {
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

func (e *Entry) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
