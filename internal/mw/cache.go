package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// recordingWriter tees the response body into buf.
type recordingWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// pageKey ignores the order of query parameters.
func pageKey(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.Query().Encode()
}

// ResponseCache keeps successful GET responses until they expire or a
// mutation invalidates them. A response whose handler started before the
// latest invalidation is never stored.
type ResponseCache struct {
	store *cache.Cache
	ttl   time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewResponseCache creates a cache holding pages for ttl. A zero ttl disables it.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (rc *ResponseCache) currentGeneration() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.generation
}

// storeIfCurrent saves page unless an invalidation happened since gen was read.
func (rc *ResponseCache) storeIfCurrent(gen uint64, key string, page cachedPage) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if gen != rc.generation {
		return false
	}
	rc.store.Set(key, page, rc.ttl)
	return true
}

// Flush drops every stored page and outdates responses still being built.
func (rc *ResponseCache) Flush() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.generation++
	rc.store.Flush()
}

// Len returns the number of stored pages.
func (rc *ResponseCache) Len() int {
	return rc.store.ItemCount()
}

// Cache serves and records GET responses.
func (rc *ResponseCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc.ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c.Request)
		if v, ok := rc.store.Get(key); ok {
			page := v.(cachedPage)
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		gen := rc.currentGeneration()
		rec := &recordingWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			rc.storeIfCurrent(gen, key, cachedPage{
				status:      status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.buf.Bytes(),
			})
		}
	}
}

// Invalidate flushes the cache after every successful non-GET request.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rc.Flush()
		}
	}
}
