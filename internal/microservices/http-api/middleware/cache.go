package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"commentshub/internal/microservices/http-api/cache"

	"github.com/gin-gonic/gin"
)

const cacheHeader = "X-Cache"

// captureWriter copies the body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey is prefix:sha1(path?query) with the query parameters sorted.
func CacheKey(prefix string, r *http.Request) string {
	// Encode sorts by key
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.Query().Encode()))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache serves successful GET responses from store for ttl. Entries
// are never invalidated by writes. A failing store is skipped.
func ResponseCache(store cache.Store, ttl time.Duration, prefix string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheKey(prefix, c.Request)
		entry, err := store.Get(c.Request.Context(), key)
		if err == nil {
			c.Header(cacheHeader, "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("response cache read failed", "key", key, "error", err)
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header(cacheHeader, "MISS")

		c.Next()

		if cw.Status() != http.StatusOK {
			return
		}
		entry = &cache.Entry{
			Status:      http.StatusOK,
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		}
		// the request context may already be cancelled by the time we get here
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Set(ctx, key, entry, ttl); err != nil {
			logger.Warn("response cache write failed", "key", key, "error", err)
		}
	}
}
