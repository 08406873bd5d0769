// SPA fallback adapted from github.com/mandrigin/gin-spa (MIT).

package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const (
	cacheImmutable   = "public, max-age=31536000, immutable"
	cacheRevalidate  = "no-cache, must-revalidate"
	cacheShortLived  = "public, max-age=3600, must-revalidate"
	frontendIndexURL = "/"
)

// cachePolicy picks the Cache-Control value for a frontend path. Built
// assets under /assets/ carry content hashes; HTML must always revalidate.
func cachePolicy(path string) string {
	switch {
	case strings.HasPrefix(path, "/assets/"):
		return cacheImmutable
	case path == frontendIndexURL, strings.HasSuffix(path, ".html"):
		return cacheRevalidate
	default:
		return cacheShortLived
	}
}

// cacheHeaderWriter sets Cache-Control right before the status line goes out.
type cacheHeaderWriter struct {
	http.ResponseWriter
	policy string
	sent   bool
}

func (w *cacheHeaderWriter) WriteHeader(code int) {
	if !w.sent {
		w.sent = true
		w.Header().Set("Cache-Control", w.policy)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheHeaderWriter) Write(b []byte) (int, error) {
	if !w.sent {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// ServeSPA serves files from dir below urlPrefix. Paths that match no file
// get index.html so the frontend's client-side routes (/abmelden) resolve.
// Anything other than GET and HEAD is answered with 404.
func ServeSPA(urlPrefix, dir string) gin.HandlerFunc {
	files := static.LocalFile(dir, true)
	handler := http.FileServer(files)
	if urlPrefix != "" {
		handler = http.StripPrefix(urlPrefix, handler)
	}

	return func(c *gin.Context) {
		defer c.Abort()
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
		default:
			c.Status(http.StatusNotFound)
			return
		}

		path := c.Request.URL.Path
		if !files.Exists(urlPrefix, path) {
			path = frontendIndexURL
			c.Request.URL.Path = path
		}
		handler.ServeHTTP(&cacheHeaderWriter{ResponseWriter: c.Writer, policy: cachePolicy(path)}, c.Request)
	}
}
