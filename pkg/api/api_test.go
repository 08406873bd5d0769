package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/system"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingController struct {
	err error
}

func (pingController) BasePath() string { return "ping" }

func (p pingController) Register(rg *gin.RouterGroup) error {
	rg.POST("", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return p.err
}

func (pingController) Handlers() []gin.HandlerFunc { return nil }

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	cfg.Defaults()
	return NewServer(zaptest.NewLogger(t), cfg, true)
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, config.Config{})
	for _, path := range []string{"/health", "/api/health"} {
		w := serve(s, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, config.Config{})
	w := serve(s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "series_registry_subscribers")
}

func TestServer_RegisterAllMountsBothPrefixes(t *testing.T) {
	s := newTestServer(t, config.Config{})
	require.NoError(t, s.RegisterAll([]APIController{pingController{}}))

	for _, path := range []string{"/ping", "/api/ping"} {
		w := serve(s, http.MethodPost, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "pong", w.Body.String())
	}
}

func TestServer_RegisterAllPropagatesErrors(t *testing.T) {
	s := newTestServer(t, config.Config{})
	err := s.RegisterAll([]APIController{pingController{err: errors.New("bad route")}})
	assert.EqualError(t, err, "bad route")
}

func TestServer_NoRouteWithoutFrontend(t *testing.T) {
	s := newTestServer(t, config.Config{})
	w := serve(s, http.MethodGet, "/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found","code":"NOT_FOUND"}`, w.Body.String())
}

func TestServer_FrontendFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>registry</html>"), 0o644))
	s := newTestServer(t, config.Config{Frontend: config.Frontend{Dir: dir}})

	w := serve(s, http.MethodGet, "/abmelden")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "registry")

	w = serve(s, http.MethodGet, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = serve(s, http.MethodPost, "/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CORS(t *testing.T) {
	t.Run("all origins by default", func(t *testing.T) {
		s := newTestServer(t, config.Config{})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://fortbildung.example.org")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		s := newTestServer(t, config.Config{Frontend: config.Frontend{CORSOrigins: []string{"https://allowed.example.org"}}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://allowed.example.org")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, "https://allowed.example.org", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		w = httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestServer_RequestID(t *testing.T) {
	s := newTestServer(t, config.Config{})

	w := serve(s, http.MethodGet, "/health")
	assert.NotEmpty(t, w.Header().Get(system.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(system.RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(system.RequestIDHeader))
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, config.Config{Server: config.Server{ShutdownTimeout: "2s"}})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunFailsOnBusyAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := newTestServer(t, config.Config{Server: config.Server{ListenAddress: ln.Addr().String()}})
	assert.Error(t, s.Run(context.Background()))
}
