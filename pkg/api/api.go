package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/apiresponses"
	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/metrics"
	"github.com/telekom/series-registry/pkg/system"
	"github.com/telekom/series-registry/pkg/telemetry"
)

// apiPrefix is the second mount point of every controller; the bundled
// frontend calls the endpoints below it.
const apiPrefix = "api"

type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

type Server struct {
	gin    *gin.Engine
	config config.Config
	log    *zap.Logger
}

func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		telemetry.Middleware(),
		cors.New(corsConfig(cfg.Frontend)),
		system.RequestLogger(log.Sugar()),
	)

	if cfg.Frontend.Dir != "" {
		spa := ServeSPA("/", cfg.Frontend.Dir)
		engine.NoRoute(func(c *gin.Context) {
			if isAPIPath(c.Request.URL.Path) {
				apiresponses.RespondNotFoundSimple(c, "route not found")
				return
			}
			spa(c)
		})
	} else {
		engine.NoRoute(func(c *gin.Context) {
			apiresponses.RespondNotFoundSimple(c, "route not found")
		})
	}

	s := &Server{
		gin:    engine,
		config: cfg,
		log:    log.Named("api"),
	}

	for _, prefix := range []string{"", apiPrefix} {
		engine.GET(prefix+"/health", s.health)
	}
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

func corsConfig(fe config.Frontend) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", system.RequestIDHeader, "traceparent", "tracestate"},
		MaxAge:       12 * time.Hour,
	}
	if len(fe.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = fe.CORSOrigins
	}
	return c
}

func isAPIPath(path string) bool {
	return path == "/"+apiPrefix || strings.HasPrefix(path, "/"+apiPrefix+"/")
}

// RegisterAll mounts every controller at the root and below /api.
func (s *Server) RegisterAll(controllers []APIController) error {
	for _, prefix := range []string{"", apiPrefix} {
		r := s.gin.Group(prefix)
		for _, c := range controllers {
			if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		tlsCert, tlsKey := s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile
		s.log.Info("HTTP server listening",
			zap.String("address", ln.Addr().String()),
			zap.Bool("tls", tlsCert != "" && tlsKey != ""))
		if tlsCert != "" && tlsKey != "" {
			errCh <- srv.ServeTLS(ln, tlsCert, tlsKey)
			return
		}
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type healthResponse struct {
	OK bool `json:"ok"`
}

func (s *Server) health(c *gin.Context) {
	apiresponses.RespondOK(c, healthResponse{OK: true})
}
