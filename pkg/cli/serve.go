/*
SPDX-FileCopyrightText: 2025 Deutsche Telekom AG

SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/telekom/series-registry/pkg/api"
	"github.com/telekom/series-registry/pkg/audit"
	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/mail"
	"github.com/telekom/series-registry/pkg/registry"
	"github.com/telekom/series-registry/pkg/store"
	"github.com/telekom/series-registry/pkg/system"
	"github.com/telekom/series-registry/pkg/telemetry"
	"github.com/telekom/series-registry/pkg/version"
)

func NewServeCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := system.NewLogger(debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, path, logger, debug)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug mode")
	return cmd
}

// application is the fully wired process: store, mail, audit, HTTP.
type application struct {
	server *api.Server
	mail   *mail.Service
	audit  *audit.Manager
	log    *zap.SugaredLogger
}

func newApplication(ctx context.Context, cfg config.Config, logger *zap.Logger, debug bool) (*application, error) {
	log := logger.Sugar()

	fs := store.NewFileStore(cfg.Storage.Path, log)
	if err := fs.EnsureExists(ctx); err != nil {
		return nil, err
	}

	mailSvc := mail.NewService(cfg.Mail, cfg.Registry, log)

	auditMgr, err := audit.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up audit: %w", err)
	}

	var opts []registry.Option
	if auditMgr != nil {
		opts = append(opts, registry.WithAuditor(auditMgr))
	}
	manager := registry.NewManager(fs, mailSvc, cfg.Registry, log, opts...)

	server := api.NewServer(logger, cfg, debug)
	if err := server.RegisterAll([]api.APIController{registry.NewController(manager, log)}); err != nil {
		if auditMgr != nil {
			_ = auditMgr.Close()
		}
		return nil, err
	}

	return &application{server: server, mail: mailSvc, audit: auditMgr, log: log}, nil
}

// reload applies a changed configuration. Only the mail transport is
// swapped at runtime; everything else needs a restart.
func (a *application) reload(cfg config.Config) {
	a.mail.Reload(cfg.Mail)
}

func (a *application) close() {
	if a.audit == nil {
		return
	}
	if err := a.audit.Close(); err != nil {
		a.log.Warnw("Failed to close audit manager", "error", err)
	}
}

func runServer(ctx context.Context, cfg config.Config, path string, logger *zap.Logger, debug bool) error {
	log := logger.Sugar()
	log.Infow("Starting series-registry",
		"version", version.Version,
		"listenAddress", cfg.Server.ListenAddress,
		"storagePath", cfg.Storage.Path)

	_, shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, version.Version, log)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warnw("Failed to flush traces", "error", err)
		}
	}()

	app, err := newApplication(ctx, cfg, logger, debug)
	if err != nil {
		return err
	}
	defer app.close()

	if !app.mail.IsEnabled() {
		log.Warn("No mail transport configured, notifications will be skipped")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})
	if watchable(path, log) {
		g.Go(func() error {
			// a broken watcher must not take the server down
			if err := config.Watch(gctx, path, log, app.reload); err != nil {
				log.Warnw("Configuration watcher stopped", "path", path, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func watchable(path string, log *zap.SugaredLogger) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true
	case !errors.Is(err, os.ErrNotExist):
		log.Warnw("Cannot watch configuration file", "path", path, "error", err)
	}
	return false
}
