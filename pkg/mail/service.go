// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/metrics"
)

// Service owns the active Dispatcher and swaps it when the mail
// configuration changes.
type Service struct {
	registry config.Registry
	logger   *zap.SugaredLogger

	mu         sync.RWMutex
	dispatcher *Dispatcher
}

// NewService creates a Service using the given mail configuration. Mail is
// disabled when no transport is configured.
func NewService(cfg config.Mail, registry config.Registry, logger *zap.SugaredLogger) *Service {
	s := &Service{
		registry: registry,
		logger:   logger.Named("mail-service"),
	}
	s.Reload(cfg)
	return s
}

// Reload rebuilds the transport from cfg. Notifications already in flight
// finish on the previous dispatcher.
func (s *Service) Reload(cfg config.Mail) {
	d := NewDispatcher(BuildTransport(cfg, s.logger), cfg, s.registry, s.logger)

	s.mu.Lock()
	s.dispatcher = d
	s.mu.Unlock()

	if d.Enabled() {
		metrics.MailReloads.WithLabelValues("enabled").Inc()
		s.logger.Infow("Mail service loaded", "from", cfg.SenderAddress(), "ownerConfigured", cfg.OwnerAddress != "")
		return
	}
	metrics.MailReloads.WithLabelValues("disabled").Inc()
	s.logger.Warn("No mail transport configured - mail notifications disabled")
}

// IsEnabled returns true if a mail transport is configured.
func (s *Service) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatcher.Enabled()
}

// Notify delegates to the current dispatcher.
func (s *Service) Notify(ctx context.Context, kind Kind, email, series string) error {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	return d.Notify(ctx, kind, email, series)
}
