// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/mail"
	"github.com/telekom/series-registry/pkg/metrics"
	"github.com/telekom/series-registry/pkg/store"
	"github.com/telekom/series-registry/pkg/system"
	"github.com/telekom/series-registry/pkg/validation"
)

// User-facing result messages.
const (
	MessageRegistered        = "Vielen Dank für Ihre Anmeldung! Sie erhalten in Kürze eine Bestätigungsmail."
	MessageAlreadyRegistered = "Diese E-Mail-Adresse ist bereits angemeldet."
	MessageRemoved           = "Sie wurden erfolgreich abgemeldet. Schade, dass Sie gehen!"
	MessageNotFound          = "Diese E-Mail-Adresse war nicht in unserer Liste."
)

const (
	bodyPreviewLength = 80
	tracerName        = "github.com/telekom/series-registry/pkg/registry"
)

// Outcome describes what a subscribe or unsubscribe call did.
type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeAlreadyRegistered Outcome = "already-registered"
	OutcomeRemoved           Outcome = "removed"
	OutcomeNotFound          Outcome = "not-found"
)

// Store is the persistence used by the Manager.
type Store interface {
	Load(ctx context.Context) ([]store.Subscriber, error)
	Save(ctx context.Context, list []store.Subscriber) error
}

// Notifier sends a single notification. Errors are logged by the Manager and
// never returned to callers.
type Notifier interface {
	Notify(ctx context.Context, kind mail.Kind, email, series string) error
}

// Auditor receives state changes after they were persisted.
type Auditor interface {
	Subscribed(ctx context.Context, email, series string)
	Unsubscribed(ctx context.Context, email, series string)
	BroadcastRequested(ctx context.Context, subject string, recipients int)
}

type noopAuditor struct{}

func (noopAuditor) Subscribed(context.Context, string, string) {}
func (noopAuditor) Unsubscribed(context.Context, string, string) {}
func (noopAuditor) BroadcastRequested(context.Context, string, int) {}

// Result is returned by Subscribe and Unsubscribe on every success path.
type Result struct {
	Email   string
	Message string
	Outcome Outcome
}

// BroadcastRequest selects the audience and content of a notify call.
// A nil Subject or Body falls back to the configured default; an empty
// string is kept. A nil Emails slice means every stored subscriber; an
// empty non-nil slice means nobody.
type BroadcastRequest struct {
	Subject *string
	Body    *string
	Emails  []string
}

type BroadcastResult struct {
	Recipients  int
	Subject     string
	BodyPreview string
}

// Manager runs the subscription workflows. It holds no lock around the
// load-modify-save sequence; concurrent requests for the same address may
// lose updates.
type Manager struct {
	store    Store
	notifier Notifier
	auditor  Auditor
	cfg      config.Registry
	log      *zap.SugaredLogger
	now      func() time.Time
	tracer   trace.Tracer
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for new subscribers.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithAuditor records persisted changes with the given auditor.
func WithAuditor(a Auditor) Option {
	return func(m *Manager) {
		if a != nil {
			m.auditor = a
		}
	}
}

// WithTracerProvider records spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		if tp != nil {
			m.tracer = tp.Tracer(tracerName)
		}
	}
}

func NewManager(s Store, notifier Notifier, cfg config.Registry, log *zap.SugaredLogger, opts ...Option) *Manager {
	m := &Manager{
		store:    s,
		notifier: notifier,
		auditor:  noopAuditor{},
		cfg:      cfg,
		log:      log.Named("registry"),
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe adds email unless it is already stored. The stored entry carries
// seriesTitle or the configured default; notifications get seriesTitle as
// given.
func (m *Manager) Subscribe(ctx context.Context, email, seriesTitle string) (res Result, err error) {
	ctx, span := m.tracer.Start(ctx, "registry.Subscribe")
	defer func() { endSpan(span, res.Outcome, err) }()

	if !validation.IsValidEmail(email) {
		metrics.Subscriptions.WithLabelValues("invalid").Inc()
		return Result{}, &ValidationError{Message: InvalidEmailMessage}
	}

	list, err := m.load(ctx)
	if err != nil {
		return Result{}, err
	}

	if store.Find(list, email) >= 0 {
		metrics.Subscriptions.WithLabelValues("already_registered").Inc()
		m.log.Infow("Subscriber already registered", system.SubscriberFields(email, seriesTitle)...)
		return Result{Email: email, Message: MessageAlreadyRegistered, Outcome: OutcomeAlreadyRegistered}, nil
	}

	stored := seriesTitle
	if stored == "" {
		stored = m.cfg.DefaultSeries
	}
	list = append(list, store.Subscriber{
		Email:       email,
		SeriesTitle: stored,
		CreatedAt:   m.now(),
	})
	if err := m.save(ctx, list); err != nil {
		return Result{}, err
	}
	metrics.Subscriptions.WithLabelValues("registered").Inc()
	m.log.Infow("Subscriber registered", system.SubscriberFields(email, stored)...)
	m.auditor.Subscribed(ctx, email, stored)

	m.notify(ctx, mail.KindOwnerSubscribe, email, seriesTitle)
	m.notify(ctx, mail.KindSubscriberSubscribe, email, seriesTitle)

	return Result{Email: email, Message: MessageRegistered, Outcome: OutcomeRegistered}, nil
}

// Unsubscribe removes email. The filtered collection is saved even when no
// entry matched.
func (m *Manager) Unsubscribe(ctx context.Context, email string) (res Result, err error) {
	ctx, span := m.tracer.Start(ctx, "registry.Unsubscribe")
	defer func() { endSpan(span, res.Outcome, err) }()

	if !validation.IsValidEmail(email) {
		metrics.Unsubscriptions.WithLabelValues("invalid").Inc()
		return Result{}, &ValidationError{Message: InvalidEmailMessage}
	}

	list, err := m.load(ctx)
	if err != nil {
		return Result{}, err
	}

	idx := store.Find(list, email)
	var removed store.Subscriber
	if idx >= 0 {
		removed = list[idx]
	}
	if err := m.save(ctx, store.Without(list, email)); err != nil {
		return Result{}, err
	}

	if idx < 0 {
		metrics.Unsubscriptions.WithLabelValues("not_found").Inc()
		m.log.Infow("Unsubscribe for unknown address", "email", email)
		return Result{Email: email, Message: MessageNotFound, Outcome: OutcomeNotFound}, nil
	}

	metrics.Unsubscriptions.WithLabelValues("removed").Inc()
	m.log.Infow("Subscriber removed", system.SubscriberFields(email, removed.SeriesTitle)...)
	m.auditor.Unsubscribed(ctx, email, removed.SeriesTitle)

	m.notify(ctx, mail.KindOwnerUnsubscribe, email, removed.SeriesTitle)
	m.notify(ctx, mail.KindSubscriberUnsubscribe, email, removed.SeriesTitle)

	return Result{Email: email, Message: MessageRemoved, Outcome: OutcomeRemoved}, nil
}

// Broadcast computes the audience of a notification. Delivery itself is not
// performed; the recipients are logged.
func (m *Manager) Broadcast(ctx context.Context, req BroadcastRequest) (res BroadcastResult, err error) {
	ctx, span := m.tracer.Start(ctx, "registry.Broadcast",
		trace.WithAttributes(attribute.Bool("registry.broadcast.all", req.Emails == nil)))
	defer func() {
		span.SetAttributes(attribute.Int("registry.broadcast.recipients", res.Recipients))
		endSpan(span, "", err)
	}()

	subject := valueOr(req.Subject, m.cfg.NotifySubject)
	body := valueOr(req.Body, m.cfg.NotifyBody)

	recipients := req.Emails
	if recipients == nil {
		list, err := m.load(ctx)
		if err != nil {
			return BroadcastResult{}, err
		}
		recipients = store.Emails(list)
	}

	metrics.BroadcastRequests.Inc()
	metrics.BroadcastRecipients.Add(float64(len(recipients)))
	m.log.Infow("Broadcast requested", "subject", subject, "recipients", recipients)
	m.auditor.BroadcastRequested(ctx, subject, len(recipients))

	return BroadcastResult{
		Recipients:  len(recipients),
		Subject:     subject,
		BodyPreview: preview(body, bodyPreviewLength),
	}, nil
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func (m *Manager) load(ctx context.Context) ([]store.Subscriber, error) {
	list, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	metrics.Subscribers.Set(float64(len(list)))
	return list, nil
}

func (m *Manager) save(ctx context.Context, list []store.Subscriber) error {
	if err := m.store.Save(ctx, list); err != nil {
		return fmt.Errorf("save subscribers: %w", err)
	}
	metrics.Subscribers.Set(float64(len(list)))
	return nil
}

func (m *Manager) notify(ctx context.Context, kind mail.Kind, email, series string) {
	if err := m.notifier.Notify(ctx, kind, email, series); err != nil {
		m.log.Warnw("Notification failed", "kind", kind, "email", email, "error", err)
	}
}

func endSpan(span trace.Span, outcome Outcome, err error) {
	if outcome != "" {
		span.SetAttributes(attribute.String("registry.outcome", string(outcome)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
