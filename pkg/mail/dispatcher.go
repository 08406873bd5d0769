package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/metrics"
)

// DeliveryError is returned when the transport rejected a notification.
type DeliveryError struct {
	Kind Kind
	To   string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s notification to %s: %v", e.Kind, e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Dispatcher renders and sends notifications through a single transport.
// A nil sender disables delivery.
type Dispatcher struct {
	sender   Sender
	from     string
	owner    string
	registry config.Registry
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewDispatcher returns a Dispatcher sending from the configured sender
// address. Owner notifications are skipped when cfg has no owner address.
func NewDispatcher(sender Sender, cfg config.Mail, registry config.Registry, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		from:     cfg.SenderAddress(),
		owner:    cfg.OwnerAddress,
		registry: registry,
		log:      log.Named("dispatcher"),
		now:      time.Now,
	}
}

// Enabled reports whether a transport is configured.
func (d *Dispatcher) Enabled() bool {
	return d.sender != nil
}

// Notify sends one notification about email. Missing owner address or
// transport are not errors; the notification is skipped.
func (d *Dispatcher) Notify(ctx context.Context, kind Kind, email, series string) error {
	if kind.ToOwner() && d.owner == "" {
		metrics.MailSkipped.WithLabelValues(string(kind), "no_owner").Inc()
		return nil
	}
	if d.sender == nil {
		d.log.Warnw("No mail transport configured, skipping notification", "kind", kind, "email", email)
		metrics.MailSkipped.WithLabelValues(string(kind), "no_transport").Inc()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify %s: %w", kind, err)
	}

	msg, err := BuildMessage(kind, Params{
		Email:         email,
		Series:        series,
		DefaultSeries: d.registry.DefaultSeries,
		SubjectTag:    d.registry.SubjectTag,
		From:          d.from,
		Owner:         d.owner,
		SentAt:        d.now(),
	})
	if err != nil {
		return err
	}

	host := d.sender.GetHost()
	if err := d.sender.Send(msg); err != nil {
		metrics.MailSendFailure.WithLabelValues(host, string(kind)).Inc()
		return &DeliveryError{Kind: kind, To: msg.To, Err: err}
	}
	metrics.MailSendSuccess.WithLabelValues(host, string(kind)).Inc()
	d.log.Debugw("Notification sent", "kind", kind, "to", msg.To, "host", host)
	return nil
}
