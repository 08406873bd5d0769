package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Subscription lifecycle metrics
	Subscriptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_subscriptions_total",
		Help: "Total number of subscribe requests by outcome (registered, already_registered, invalid)",
	}, []string{"outcome"})
	Unsubscriptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_unsubscriptions_total",
		Help: "Total number of unsubscribe requests by outcome (removed, not_found, invalid)",
	}, []string{"outcome"})
	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "series_registry_subscribers",
		Help: "Number of subscribers in the store as of the last load or save",
	})
	BroadcastRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "series_registry_broadcast_requests_total",
		Help: "Total number of broadcast requests",
	})
	BroadcastRecipients = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "series_registry_broadcast_recipients_total",
		Help: "Total number of recipients computed across broadcast requests",
	})

	// Store metrics
	StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_store_errors_total",
		Help: "Total number of subscriber store failures by operation (load, save)",
	}, []string{"op"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host", "kind"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host", "kind"})
	MailSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_mail_skipped_total",
		Help: "Total number of notifications skipped (no_transport, no_owner)",
	}, []string{"kind", "reason"})
	MailReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_mail_reloads_total",
		Help: "Total number of mail transport reloads by result",
	}, []string{"result"})

	// Audit metrics
	AuditEventsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "series_registry_audit_events_processed_total",
		Help: "Total number of audit events written to sinks",
	})
	AuditEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "series_registry_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full or closed",
	})
	AuditSinkErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "series_registry_audit_sink_errors_total",
		Help: "Total number of audit sink write failures",
	}, []string{"sink"})
)

func init() {
	prometheus.MustRegister(Subscriptions)
	prometheus.MustRegister(Unsubscriptions)
	prometheus.MustRegister(Subscribers)
	prometheus.MustRegister(BroadcastRequests)
	prometheus.MustRegister(BroadcastRecipients)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSkipped)
	prometheus.MustRegister(MailReloads)
	prometheus.MustRegister(AuditEventsProcessed)
	prometheus.MustRegister(AuditEventsDropped)
	prometheus.MustRegister(AuditSinkErrors)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
