// Package metrics defines Prometheus metrics for the series registry,
// covering subscription outcomes, the subscriber store, mail delivery,
// broadcast requests and the audit pipeline.
package metrics
