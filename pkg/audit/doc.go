// Package audit records subscription lifecycle events and forwards them
// asynchronously to the configured sinks (log, Kafka, webhook).
package audit
