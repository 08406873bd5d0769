// Package mail delivers subscription notifications over SMTP.
//
// It resolves the outbound transport from configuration, renders the four
// notification kinds from embedded text templates and dispatches a single
// delivery attempt per message. Delivery failures are reported to the caller
// and never retried.
package mail
