// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	EventSubscribed         EventType = "subscriber.subscribed"
	EventUnsubscribed       EventType = "subscriber.unsubscribed"
	EventBroadcastRequested EventType = "broadcast.requested"
)

// Severity represents the severity level of an audit event
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Event is a single audit record. Only state-changing outcomes are recorded.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`

	// Email is the subscriber the event is about; empty for broadcasts.
	Email  string `json:"email,omitempty"`
	Series string `json:"seriesTitle,omitempty"`

	Details map[string]interface{} `json:"details,omitempty"`
}

// SeverityForEventType returns the default severity for an event type.
func SeverityForEventType(eventType EventType) Severity {
	switch eventType {
	case EventBroadcastRequested:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
