// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Sink is a destination for audit events.
type Sink interface {
	Write(ctx context.Context, event *Event) error
	Close() error
	Name() string
}

// LogSink records events in the process log. It is always part of the sink
// set so audit history survives even when no external sink is reachable.
type LogSink struct {
	log *zap.SugaredLogger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{log: logger.Named("audit").Sugar()}
}

func (s *LogSink) Write(_ context.Context, event *Event) error {
	kv := []interface{}{
		"eventID", event.ID,
		"type", event.Type,
		"severity", event.Severity,
		"at", event.Timestamp,
	}
	if event.Email != "" {
		kv = append(kv, "email", event.Email)
	}
	if event.Series != "" {
		kv = append(kv, "series", event.Series)
	}
	for k, v := range event.Details {
		kv = append(kv, k, v)
	}
	s.log.Infow("Audit event", kv...)
	return nil
}

func (s *LogSink) Close() error { return nil }

func (s *LogSink) Name() string { return "log" }

// MultiSink fans an event out to every configured sink. One failing sink
// never keeps the event from the others.
type MultiSink struct {
	sinks []Sink
	log   *zap.SugaredLogger
}

func NewMultiSink(sinks []Sink, logger *zap.Logger) *MultiSink {
	return &MultiSink{sinks: sinks, log: logger.Sugar()}
}

// Write returns the joined errors of all failing sinks.
func (s *MultiSink) Write(ctx context.Context, event *Event) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, event); err != nil {
			s.log.Warnw("Audit sink write failed", "sink", sink.Name(), "eventID", event.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s sink: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *MultiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *MultiSink) Name() string { return "multi" }
