package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/metrics"
)

const (
	defaultQueueSize    = 1000
	defaultWorkerCount  = 2
	defaultWriteTimeout = 5 * time.Second
)

type ManagerConfig struct {
	QueueSize    int
	WorkerCount  int
	WriteTimeout time.Duration
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		QueueSize:    defaultQueueSize,
		WorkerCount:  defaultWorkerCount,
		WriteTimeout: defaultWriteTimeout,
	}
}

// ManagerStats is a point-in-time snapshot of the queue counters.
type ManagerStats struct {
	QueuedEvents    int64
	ProcessedEvents int64
	DroppedEvents   int64
	QueueLength     int
	QueueCapacity   int
}

// Manager hands audit events to a sink from a bounded queue. Emit never
// blocks the request path: events that do not fit are dropped and counted.
type Manager struct {
	sink    Sink
	cfg     ManagerConfig
	log     *zap.SugaredLogger
	events  chan *Event
	workers sync.WaitGroup

	// mu guards closed and the send on events against Close.
	mu     sync.RWMutex
	closed bool

	queued, processed, dropped atomic.Int64
}

func NewManager(sink Sink, cfg ManagerConfig, logger *zap.Logger) *Manager {
	def := DefaultManagerConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	m := &Manager{
		sink:   sink,
		cfg:    cfg,
		log:    logger.Named("audit").Sugar(),
		events: make(chan *Event, cfg.QueueSize),
	}
	m.workers.Add(cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		go m.run()
	}
	m.log.Infow("Audit manager started", "sink", sink.Name(), "queueSize", cfg.QueueSize, "workers", cfg.WorkerCount)
	return m
}

// Emit stamps missing ID, timestamp and severity and queues the event.
func (m *Manager) Emit(_ context.Context, event *Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		m.drop(event, "closed")
		return
	}
	stamp(event)

	select {
	case m.events <- event:
		m.queued.Add(1)
	default:
		m.drop(event, "queue full")
	}
}

func stamp(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Severity == "" {
		event.Severity = SeverityForEventType(event.Type)
	}
}

func (m *Manager) drop(event *Event, reason string) {
	m.dropped.Add(1)
	metrics.AuditEventsDropped.Inc()
	m.log.Warnw("Dropping audit event", "reason", reason, "type", event.Type)
}

func (m *Manager) run() {
	defer m.workers.Done()
	for event := range m.events {
		m.write(event)
	}
}

func (m *Manager) write(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.WriteTimeout)
	defer cancel()

	if err := m.sink.Write(ctx, event); err != nil {
		metrics.AuditSinkErrors.WithLabelValues(m.sink.Name()).Inc()
		m.log.Errorw("Failed to write audit event", "eventID", event.ID, "type", event.Type, "error", err)
		return
	}
	m.processed.Add(1)
	metrics.AuditEventsProcessed.Inc()
}

// Close stops accepting events, waits for the queue to drain and closes the
// sink. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.events)
	m.mu.Unlock()

	m.workers.Wait()
	m.log.Infow("Audit manager stopped", "processed", m.processed.Load(), "dropped", m.dropped.Load())
	return m.sink.Close()
}

func (m *Manager) Stats() ManagerStats {
	return ManagerStats{
		QueuedEvents:    m.queued.Load(),
		ProcessedEvents: m.processed.Load(),
		DroppedEvents:   m.dropped.Load(),
		QueueLength:     len(m.events),
		QueueCapacity:   cap(m.events),
	}
}

// Subscribed records a newly stored subscriber.
func (m *Manager) Subscribed(ctx context.Context, email, series string) {
	m.Emit(ctx, &Event{Type: EventSubscribed, Email: email, Series: series})
}

// Unsubscribed records a removed subscriber.
func (m *Manager) Unsubscribed(ctx context.Context, email, series string) {
	m.Emit(ctx, &Event{Type: EventUnsubscribed, Email: email, Series: series})
}

// BroadcastRequested records a notify request and the size of its audience.
func (m *Manager) BroadcastRequested(ctx context.Context, subject string, recipients int) {
	m.Emit(ctx, &Event{
		Type:    EventBroadcastRequested,
		Details: map[string]interface{}{"subject": subject, "recipients": recipients},
	})
}
