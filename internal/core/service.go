// Package core exposes the record operations as a transactional service.
// Every operation runs in one store transaction and is traced, timed,
// audited and logged through the configured collaborators.
package core

import (
	"context"
	"strings"
	"time"

	"neonpm/internal/infra/persistence/memory"
	"neonpm/pkg/domain"
)

// DefaultMeetingLinkBase prefixes the links generated by StartMeeting.
const DefaultMeetingLinkBase = "https://meet.neonpm.com"

// Placeholders substituted when nobody is signed in.
const (
	AnonymousEmail  = "anonymous@example.com"
	AnonymousSender = "Anonymous"
)

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
	Result          = domain.Result
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Service exposes higher-level transactional operations over the record document.
type Service struct {
	store    PersistentStore
	logger   Logger
	clock    Clock
	metrics  MetricsRecorder
	tracer   Tracer
	audit    AuditRecorder
	linkBase string
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the operation logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for today's date and audit timestamps.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMetricsRecorder sets the operation metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the span tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(a AuditRecorder) Option {
	return func(s *Service) {
		if a != nil {
			s.audit = a
		}
	}
}

// WithMeetingLinkBase overrides DefaultMeetingLinkBase.
func WithMeetingLinkBase(base string) Option {
	return func(s *Service) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			s.linkBase = base
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   noopLogger{},
		clock:    ClockFunc(func() time.Time { return time.Now().UTC() }),
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		audit:    noopAudit{},
		linkBase: DefaultMeetingLinkBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store seeded
// with the demo dataset. The store stamps records with the service clock.
func NewInMemoryService(opts ...Option) *Service {
	s := NewService(nil, opts...)
	s.store = memory.NewStore(
		memory.WithClock(s.clock.Now),
		memory.WithState(domain.SeedState()),
	)
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Today renders the clock's UTC date as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.clock.Now().UTC().Format(time.DateOnly)
}

// run executes fn in a store transaction with tracing, metrics, audit and logging.
func (s *Service) run(ctx context.Context, op, entityID string, fn func(Transaction) error) (Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	start := time.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	elapsed := time.Since(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	span.End(err)
	if entityID == "" && len(res.Changes) > 0 {
		entityID = res.Changes[0].ID
	}
	if err != nil {
		s.logger.Error("operation failed", "op", op, "id", entityID, "error", err)
		s.recordAuditError(ctx, op, entityID, elapsed, err)
		return res, err
	}
	s.logger.Debug("operation committed", "op", op, "id", entityID, "changes", len(res.Changes), "notifications", len(res.Notifications))
	s.recordAuditSuccess(ctx, op, entityID, elapsed)
	return res, nil
}
