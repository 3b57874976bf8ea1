// Package memory provides the in-memory transactional record store. Every
// mutation runs against a clone of the current document; a successful
// transaction replaces the document wholesale.
package memory

import (
	"context"
	"sync"
	"time"

	"neonpm/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// State aliases domain.State, the whole persisted document.
	State = domain.State
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing a committed transaction.
	Result = domain.Result
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// Store provides an in-memory transactional store for the record document.
type Store struct {
	mu     sync.RWMutex
	state  State
	policy *domain.NotificationPolicy
	nowFn  func() time.Time
	newID  IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPolicy replaces the notification rule table. A nil policy disables
// synthesized notifications.
func WithPolicy(policy *domain.NotificationPolicy) Option {
	return func(s *Store) { s.policy = policy }
}

// WithState seeds the store with an initial document.
func WithState(state State) Option {
	return func(s *Store) { s.state = state.Clone().Normalize() }
}

// NewStore constructs an empty store with the default notification rules,
// short ids and the wall clock.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:  domain.EmptyState(),
		policy: domain.NewNotificationPolicy(domain.DefaultNotificationRules()...),
		nowFn:  func() time.Time { return time.Now().UTC() },
		newID:  ShortID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ImportState replaces the store state with the provided document.
func (s *Store) ImportState(_ context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone().Normalize()
	return nil
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// Policy exposes the notification policy so callers can register rules.
func (s *Store) Policy() *domain.NotificationPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// RunInTransaction applies fn to a clone of the document and commits the
// clone when fn succeeds. Mutations are serialized by the store mutex.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res, err := Apply(s.state, s.nowFn(), s.newID, s.policy, fn)
	if err != nil {
		return Result{}, err
	}
	s.state = next
	return res, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.Clone()
	s.mu.RUnlock()
	return fn(newTransactionView(&snapshot))
}

// Apply is the pure transition function behind RunInTransaction: it runs fn
// against a clone of state and returns the next document. Notifications the
// policy derives from the recorded changes are prepended in change order, so
// the last mutation's notification ends up first. On error the input state
// is the state to keep.
func Apply(state State, now time.Time, ids IDGenerator, policy *domain.NotificationPolicy, fn func(Transaction) error) (State, Result, error) {
	if ids == nil {
		ids = ShortID
	}
	tx := &transaction{
		state: state.Clone().Normalize(),
		now:   now,
		newID: ids,
	}
	if err := fn(tx); err != nil {
		return state, Result{}, err
	}
	res := Result{Changes: tx.changes}
	for _, in := range policy.Evaluate(tx.changes) {
		item := domain.NotificationItem{ID: ids(), Type: in.Type, Title: in.Title, Body: in.Body, CreatedAt: now}
		tx.state.Notifications = prepend(tx.state.Notifications, item)
		res.Notifications = append(res.Notifications, item)
	}
	return tx.state, res, nil
}

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}
