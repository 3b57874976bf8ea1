// Package document persists the record store as one JSON document in a
// key-value backend. It mirrors the in-memory semantics and snapshots the
// whole document after every committed transaction.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"neonpm/internal/infra/persistence/memory"
	"neonpm/internal/kv"
	"neonpm/pkg/domain"
)

// Compile-time contract assertions ensuring the store satisfies the domain interfaces.
var (
	_ domain.PersistentStore  = (*Store)(nil)
	_ domain.IdentityProvider = (*Store)(nil)
)

const (
	// DefaultKey is the key the record document is saved under.
	DefaultKey = "neonpm-data"
	// UserKey holds the signed-in user written by the authentication collaborator.
	UserKey = "user"
	// CorruptSuffix is appended to the key when an unreadable document is set aside.
	CorruptSuffix = ".corrupt"
	// Version is the envelope version written by this package.
	Version = 1
)

// ErrCorruptDocument is returned by Open in strict mode when the stored
// document cannot be decoded.
var ErrCorruptDocument = errors.New("document: corrupt persisted document")

// Logger receives load-time warnings.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Options configures Open.
type Options struct {
	// Key overrides DefaultKey.
	Key string
	// StrictLoad makes a corrupt document an error instead of a seed fallback.
	StrictLoad bool
	// Seed builds the document used when nothing is stored. Defaults to domain.SeedState.
	Seed   func() domain.State
	Logger Logger
	// Memory configures the wrapped record store (clock, ids, policy).
	Memory []memory.Option
}

// Store wraps the in-memory record store and writes the document to kv
// after every successful transaction.
type Store struct {
	*memory.Store
	kv     kv.Store
	key    string
	seed   func() domain.State
	logger Logger
	mu     sync.Mutex
}

// Open loads the document from backend and returns a ready store. A missing
// or null document yields the seed dataset. A stored document replaces the
// seed field by field: collections it does not carry keep their seed
// records. A corrupt one is backed up under key+CorruptSuffix and also
// yields the seed unless StrictLoad is set.
func Open(ctx context.Context, backend kv.Store, opts Options) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("document: kv store required")
	}
	s := &Store{
		kv:     backend,
		key:    opts.Key,
		seed:   opts.Seed,
		logger: opts.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.seed == nil {
		s.seed = domain.SeedState
	}
	if s.logger == nil {
		s.logger = noopLogger{}
	}
	state, err := s.load(ctx, opts.StrictLoad)
	if err != nil {
		return nil, err
	}
	s.Store = memory.NewStore(append(append([]memory.Option(nil), opts.Memory...), memory.WithState(state))...)
	return s, nil
}

func (s *Store) load(ctx context.Context, strict bool) (domain.State, error) {
	raw, err := s.kv.Load(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return s.seed(), nil
	}
	var (
		state     domain.State
		decodeErr error
		corrupt   *kv.CorruptError
	)
	switch {
	case errors.As(err, &corrupt):
		raw, decodeErr = corrupt.Data, err
	case err != nil:
		return domain.State{}, fmt.Errorf("load %s: %w", s.key, err)
	default:
		state, decodeErr = DecodeOnto(s.seed(), raw)
	}
	if decodeErr == nil {
		return state, nil
	}
	if strict {
		return domain.State{}, fmt.Errorf("%w: %v", ErrCorruptDocument, decodeErr)
	}
	backup, err := s.backupKey(ctx)
	if err != nil {
		return domain.State{}, err
	}
	if err := s.kv.Save(ctx, backup, raw); err != nil {
		return domain.State{}, fmt.Errorf("back up corrupt document: %w", err)
	}
	s.logger.Warn("persisted document unreadable, falling back to seed", "key", s.key, "backup", backup, "error", decodeErr)
	return s.seed(), nil
}

// backupKey picks the first free key+CorruptSuffix[.n] so earlier backups
// are never overwritten.
func (s *Store) backupKey(ctx context.Context) (string, error) {
	base := s.key + CorruptSuffix
	existing, err := s.Backups(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(existing))
	for _, k := range existing {
		taken[k] = true
	}
	key := base
	for n := 1; taken[key]; n++ {
		key = fmt.Sprintf("%s.%d", base, n)
	}
	return key, nil
}

// Backups lists the keys corrupt documents were set aside under.
func (s *Store) Backups(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, s.key+CorruptSuffix)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return keys, nil
}

// Key returns the key the document is saved under.
func (s *Store) Key() string { return s.key }

// KV exposes the backend for integration hooks.
func (s *Store) KV() kv.Store { return s.kv }

// RunInTransaction applies fn on the record store, then saves the document
// if it committed. A save failure is returned; the in-memory commit stands.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// ImportState replaces the document and saves it.
func (s *Store) ImportState(ctx context.Context, state domain.State) error {
	if err := s.Store.ImportState(ctx, state); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Reset removes the saved document and reloads the seed dataset in memory.
// Nothing is written until the next mutation.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return s.Store.ImportState(ctx, s.seed())
}

// Flush saves the current document even if nothing changed.
func (s *Store) Flush(ctx context.Context) error { return s.persist(ctx) }

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := Encode(s.ExportState())
	if err != nil {
		return err
	}
	if err := s.kv.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// CurrentUser reads the signed-in user. Nobody signed in is a zero value
// and a nil error.
func (s *Store) CurrentUser(ctx context.Context) (domain.CurrentUser, error) {
	raw, err := s.kv.Load(ctx, UserKey)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.CurrentUser{}, nil
	}
	if err != nil {
		return domain.CurrentUser{}, fmt.Errorf("load %s: %w", UserKey, err)
	}
	var u domain.CurrentUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.CurrentUser{}, nil
	}
	return u, nil
}

// SetCurrentUser writes the signed-in user record.
func (s *Store) SetCurrentUser(ctx context.Context, u domain.CurrentUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Save(ctx, UserKey, data)
}

// ClearCurrentUser signs the user out.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	_, err := s.kv.Delete(ctx, UserKey)
	return err
}

// Close releases the backend.
func (s *Store) Close() error { return s.kv.Close() }

type envelope struct {
	Version *int            `json:"version,omitempty"`
	State   json.RawMessage `json:"state,omitempty"`
}

type versionedDocument struct {
	Version int          `json:"version"`
	State   domain.State `json:"state"`
}

// Encode renders state as the versioned envelope.
func Encode(state domain.State) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(versionedDocument{Version: Version, State: state.Normalize()}); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a document on its own; fields it does not carry are empty.
func Decode(raw []byte) (domain.State, error) {
	return DecodeOnto(domain.EmptyState(), raw)
}

// DecodeOnto accepts the versioned envelope, the zustand-style
// {"state":...,"version":0} shape and a bare state object, and overlays the
// fields present on base. A null document or state leaves base as is.
func DecodeOnto(base domain.State, raw []byte) (domain.State, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.State{}, fmt.Errorf("decode document: %w", err)
	}
	if env.Version != nil && *env.Version > Version {
		return domain.State{}, fmt.Errorf("decode document: unsupported version %d", *env.Version)
	}
	body := raw
	if len(env.State) > 0 {
		body = env.State
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.State{}, fmt.Errorf("decode state: %w", err)
	}
	state := base.Clone()
	for name, value := range fields {
		if err := overlayField(&state, name, value); err != nil {
			return domain.State{}, fmt.Errorf("decode state %s: %w", name, err)
		}
	}
	return state.Normalize(), nil
}

// overlayField replaces one top-level field of state. Unknown names are
// ignored.
func overlayField(state *domain.State, name string, value json.RawMessage) error {
	switch name {
	case "projects":
		return replace(value, &state.Projects)
	case "tasks":
		return replace(value, &state.Tasks)
	case "meetings":
		return replace(value, &state.Meetings)
	case "chatMessages":
		return replace(value, &state.ChatMessages)
	case "conversations":
		return replace(value, &state.Conversations)
	case "activeConversationId":
		return replace(value, &state.ActiveConversationID)
	case "notifications":
		return replace(value, &state.Notifications)
	case "timesheets":
		return replace(value, &state.Timesheets)
	case "users":
		return replace(value, &state.Users)
	}
	return nil
}

// replace decodes into a fresh value so nothing from the previous one
// survives.
func replace[T any](value json.RawMessage, dst *T) error {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
