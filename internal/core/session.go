package core

import (
	"context"
	"errors"

	"neonpm/pkg/domain"
)

// ErrSessionUnsupported is returned when the store cannot hold a signed-in user.
var ErrSessionUnsupported = errors.New("store does not persist a signed-in user")

type sessionStore interface {
	domain.IdentityProvider
	SetCurrentUser(ctx context.Context, u domain.CurrentUser) error
	ClearCurrentUser(ctx context.Context) error
}

type resettableStore interface {
	Reset(ctx context.Context) error
}

// CurrentUser returns the signed-in user, a zero value when nobody is
// signed in or the store keeps no session.
func (s *Service) CurrentUser(ctx context.Context) (domain.CurrentUser, error) {
	ip, ok := s.store.(domain.IdentityProvider)
	if !ok {
		return domain.CurrentUser{}, nil
	}
	return ip.CurrentUser(ctx)
}

// SignIn records u as the signed-in user.
func (s *Service) SignIn(ctx context.Context, u domain.CurrentUser) error {
	ss, ok := s.store.(sessionStore)
	if !ok {
		return ErrSessionUnsupported
	}
	if u.IsZero() {
		return &domain.ValidationError{Entity: domain.EntityUser, Field: "email", Reason: "required"}
	}
	s.logger.Info("user signed in", "email", u.Email)
	return ss.SetCurrentUser(ctx, u)
}

// SignOut forgets the signed-in user.
func (s *Service) SignOut(ctx context.Context) error {
	ss, ok := s.store.(sessionStore)
	if !ok {
		return ErrSessionUnsupported
	}
	s.logger.Info("user signed out")
	return ss.ClearCurrentUser(ctx)
}

// Reset discards every record and returns to the seed dataset.
func (s *Service) Reset(ctx context.Context) error {
	if rs, ok := s.store.(resettableStore); ok {
		if err := rs.Reset(ctx); err != nil {
			return err
		}
	} else if err := s.store.ImportState(ctx, domain.SeedState()); err != nil {
		return err
	}
	s.logger.Info("records reset to seed data")
	return nil
}

// Import replaces the whole document.
func (s *Service) Import(ctx context.Context, state domain.State) error {
	if err := s.store.ImportState(ctx, state); err != nil {
		return err
	}
	s.logger.Info("records imported", "projects", len(state.Projects), "tasks", len(state.Tasks))
	return nil
}

// Export returns a copy of the whole document.
func (s *Service) Export() domain.State {
	return s.store.ExportState()
}

// actor returns the signed-in user, falling back to the zero value on error.
func (s *Service) actor(ctx context.Context) domain.CurrentUser {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("current user unavailable", "error", err)
		return domain.CurrentUser{}
	}
	return u
}
