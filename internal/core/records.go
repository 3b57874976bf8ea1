package core

import (
	"context"

	"neonpm/pkg/domain"
)

// AddNotification prepends a notification, unread.
func (s *Service) AddNotification(ctx context.Context, in domain.NotificationInput) (domain.NotificationItem, Result, error) {
	var created domain.NotificationItem
	res, err := s.run(ctx, "add_notification", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateNotification(domain.NotificationItem{Type: in.Type, Title: in.Title, Body: in.Body})
		return err
	})
	return created, res, err
}

// MarkAllNotificationsRead flags every notification read and returns how
// many were unread.
func (s *Service) MarkAllNotificationsRead(ctx context.Context) (int, Result, error) {
	var marked int
	res, err := s.run(ctx, "mark_notifications_read", "", func(tx Transaction) error {
		marked = tx.MarkAllNotificationsRead()
		return nil
	})
	return marked, res, err
}

// AddTimeLog prepends a timesheet entry. An empty user is the signed-in
// user's email.
func (s *Service) AddTimeLog(ctx context.Context, in domain.TimesheetInput) (domain.TimesheetEntry, Result, error) {
	if in.UserEmail == "" {
		in.UserEmail = orDefault(s.actor(ctx).Email, AnonymousEmail)
	}
	var created domain.TimesheetEntry
	res, err := s.run(ctx, "add_time_log", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateTimesheet(domain.TimesheetEntry{
			ProjectID: in.ProjectID,
			UserEmail: in.UserEmail,
			Date:      in.Date,
			Hours:     in.Hours,
			Note:      in.Note,
		})
		return err
	})
	return created, res, err
}

// DeleteTimeLog removes a timesheet entry.
func (s *Service) DeleteTimeLog(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_time_log", id, func(tx Transaction) error {
		return tx.DeleteTimesheet(id)
	})
}

// AddUser prepends a directory entry.
func (s *Service) AddUser(ctx context.Context, in domain.UserInput) (domain.UserProfile, Result, error) {
	in = in.WithDefaults()
	var created domain.UserProfile
	res, err := s.run(ctx, "add_user", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateUser(domain.UserProfile{
			Name:       in.Name,
			Email:      in.Email,
			Role:       in.Role,
			Title:      in.Title,
			Department: in.Department,
			Status:     in.Status,
			AvatarURL:  in.AvatarURL,
		})
		return err
	})
	return created, res, err
}

// UpdateUser merges the present patch fields into a directory entry.
func (s *Service) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.UserProfile, Result, error) {
	var updated domain.UserProfile
	res, err := s.run(ctx, "update_user", id, func(tx Transaction) error {
		if err := patch.Validate(); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateUser(id, patch.Fields(), func(u *domain.UserProfile) error {
			patch.Apply(u)
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteUser removes a directory entry. References in projects and tasks stay.
func (s *Service) DeleteUser(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_user", id, func(tx Transaction) error {
		return tx.DeleteUser(id)
	})
}
