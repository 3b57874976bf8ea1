package core

import (
	"context"

	"neonpm/pkg/domain"
)

// Read accessors take one snapshot of the document and delegate to the pure
// view functions in pkg/domain.

// Projects lists projects in stored order.
func (s *Service) Projects() []domain.Project { return s.store.ExportState().Projects }

// FilterProjects narrows and orders the project list.
func (s *Service) FilterProjects(f domain.ProjectFilter) []domain.Project {
	return domain.FilterProjects(s.store.ExportState().Projects, f)
}

// ProjectByID resolves one project or returns a *domain.NotFoundError.
func (s *Service) ProjectByID(ctx context.Context, id string) (domain.Project, error) {
	var (
		p  domain.Project
		ok bool
	)
	if err := s.store.View(ctx, func(v domain.TransactionView) error {
		p, ok = v.FindProject(id)
		return nil
	}); err != nil {
		return domain.Project{}, err
	}
	if !ok {
		return domain.Project{}, &domain.NotFoundError{Entity: domain.EntityProject, ID: id}
	}
	return p, nil
}

// Tasks lists every task in stored order.
func (s *Service) Tasks() []domain.Task { return s.store.ExportState().Tasks }

// TasksByProject lists the tasks of one project.
func (s *Service) TasksByProject(projectID string) []domain.Task {
	return domain.TasksByProject(s.store.ExportState(), projectID)
}

// TaskBoard groups tasks into status columns. An empty projectID spans all projects.
func (s *Service) TaskBoard(projectID string) []domain.BoardColumn {
	return domain.TaskBoard(s.store.ExportState(), projectID)
}

// Meetings lists every meeting in stored order.
func (s *Service) Meetings() []domain.Meeting { return s.store.ExportState().Meetings }

// UpcomingMeetings lists meetings dated today or later by the service clock.
func (s *Service) UpcomingMeetings() []domain.Meeting {
	return domain.UpcomingMeetings(s.store.ExportState(), s.Today())
}

// ChatMessages returns the legacy broadcast log.
func (s *Service) ChatMessages() []domain.ChatMessage { return s.store.ExportState().ChatMessages }

// Conversations lists conversations, newest first.
func (s *Service) Conversations() []domain.Conversation { return s.store.ExportState().Conversations }

// ActiveConversation resolves the active pointer.
func (s *Service) ActiveConversation() (domain.Conversation, bool) {
	return domain.ActiveConversation(s.store.ExportState())
}

// Notifications lists notifications, newest first.
func (s *Service) Notifications() []domain.NotificationItem {
	return s.store.ExportState().Notifications
}

// UnreadNotifications lists notifications not yet read.
func (s *Service) UnreadNotifications() []domain.NotificationItem {
	return domain.UnreadNotifications(s.store.ExportState())
}

// TimeLogs lists timesheet entries, newest first.
func (s *Service) TimeLogs() []domain.TimesheetEntry { return s.store.ExportState().Timesheets }

// TimeLogsByProject lists the entries of one project.
func (s *Service) TimeLogsByProject(projectID string) []domain.TimesheetEntry {
	return domain.TimeLogsByProject(s.store.ExportState(), projectID)
}

// HoursByProject sums logged hours per project id.
func (s *Service) HoursByProject() map[string]float64 {
	return domain.HoursByProject(s.store.ExportState())
}

// Users lists the managed directory.
func (s *Service) Users() []domain.UserProfile { return s.store.ExportState().Users }

// SearchUsers filters the directory.
func (s *Service) SearchUsers(f domain.UserFilter) []domain.UserProfile {
	return domain.SearchUsers(s.store.ExportState().Users, f)
}

// AllUsers lists the emails referenced by projects and tasks.
func (s *Service) AllUsers() []string { return domain.AllUsers(s.store.ExportState()) }

// UserStats summarises one person's involvement.
func (s *Service) UserStats(email string) domain.UserStats {
	return domain.StatsForUser(s.store.ExportState(), email)
}

// Dashboard computes the landing-page aggregate as of today.
func (s *Service) Dashboard() domain.Dashboard {
	return domain.DashboardStats(s.store.ExportState(), s.Today())
}
