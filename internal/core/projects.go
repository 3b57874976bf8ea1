package core

import (
	"context"
	"slices"
	"strings"

	"neonpm/pkg/domain"
)

// AddProject validates in and appends a new project.
func (s *Service) AddProject(ctx context.Context, in domain.ProjectInput) (domain.Project, Result, error) {
	in = in.WithDefaults()
	var created domain.Project
	res, err := s.run(ctx, "add_project", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateProject(domain.Project{
			Name:        in.Name,
			Description: in.Description,
			Status:      in.Status,
			Priority:    in.Priority,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Assignee:    in.Assignee,
			Reporter:    in.Reporter,
			Team:        strs(in.Team),
			Progress:    in.Progress,
			Labels:      strs(in.Labels),
			Attachments: strs(in.Attachments),
			Comments:    []domain.Comment{},
		})
		return err
	})
	return created, res, err
}

// UpdateProject merges the present patch fields into a project.
func (s *Service) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, Result, error) {
	var updated domain.Project
	res, err := s.run(ctx, "update_project", id, func(tx Transaction) error {
		if err := patch.Validate(); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateProject(id, patch.Fields(), func(p *domain.Project) error {
			patch.Apply(p)
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteProject removes a project and its tasks.
func (s *Service) DeleteProject(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_project", id, func(tx Transaction) error {
		return tx.DeleteProject(id)
	})
}

// AddProjectComment appends a comment. An empty author is the signed-in
// user's email.
func (s *Service) AddProjectComment(ctx context.Context, projectID string, in domain.CommentInput) (domain.Comment, Result, error) {
	if in.Author == "" {
		in.Author = orDefault(s.actor(ctx).Email, AnonymousEmail)
	}
	var created domain.Comment
	res, err := s.run(ctx, "add_project_comment", projectID, func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.AddProjectComment(projectID, domain.Comment{Text: in.Text, Author: in.Author})
		return err
	})
	return created, res, err
}

// AssignUserToProject adds email to the team. Assigning a member twice is a no-op.
func (s *Service) AssignUserToProject(ctx context.Context, projectID, email string) (domain.Project, Result, error) {
	email = strings.TrimSpace(email)
	var project domain.Project
	res, err := s.run(ctx, "assign_project_user", projectID, func(tx Transaction) error {
		if email == "" {
			return &domain.ValidationError{Entity: domain.EntityProject, Field: "team", Reason: "email required"}
		}
		current, ok := tx.Snapshot().FindProject(projectID)
		if !ok {
			return &domain.NotFoundError{Entity: domain.EntityProject, ID: projectID}
		}
		if slices.Contains(current.Team, email) {
			project = current
			return nil
		}
		var err error
		project, err = tx.SetProjectTeam(projectID, append(current.Team, email))
		return err
	})
	return project, res, err
}

// RemoveUserFromProject drops email from the team.
func (s *Service) RemoveUserFromProject(ctx context.Context, projectID, email string) (domain.Project, Result, error) {
	var project domain.Project
	res, err := s.run(ctx, "remove_project_user", projectID, func(tx Transaction) error {
		current, ok := tx.Snapshot().FindProject(projectID)
		if !ok {
			return &domain.NotFoundError{Entity: domain.EntityProject, ID: projectID}
		}
		if !slices.Contains(current.Team, email) {
			project = current
			return nil
		}
		team := slices.DeleteFunc(current.Team, func(m string) bool { return m == email })
		var err error
		project, err = tx.SetProjectTeam(projectID, team)
		return err
	})
	return project, res, err
}

func strs(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
