package core

import (
	"context"

	"neonpm/pkg/domain"
)

// AddTask validates in and appends a new task. The project reference is
// stored as given.
func (s *Service) AddTask(ctx context.Context, in domain.TaskInput) (domain.Task, Result, error) {
	in = in.WithDefaults()
	var created domain.Task
	res, err := s.run(ctx, "add_task", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateTask(domain.Task{
			Title:          in.Title,
			Description:    in.Description,
			Status:         in.Status,
			Priority:       in.Priority,
			Type:           in.Type,
			Assignee:       in.Assignee,
			Reporter:       in.Reporter,
			ProjectID:      in.ProjectID,
			StoryPoints:    in.StoryPoints,
			Labels:         strs(in.Labels),
			DueDate:        in.DueDate,
			EstimatedHours: in.EstimatedHours,
			TimeLogged:     in.TimeLogged,
			Attachments:    strs(in.Attachments),
			Comments:       []domain.Comment{},
		})
		return err
	})
	return created, res, err
}

// UpdateTask merges the present patch fields into a task.
func (s *Service) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, Result, error) {
	var updated domain.Task
	res, err := s.run(ctx, "update_task", id, func(tx Transaction) error {
		if err := patch.Validate(); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateTask(id, patch.Fields(), func(t *domain.Task) error {
			patch.Apply(t)
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_task", id, func(tx Transaction) error {
		return tx.DeleteTask(id)
	})
}
