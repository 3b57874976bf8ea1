package cli

import (
	"context"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

// NewTaskCommand creates the task command group.
func NewTaskCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTaskListCommand(opts),
		newTaskBoardCommand(opts),
		newTaskAddCommand(opts),
		newTaskUpdateCommand(opts),
		newTaskDeleteCommand(opts),
	)
	return cmd
}

func newTaskListCommand(opts *RootOptions) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				if projectID != "" {
					return svc.TasksByProject(projectID), nil
				}
				return svc.Tasks(), nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "only tasks of this project")
	return cmd
}

func newTaskBoardCommand(opts *RootOptions) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.TaskBoard(projectID), nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "only tasks of this project")
	return cmd
}

func newTaskAddCommand(opts *RootOptions) *cobra.Command {
	var in domain.TaskInput
	var status, priority, taskType string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Status = domain.TaskStatus(status)
			in.Priority = domain.Priority(priority)
			in.Type = domain.TaskType(taskType)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				t, _, err := svc.AddTask(ctx, in)
				return t, err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "task title")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVarP(&in.ProjectID, "project", "p", "", "owning project id")
	f.StringVar(&status, "status", "", "todo|in-progress|review|done")
	f.StringVar(&priority, "priority", "", "low|medium|high|critical")
	f.StringVar(&taskType, "type", "", "story|bug|task|epic")
	f.StringVar(&in.Assignee, "assignee", "", "assignee email")
	f.StringVar(&in.Reporter, "reporter", "", "reporter email")
	f.IntVar(&in.StoryPoints, "points", 0, "story points")
	f.StringVar(&in.DueDate, "due", "", "due date (YYYY-MM-DD)")
	f.Float64Var(&in.EstimatedHours, "estimate", 0, "estimated hours")
	f.StringSliceVar(&in.Labels, "label", nil, "labels")
	return cmd
}

func newTaskUpdateCommand(opts *RootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Patch a task",
		Example: `  neonpm task update 3 --data '{"status":"done"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			if err := decodePatch(data, &patch); err != nil {
				return err
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				t, _, err := svc.UpdateTask(ctx, args[0], patch)
				return t, err
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to change")
	return cmd
}

func newTaskDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteTask(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted task " + args[0]), nil
			})
		},
	}
}
