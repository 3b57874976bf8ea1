package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

// decodePatch parses a --data JSON object into dst.
func decodePatch(data string, dst any) error {
	if data == "" {
		return NewExitError(ExitCommandError, "--data is required")
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return WrapExitError(ExitCommandError, "invalid --data JSON", err)
	}
	return nil
}

// NewProjectCommand creates the project command group.
func NewProjectCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCommand(opts),
		newProjectShowCommand(opts),
		newProjectAddCommand(opts),
		newProjectUpdateCommand(opts),
		newProjectDeleteCommand(opts),
		newProjectCommentCommand(opts),
		newProjectAssignCommand(opts),
		newProjectUnassignCommand(opts),
	)
	return cmd
}

func newProjectListCommand(opts *RootOptions) *cobra.Command {
	var filter domain.ProjectFilter
	var status, priority, sort string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Status = domain.ProjectStatus(status)
			filter.Priority = domain.Priority(priority)
			filter.Sort = domain.ProjectSort(sort)
			if !filter.Sort.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown sort %q", sort))
			}
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.FilterProjects(filter), nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "match name or description")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&sort, "sort", "", "order by recent|progress|name")
	return cmd
}

func newProjectShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.ProjectByID(ctx, args[0])
			})
		},
	}
}

func newProjectAddCommand(opts *RootOptions) *cobra.Command {
	var in domain.ProjectInput
	var status, priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Status = domain.ProjectStatus(status)
			in.Priority = domain.Priority(priority)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				p, _, err := svc.AddProject(ctx, in)
				return p, err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "project name")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&status, "status", "", "planning|active|on-hold|completed")
	f.StringVar(&priority, "priority", "", "low|medium|high|critical")
	f.StringVar(&in.StartDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&in.EndDate, "end", "", "end date (YYYY-MM-DD)")
	f.StringVar(&in.Assignee, "assignee", "", "assignee email")
	f.StringVar(&in.Reporter, "reporter", "", "reporter email")
	f.StringSliceVar(&in.Team, "team", nil, "team member emails")
	f.StringSliceVar(&in.Labels, "label", nil, "labels")
	f.IntVar(&in.Progress, "progress", 0, "progress percentage")
	return cmd
}

func newProjectUpdateCommand(opts *RootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Patch a project",
		Example: `  neonpm project update 1 --data '{"status":"active","progress":40}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ProjectPatch
			if err := decodePatch(data, &patch); err != nil {
				return err
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				p, _, err := svc.UpdateProject(ctx, args[0], patch)
				return p, err
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to change")
	return cmd
}

func newProjectDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project with its tasks and time logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteProject(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted project " + args[0]), nil
			})
		},
	}
}

func newProjectCommentCommand(opts *RootOptions) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Comment on a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				c, _, err := svc.AddProjectComment(ctx, args[0], domain.CommentInput{Text: args[1], Author: author})
				return c, err
			})
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "author email (defaults to the signed-in user)")
	return cmd
}

func newProjectAssignCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <email>",
		Short: "Add a person to the project team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				p, _, err := svc.AssignUserToProject(ctx, args[0], args[1])
				return p, err
			})
		},
	}
}

func newProjectUnassignCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <id> <email>",
		Short: "Remove a person from the project team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				p, _, err := svc.RemoveUserFromProject(ctx, args[0], args[1])
				return p, err
			})
		},
	}
}
