package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

// NewNotificationCommand creates the notification command group.
func NewNotificationCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notifications"},
		Short:   "Read and post notifications",
	}

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				if unread {
					return svc.UnreadNotifications(), nil
				}
				return svc.Notifications(), nil
			})
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	var in domain.NotificationInput
	var notifyType string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Post a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			in.Type = domain.NotificationType(notifyType)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				n, _, err := svc.AddNotification(ctx, in)
				return n, err
			})
		},
	}
	add.Flags().StringVar(&notifyType, "type", string(domain.NotifyProject), "project|task|meeting|chat")
	add.Flags().StringVar(&in.Body, "body", "", "notification body")

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				n, _, err := svc.MarkAllNotificationsRead(ctx)
				if err != nil {
					return nil, err
				}
				return message(fmt.Sprintf("marked %d notifications read", n)), nil
			})
		},
	}

	cmd.AddCommand(list, add, readAll)
	return cmd
}

// NewTimeLogCommand creates the time log command group.
func NewTimeLogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timelog",
		Aliases: []string{"timelogs", "time"},
		Short:   "Record hours spent on projects",
	}

	var projectID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List time logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				if projectID != "" {
					return svc.TimeLogsByProject(projectID), nil
				}
				return svc.TimeLogs(), nil
			})
		},
	}
	list.Flags().StringVarP(&projectID, "project", "p", "", "only entries of this project")

	var in domain.TimesheetInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Log hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				e, _, err := svc.AddTimeLog(ctx, in)
				return e, err
			})
		},
	}
	f := add.Flags()
	f.StringVarP(&in.ProjectID, "project", "p", "", "project id")
	f.StringVar(&in.UserEmail, "user", "", "user email (defaults to the signed-in user)")
	f.StringVar(&in.Date, "date", "", "date (YYYY-MM-DD)")
	f.Float64Var(&in.Hours, "hours", 0, "hours spent")
	f.StringVar(&in.Note, "note", "", "note")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a time log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteTimeLog(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted time log " + args[0]), nil
			})
		},
	}

	hours := &cobra.Command{
		Use:   "hours",
		Short: "Total hours per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.HoursByProject(), nil
			})
		},
	}

	cmd.AddCommand(list, add, del, hours)
	return cmd
}

// NewUserCommand creates the people directory command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage the people directory",
	}
	cmd.AddCommand(
		newUserListCommand(opts),
		newUserAddCommand(opts),
		newUserUpdateCommand(opts),
		newUserDeleteCommand(opts),
		newUserEmailsCommand(opts),
		newUserStatsCommand(opts),
	)
	return cmd
}

func newUserListCommand(opts *RootOptions) *cobra.Command {
	var filter domain.UserFilter
	var role, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Role = domain.UserRole(role)
			filter.Status = domain.UserStatus(status)
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.SearchUsers(filter), nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "match name, email, title or department")
	cmd.Flags().StringVar(&role, "role", "", "admin|manager|developer|designer|qa")
	cmd.Flags().StringVar(&status, "status", "", "active|inactive")
	return cmd
}

func newUserAddCommand(opts *RootOptions) *cobra.Command {
	var in domain.UserInput
	var role, status string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = domain.UserRole(role)
			in.Status = domain.UserStatus(status)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				u, _, err := svc.AddUser(ctx, in)
				return u, err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "full name")
	f.StringVar(&in.Email, "email", "", "email")
	f.StringVar(&role, "role", "", "admin|manager|developer|designer|qa")
	f.StringVar(&status, "status", "", "active|inactive")
	f.StringVar(&in.Title, "title", "", "job title")
	f.StringVar(&in.Department, "department", "", "department")
	return cmd
}

func newUserUpdateCommand(opts *RootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Patch a person",
		Example: `  neonpm user update u5 --data '{"status":"active"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.UserPatch
			if err := decodePatch(data, &patch); err != nil {
				return err
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				u, _, err := svc.UpdateUser(ctx, args[0], patch)
				return u, err
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to change")
	return cmd
}

func newUserDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a person from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteUser(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted user " + args[0]), nil
			})
		},
	}
}

func newUserEmailsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "emails",
		Short: "List every email referenced by projects and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.AllUsers(), nil
			})
		},
	}
}

func newUserStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <email>",
		Short: "Summarise one person's projects, tasks and hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.UserStats(args[0]), nil
			})
		},
	}
}
