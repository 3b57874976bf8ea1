package cli

import (
	"context"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

// NewMeetingCommand creates the meeting command group.
func NewMeetingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meeting",
		Aliases: []string{"meetings"},
		Short:   "Manage meetings",
	}
	cmd.AddCommand(
		newMeetingListCommand(opts),
		newMeetingAddCommand(opts),
		newMeetingUpdateCommand(opts),
		newMeetingDeleteCommand(opts),
		newMeetingStartCommand(opts),
		newMeetingToggleCommand(opts),
	)
	return cmd
}

func newMeetingListCommand(opts *RootOptions) *cobra.Command {
	var upcoming bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				if upcoming {
					return svc.UpcomingMeetings(), nil
				}
				return svc.Meetings(), nil
			})
		},
	}
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "only meetings from today on, soonest first")
	return cmd
}

func newMeetingAddCommand(opts *RootOptions) *cobra.Command {
	var in domain.MeetingInput
	var meetingType string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Type = domain.MeetingType(meetingType)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.AddMeeting(ctx, in)
				return m, err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "meeting title")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.Date, "date", "", "date (YYYY-MM-DD)")
	f.StringVar(&in.StartTime, "start", "", "start time (HH:MM)")
	f.StringVar(&in.EndTime, "end", "", "end time (HH:MM)")
	f.StringSliceVar(&in.Attendees, "attendee", nil, "attendee emails")
	f.StringVar(&in.Location, "location", "", "location")
	f.StringVar(&meetingType, "type", "", "standup|planning|review|retrospective|client|other")
	f.StringSliceVar(&in.Agenda, "agenda", nil, "agenda items")
	f.StringVar(&in.MeetingLink, "link", "", "video call link")
	f.BoolVar(&in.AllDay, "all-day", false, "all-day event")
	return cmd
}

func newMeetingUpdateCommand(opts *RootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Patch a meeting",
		Example: `  neonpm meeting update 2 --data '{"startTime":"11:00"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.MeetingPatch
			if err := decodePatch(data, &patch); err != nil {
				return err
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.UpdateMeeting(ctx, args[0], patch)
				return m, err
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to change")
	return cmd
}

func newMeetingDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Cancel a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteMeeting(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted meeting " + args[0]), nil
			})
		},
	}
}

func newMeetingStartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a meeting, assigning a call link when it has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.StartMeeting(ctx, args[0])
				return m, err
			})
		},
	}
}

func newMeetingToggleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <email>",
		Short: "Add or remove an attendee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.ToggleMeetingAttendee(ctx, args[0], args[1])
				return m, err
			})
		},
	}
}
