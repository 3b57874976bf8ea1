package cli

import (
	"context"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

func bindMessageFlags(cmd *cobra.Command, in *domain.ChatMessageInput, msgType *string) {
	f := cmd.Flags()
	f.StringVar(&in.Sender, "sender", "", "sender name (defaults to the signed-in user)")
	f.StringVar(msgType, "type", "", "text|file|system")
	f.StringVar(&in.FileURL, "file-url", "", "attachment URL for file messages")
	f.StringVar(&in.FileName, "file-name", "", "attachment name for file messages")
}

// NewChatCommand creates the broadcast chat command group.
func NewChatCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and post to the team channel",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List channel messages, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.ChatMessages(), nil
			})
		},
	}

	var in domain.ChatMessageInput
	var msgType string
	send := &cobra.Command{
		Use:   "send [text]",
		Short: "Post a message to the channel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Text = args[0]
			}
			in.Type = domain.MessageType(msgType)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.AddChatMessage(ctx, in)
				return m, err
			})
		},
	}
	bindMessageFlags(send, &in, &msgType)

	cmd.AddCommand(list, send)
	return cmd
}

// NewConversationCommand creates the conversation command group.
func NewConversationCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversation",
		Aliases: []string{"conversations", "conv"},
		Short:   "Manage direct and group conversations",
	}
	cmd.AddCommand(
		newConversationListCommand(opts),
		newConversationCreateCommand(opts),
		newConversationActiveCommand(opts),
		newConversationActivateCommand(opts),
		newConversationJoinCommand(opts),
		newConversationLeaveCommand(opts),
		newConversationSendCommand(opts),
		newConversationDeleteCommand(opts),
	)
	return cmd
}

func newConversationListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.Conversations(), nil
			})
		},
	}
}

func newConversationCreateCommand(opts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create <email>...",
		Short: "Open a conversation and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				c, _, err := svc.CreateConversation(ctx, args, name)
				return c, err
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "group name")
	return cmd
}

func newConversationActiveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				c, ok := svc.ActiveConversation()
				if !ok {
					return message("no active conversation"), nil
				}
				return c, nil
			})
		},
	}
}

func newConversationActivateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Set the active conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.SetActiveConversation(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("active conversation " + args[0]), nil
			})
		},
	}
}

func newConversationJoinCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <id> <email>",
		Short: "Add a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				c, _, err := svc.AddParticipantToConversation(ctx, args[0], args[1])
				return c, err
			})
		},
	}
}

func newConversationLeaveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id> <email>",
		Short: "Remove a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				c, _, err := svc.RemoveParticipantFromConversation(ctx, args[0], args[1])
				return c, err
			})
		},
	}
}

func newConversationSendCommand(opts *RootOptions) *cobra.Command {
	var in domain.ChatMessageInput
	var msgType string
	cmd := &cobra.Command{
		Use:   "send <id> [text]",
		Short: "Post a message to a conversation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				in.Text = args[1]
			}
			in.Type = domain.MessageType(msgType)
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				m, _, err := svc.AddConversationMessage(ctx, args[0], in)
				return m, err
			})
		},
	}
	bindMessageFlags(cmd, &in, &msgType)
	return cmd
}

func newConversationDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if _, err := svc.DeleteConversation(ctx, args[0]); err != nil {
					return nil, err
				}
				return message("deleted conversation " + args[0]), nil
			})
		},
	}
}
