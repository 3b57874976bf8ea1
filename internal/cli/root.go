// Package cli implements the neonpm command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	// Trace writes one JSON line per service operation to stderr.
	Trace bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the neonpm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "neonpm",
		Short: "neonpm - project management records",
		Long: `Manage projects, tasks, meetings, chat, notifications, time logs and
the people directory stored in a single neonpm document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "write operation traces to stderr")

	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewMeetingCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewConversationCommand(opts))
	cmd.AddCommand(NewNotificationCommand(opts))
	cmd.AddCommand(NewTimeLogCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
