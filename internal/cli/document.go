package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"neonpm/internal/core"
	"neonpm/internal/infra/persistence/document"
	"neonpm/pkg/domain"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or change the signed-in user",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				u, err := svc.CurrentUser(ctx)
				return u, err
			})
		},
	}

	var user domain.CurrentUser
	signIn := &cobra.Command{
		Use:   "sign-in",
		Short: "Record the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user.ID == "" {
				user.ID = user.Email
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if err := svc.SignIn(ctx, user); err != nil {
					return nil, err
				}
				return user, nil
			})
		},
	}
	signIn.Flags().StringVar(&user.ID, "id", "", "user id (defaults to the email)")
	signIn.Flags().StringVar(&user.Name, "name", "", "display name")
	signIn.Flags().StringVar(&user.Email, "email", "", "email")

	signOut := &cobra.Command{
		Use:   "sign-out",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if err := svc.SignOut(ctx); err != nil {
					return nil, err
				}
				return message("signed out"), nil
			})
		},
	}

	cmd.AddCommand(show, signIn, signOut)
	return cmd
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show record totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, func(_ context.Context, svc *core.Service) (any, error) {
				return svc.Dashboard(), nil
			})
		},
	}
}

// NewExportCommand creates the export command. The document is written in
// its stored encoding, not the CLI envelope, so it can be re-imported.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(commandContext(cmd), cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			data, err := document.Encode(e.svc.Export())
			if err != nil {
				return WrapExitError(ExitCommandError, "encode document", err)
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return WrapExitError(ExitCommandError, "write export", err)
			}
			return e.out.Success(message(fmt.Sprintf("exported to %s", output)))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the whole document with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read import", err)
			}
			state, err := document.Decode(raw)
			if err != nil {
				return WrapExitError(ExitFailure, "decode import", err)
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if err := svc.Import(ctx, state); err != nil {
					return nil, err
				}
				return message(fmt.Sprintf("imported %d projects, %d tasks", len(state.Projects), len(state.Tasks))), nil
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// NewResetCommand creates the reset command.
func NewResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard every record and restore the sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "reset discards all records; pass --yes to confirm")
			}
			return runWith(cmd, opts, func(ctx context.Context, svc *core.Service) (any, error) {
				if err := svc.Reset(ctx); err != nil {
					return nil, err
				}
				return message("records reset to sample data"), nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
