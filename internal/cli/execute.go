package cli

import (
	"context"
	"fmt"
	"io"
)

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !Reported(err) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}
