// Command neonpm manages the project records from the shell and serves them
// over HTTP.
package main

import (
	"context"
	"os"

	"neonpm/internal/cli"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
