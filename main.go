package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mcncl/jsontree/internal/cli"
	"github.com/mcncl/jsontree/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := cli.Run(args, stdin, stdout, stderr); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))

		fmt.Fprintf(stderr, "\nFor help, run: jsontree --help\n")
		return 1
	}
	return 0
}
