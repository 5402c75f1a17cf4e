// Command steelcalc computes coil width, material length, weight and
// pricing for roll-formed galvanized steel studs and tracks.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/steelcalc/internal/cli"
	"github.com/rshade/steelcalc/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

func main() {
	err := run()
	if err == nil {
		return
	}

	var rowErr *cli.RowErrorsExit
	if !errors.As(err, &rowErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(extractExitCode(err))
}

// extractExitCode maps an error returned by run to a process exit status:
// 0 for nil, the error's own code for row failures, 1 otherwise.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var rowErr *cli.RowErrorsExit
	if errors.As(err, &rowErr) {
		return rowErr.ExitCode()
	}
	return 1
}
