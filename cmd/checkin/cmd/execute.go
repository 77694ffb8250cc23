package cmd

import (
	"errors"
	"fmt"
	"os"
)

var (
	errUsage        = errors.New("usage")
	errSweepAborted = errors.New("checkin sweep aborted")
)

func Execute() int {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, root.UsageString())
		}
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit status: 2 for bad
// invocation, 1 for everything else that failed.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}
