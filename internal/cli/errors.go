package cli

import "fmt"

// exitCodeRowErrors is the process exit status when a batch completed but
// some rows failed.
const exitCodeRowErrors = 2

// RowErrorsExit is returned by batch when at least one row failed. The
// output has already been written; main maps it to exit status 2.
type RowErrorsExit struct {
	Rows   int
	Errors int
}

func (e *RowErrorsExit) Error() string {
	return fmt.Sprintf("%d of %d rows failed", e.Errors, e.Rows)
}

// ExitCode returns the process exit status for this error.
func (e *RowErrorsExit) ExitCode() int {
	return exitCodeRowErrors
}
