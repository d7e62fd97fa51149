package cli

import "fmt"

// ExitError carries a child process exit code up to Execute, which exits
// with it without printing anything. The child already reported the failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// exit converts an operation's (exit code, error) pair into a RunE result.
func exit(code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
