package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Usage errors
	ErrModelNameRequired = errors.New("model name required")
	ErrServiceRequired   = errors.New("service name required")

	// Environment errors
	ErrNoComposeFile     = errors.New("no docker-compose.yml found")
	ErrOllamaUnreachable = errors.New("could not connect to Ollama")
	ErrNoModels          = errors.New("no models found in Ollama")
	ErrUnknownService    = errors.New("service not defined in compose file")
)

// HintError decorates an error with a remediation hint shown below the
// error line.
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string { return e.Err.Error() }

func (e *HintError) Unwrap() error { return e.Err }

// WithHint attaches a hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintError{Err: err, Hint: hint}
}

// HintOf returns the outermost hint attached to err, if any.
func HintOf(err error) string {
	var he *HintError
	if errors.As(err, &he) {
		return he.Hint
	}
	return ""
}
