package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s",
		strings.Join(e.Errors, "\n  - "))
}

// Add appends a validation error message.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the resolved config for values that cannot work. Loading
// never fails on these; commands surface them as warnings.
func (c Config) Validate() error {
	errs := &ValidationError{}

	u, err := url.Parse(c.Ollama.URL)
	switch {
	case c.Ollama.URL == "":
		errs.Add("ollama.url is required")
	case err != nil:
		errs.Add(fmt.Sprintf("ollama.url is not a valid URL: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs.Add("ollama.url must use http or https")
	case u.Host == "":
		errs.Add("ollama.url must include a host")
	}

	if strings.TrimSpace(c.Ollama.DefaultModel) == "" {
		errs.Add("ollama.defaultModel is required")
	}
	if strings.TrimSpace(c.Docker.ComposeFile) == "" {
		errs.Add("docker.composeFile is required")
	}

	for i, arg := range c.Claude.ExtraArgs {
		if arg == "--model" || arg == "-m" || strings.HasPrefix(arg, "--model=") || strings.HasPrefix(arg, "-m=") {
			errs.Add(fmt.Sprintf("claude.extraArgs[%d]: the model is chosen by loclaude, remove %q", i, arg))
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
