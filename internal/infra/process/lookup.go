package process

import (
	"context"
	"strings"
)

// CommandExists reports whether name resolves on PATH, using the
// platform's lookup utility. Any failure counts as absent.
func CommandExists(ctx context.Context, r Runner, name string) bool {
	if name == "" {
		return false
	}
	res, err := r.Capture(ctx, []string{lookupTool, name}, Options{})
	return err == nil && res.ExitCode == 0
}

// CommandVersion runs `name --version` and returns the first line of its
// output. The boolean is false when the version is unknown, which does not
// imply the command is missing.
func CommandVersion(ctx context.Context, r Runner, name string) (string, bool) {
	res, err := r.Capture(ctx, []string{name, "--version"}, Options{})
	if err != nil || res.ExitCode != 0 {
		return "", false
	}
	line := FirstLine(res.Stdout)
	return line, line != ""
}

// FirstLine returns the first line of s with surrounding whitespace removed.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
