// Package process runs external commands for loclaude. Commands either
// stream through the parent's terminal (docker compose, claude) or have
// their output captured for inspection (version probes, docker info).
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrNoCommand is returned when an empty command line is given.
var ErrNoCommand = errors.New("no command provided")

// Options tune a single invocation. Zero values inherit from the parent
// process: nil Env keeps os.Environ(), empty Dir keeps the working directory.
type Options struct {
	Env    []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of a captured invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner spawns OS processes.
//
// Run and Capture report a non-zero exit through the exit code with a nil
// error; the error is reserved for commands that could not be started.
// Neither call applies a timeout: interactive sessions may block
// indefinitely, and ctx is only consulted before the process starts.
type Runner interface {
	// Run executes cmd with stdin, stdout and stderr attached to the
	// terminal unless opts overrides them.
	Run(ctx context.Context, cmd []string, opts Options) (int, error)

	// Capture executes cmd with stdin closed and buffers its output.
	Capture(ctx context.Context, cmd []string, opts Options) (Result, error)
}

// New returns the runner selected for this invocation. With dryRun set,
// interactive commands are printed to w instead of executed.
func New(dryRun bool, w io.Writer) Runner {
	if dryRun {
		return &DryRun{Out: w, Inner: Exec{}}
	}
	return Exec{}
}

// ─── Exec ───────────────────────────────────────────────────────────────────

// Exec runs real processes via os/exec.
type Exec struct{}

// Run implements Runner.
func (Exec) Run(ctx context.Context, cmd []string, opts Options) (int, error) {
	if len(cmd) == 0 {
		return 1, ErrNoCommand
	}
	if err := ctx.Err(); err != nil {
		return 1, err
	}

	c := command(cmd, opts)
	c.Stdin = readerOr(opts.Stdin, os.Stdin)
	c.Stdout = writerOr(opts.Stdout, os.Stdout)
	c.Stderr = writerOr(opts.Stderr, os.Stderr)

	trace("run", cmd)
	return exitStatus(cmd[0], c.Run())
}

// Capture implements Runner.
func (Exec) Capture(ctx context.Context, cmd []string, opts Options) (Result, error) {
	if len(cmd) == 0 {
		return Result{ExitCode: 1}, ErrNoCommand
	}
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: 1}, err
	}

	c := command(cmd, opts)
	c.Stdin = opts.Stdin // nil reads from the null device
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	trace("capture", cmd)
	code, err := exitStatus(cmd[0], c.Run())
	return Result{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, err
}

func command(cmd []string, opts Options) *exec.Cmd {
	c := exec.Command(cmd[0], cmd[1:]...)
	c.Env = opts.Env
	c.Dir = opts.Dir
	return c
}

// exitStatus maps the result of exec.Cmd.Run to an exit code. A process
// killed by a signal reports 1.
func exitStatus(name string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if code := ee.ExitCode(); code > 0 {
			return code, nil
		}
		return 1, nil
	}
	return 1, fmt.Errorf("start %s: %w", name, err)
}

func trace(mode string, cmd []string) {
	log.WithField("mode", mode).Debugf("+ %s", strings.Join(cmd, " "))
}

func readerOr(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func writerOr(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}

// ─── Dry run ────────────────────────────────────────────────────────────────

// DryRun prints interactive commands instead of running them. Captured
// commands only inspect the host, so they are delegated to Inner.
type DryRun struct {
	Out   io.Writer
	Inner Runner
}

// Run implements Runner.
func (d *DryRun) Run(_ context.Context, cmd []string, _ Options) (int, error) {
	if len(cmd) == 0 {
		return 1, ErrNoCommand
	}
	fmt.Fprintln(d.Out, "+ "+strings.Join(cmd, " "))
	return 0, nil
}

// Capture implements Runner.
func (d *DryRun) Capture(ctx context.Context, cmd []string, opts Options) (Result, error) {
	if len(cmd) == 0 {
		return Result{ExitCode: 1}, ErrNoCommand
	}
	return d.Inner.Capture(ctx, cmd, opts)
}
