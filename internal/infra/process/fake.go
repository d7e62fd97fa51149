package process

import (
	"context"
	"strings"
	"sync"
)

// Fake is an in-memory Runner for tests. It records every invocation and
// answers from Responses keyed by the space-joined command line. Commands
// without a response exit 127, like a shell that cannot find them.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]Result
	Calls     [][]string
	RunOpts   []Options
	Captured  [][]string
}

// NewFake creates an empty fake runner.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]Result)}
}

// On registers the result returned for cmd.
func (f *Fake) On(res Result, cmd ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[strings.Join(cmd, " ")] = res
	return f
}

// Run implements Runner.
func (f *Fake) Run(_ context.Context, cmd []string, opts Options) (int, error) {
	if len(cmd) == 0 {
		return 1, ErrNoCommand
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, append([]string(nil), cmd...))
	f.RunOpts = append(f.RunOpts, opts)
	return f.lookup(cmd).ExitCode, nil
}

// Capture implements Runner.
func (f *Fake) Capture(_ context.Context, cmd []string, _ Options) (Result, error) {
	if len(cmd) == 0 {
		return Result{ExitCode: 1}, ErrNoCommand
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Captured = append(f.Captured, append([]string(nil), cmd...))
	return f.lookup(cmd), nil
}

// RunCount returns how many interactive commands were run.
func (f *Fake) RunCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastRun returns the most recent interactive command, or nil.
func (f *Fake) LastRun() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return nil
	}
	return f.Calls[len(f.Calls)-1]
}

func (f *Fake) lookup(cmd []string) Result {
	if res, ok := f.Responses[strings.Join(cmd, " ")]; ok {
		return res
	}
	return Result{ExitCode: 127}
}
