// Package models manages Ollama models: listing them over the REST API and
// routing pull, rm, show and run through the ollama CLI, inside the
// container when the compose stack runs it.
package models

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/container"
	"github.com/loclaude/loclaude/internal/infra/ollama"
	"github.com/loclaude/loclaude/internal/infra/process"
	"github.com/loclaude/loclaude/internal/ui"
)

const (
	// ListTimeout bounds the installed-model listing.
	ListTimeout = 10 * time.Second
	// DefaultKeepAlive keeps a pre-loaded model resident.
	DefaultKeepAlive = "10m"
)

// Manager lists and manages models on one Ollama server.
type Manager struct {
	client    *ollama.Client
	runner    process.Runner
	engine    container.Engine
	container string
	out       *ui.Printer
}

// Option customizes a Manager.
type Option func(*Manager)

// WithEngine sets the engine used to find the Ollama container.
func WithEngine(e container.Engine) Option {
	return func(m *Manager) { m.engine = e }
}

// WithContainer sets the Ollama container name.
func WithContainer(name string) Option {
	return func(m *Manager) { m.container = name }
}

// WithOutput sets where progress messages are printed.
func WithOutput(p *ui.Printer) Option {
	return func(m *Manager) { m.out = p }
}

// New creates a manager.
func New(client *ollama.Client, r process.Runner, opts ...Option) *Manager {
	m := &Manager{client: client, runner: r, container: "ollama"}
	for _, opt := range opts {
		opt(m)
	}
	if m.engine == nil {
		m.engine = &container.CLI{Runner: r}
	}
	if m.out == nil {
		m.out = ui.New(os.Stdout)
	}
	return m
}

// URL returns the Ollama base URL.
func (m *Manager) URL() string { return m.client.URL() }

// List returns the installed models.
func (m *Manager) List(ctx context.Context) ([]ollama.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, ListTimeout)
	defer cancel()
	return m.client.Tags(ctx)
}

// Running returns the models loaded in memory.
func (m *Manager) Running(ctx context.Context) ([]ollama.RunningModel, error) {
	ctx, cancel := context.WithTimeout(ctx, ListTimeout)
	defer cancel()
	return m.client.Ps(ctx)
}

// Pull downloads a model.
func (m *Manager) Pull(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 1, usage("pull")
	}
	m.out.Printf("Pulling model: %s\n\n", name)
	code, err := m.ollama(ctx, "pull", name)
	if err == nil && code == 0 {
		m.out.Println()
		m.out.Success(fmt.Sprintf("Model '%s' pulled successfully", name))
	}
	return code, err
}

// Remove deletes a model.
func (m *Manager) Remove(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 1, usage("rm")
	}
	m.out.Printf("Removing model: %s\n\n", name)
	code, err := m.ollama(ctx, "rm", name)
	if err == nil && code == 0 {
		m.out.Println()
		m.out.Success(fmt.Sprintf("Model '%s' removed", name))
	}
	return code, err
}

// Show prints model details.
func (m *Manager) Show(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 1, usage("show")
	}
	return m.ollama(ctx, "show", name)
}

// Run starts an interactive ollama chat session.
func (m *Manager) Run(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 1, usage("run")
	}
	return m.ollama(ctx, "run", name)
}

// InDocker reports whether the Ollama container is running.
func (m *Manager) InDocker(ctx context.Context) bool {
	ok, err := m.engine.Running(ctx, m.container)
	if err != nil {
		log.WithError(err).Debug("container lookup failed, using local ollama")
		return false
	}
	return ok
}

// OllamaCommand builds the ollama invocation for args, routed into the
// container when it is running.
func (m *Manager) OllamaCommand(ctx context.Context, args ...string) []string {
	if m.InDocker(ctx) {
		return append([]string{"docker", "exec", "-it", m.container, "ollama"}, args...)
	}
	return append([]string{"ollama"}, args...)
}

func (m *Manager) ollama(ctx context.Context, args ...string) (int, error) {
	code, err := m.runner.Run(ctx, m.OllamaCommand(ctx, args...), process.Options{})
	if err != nil {
		return code, fmt.Errorf("ollama %s: %w", args[0], err)
	}
	return code, nil
}

func usage(verb string) error {
	return domain.WithHint(domain.ErrModelNameRequired,
		fmt.Sprintf("Usage: loclaude models-%s <model-name>", verb))
}
