// Package app wires loclaude's components for one command invocation.
// It connects configuration with infrastructure, never the reverse.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/compose"
	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/health"
	"github.com/loclaude/loclaude/internal/infra/container"
	"github.com/loclaude/loclaude/internal/infra/ollama"
	"github.com/loclaude/loclaude/internal/infra/process"
	"github.com/loclaude/loclaude/internal/launcher"
	"github.com/loclaude/loclaude/internal/models"
	"github.com/loclaude/loclaude/internal/ui"
)

// Options select how the runtime is built.
type Options struct {
	// ComposeFile pins the compose file (--file).
	ComposeFile string
	DryRun      bool
	Stdout      io.Writer
	Stderr      io.Writer
	// Resolver overrides the default configuration resolver.
	Resolver *config.Resolver
	// Runner overrides the process runner selected from DryRun.
	Runner process.Runner
	// Engine overrides container engine detection.
	Engine container.Engine
}

// App holds the resolved configuration and the services built from it.
type App struct {
	Resolver *config.Resolver
	Config   config.Config
	Runner   process.Runner
	Ollama   *ollama.Client
	Out      *ui.Printer
	Err      *ui.Printer

	composeFile string

	engineOnce sync.Once
	engine     container.Engine
}

// New resolves configuration and builds the shared services.
func New(opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Resolver == nil {
		opts.Resolver = config.NewResolver()
	}
	if opts.Runner == nil {
		opts.Runner = process.New(opts.DryRun, opts.Stderr)
	}

	cfg := opts.Resolver.Load()
	if err := cfg.Validate(); err != nil {
		log.Warn(err)
	}

	a := &App{
		Resolver:    opts.Resolver,
		Config:      cfg,
		Runner:      opts.Runner,
		Ollama:      ollama.NewClient(cfg.OllamaURL()),
		Out:         ui.New(opts.Stdout),
		Err:         ui.New(opts.Stderr),
		composeFile: opts.ComposeFile,
		engine:      opts.Engine,
	}
	return a
}

// Engine returns the container engine, detecting it on first use.
func (a *App) Engine(ctx context.Context) container.Engine {
	a.engineOnce.Do(func() {
		if a.engine == nil {
			a.engine = container.Detect(ctx, a.Runner)
		}
	})
	return a.engine
}

// Compose returns the compose orchestrator.
func (a *App) Compose() *compose.Orchestrator {
	opts := []compose.Option{
		compose.WithWorkDir(a.Resolver.WorkDir()),
		compose.WithOutput(a.Out),
	}
	if a.composeFile != "" {
		opts = append(opts, compose.WithFile(a.composeFile))
	}
	return compose.New(a.Config, a.Runner, opts...)
}

// Models returns the model manager, routing CLI calls into the Ollama
// container named by the compose file.
func (a *App) Models(ctx context.Context) *models.Manager {
	return models.New(a.Ollama, a.Runner,
		models.WithEngine(a.Engine(ctx)),
		models.WithContainer(a.Compose().OllamaContainer()),
		models.WithOutput(a.Out),
	)
}

// Launcher returns the claude launcher.
func (a *App) Launcher(ctx context.Context, opts ...launcher.Option) *launcher.Launcher {
	return launcher.New(a.Config, a.Models(ctx), a.Runner, opts...)
}

// Doctor returns the health checker.
func (a *App) Doctor(ctx context.Context) *health.Checker {
	return health.NewDoctor(health.Deps{
		Runner: a.Runner,
		Engine: a.Engine(ctx),
		Ollama: a.Ollama,
	})
}

// Close releases the container engine connection.
func (a *App) Close() error {
	if a.engine == nil {
		return nil
	}
	return a.engine.Close()
}
