// Package launcher starts claude against the local Ollama server: it picks
// the model, pre-loads it, points claude's Anthropic client at Ollama and
// hands over the terminal.
package launcher

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/process"
	"github.com/loclaude/loclaude/internal/models"
)

// Binary is the executable launched.
const Binary = "claude"

// Environment variables set for claude.
const (
	EnvAuthToken = "ANTHROPIC_AUTH_TOKEN"
	EnvBaseURL   = "ANTHROPIC_BASE_URL"
)

// Launcher runs claude.
type Launcher struct {
	cfg      config.Config
	models   *models.Manager
	runner   process.Runner
	selector Selector
	environ  func() []string
}

// Option customizes a Launcher.
type Option func(*Launcher)

// WithSelector replaces the interactive model prompt.
func WithSelector(s Selector) Option {
	return func(l *Launcher) { l.selector = s }
}

// WithEnviron replaces os.Environ as the base environment.
func WithEnviron(fn func() []string) Option {
	return func(l *Launcher) { l.environ = fn }
}

// New creates a launcher.
func New(cfg config.Config, m *models.Manager, r process.Runner, opts ...Option) *Launcher {
	l := &Launcher{
		cfg:      cfg,
		models:   m,
		runner:   r,
		selector: PromptSelector{},
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch parses args, resolves the model and runs claude, returning its
// exit code.
func (l *Launcher) Launch(ctx context.Context, args []string) (int, error) {
	explicit, passthrough, err := ParseArgs(args)
	if err != nil {
		return 1, err
	}

	model, err := l.ResolveModel(ctx, explicit, passthrough)
	if err != nil {
		return 1, err
	}

	if !WantsHelp(passthrough) {
		l.models.EnsureLoaded(ctx, model)
	}

	cmd := Command(model, l.cfg.ClaudeExtraArgs(), passthrough)
	log.WithFields(log.Fields{"model": model, "url": l.cfg.OllamaURL()}).Debug("launching claude")

	code, err := l.runner.Run(ctx, cmd, process.Options{
		Env: Environment(l.environ(), l.cfg.OllamaURL()),
	})
	if err != nil {
		return code, domain.WithHint(
			fmt.Errorf("start %s: %w", Binary, err),
			"Install: npm install -g @anthropic-ai/claude-code",
		)
	}
	return code, nil
}

// ResolveModel picks the model: the explicit value, the configured default
// when claude is only asked for help, or an interactive choice.
func (l *Launcher) ResolveModel(ctx context.Context, explicit string, passthrough []string) (string, error) {
	switch {
	case explicit != "":
		return explicit, nil
	case WantsHelp(passthrough):
		return l.cfg.DefaultModel(), nil
	default:
		return l.selectModel(ctx)
	}
}

func (l *Launcher) selectModel(ctx context.Context) (string, error) {
	installed, err := l.models.List(ctx)
	if err != nil {
		return "", domain.WithHint(
			fmt.Errorf("could not connect to Ollama at %s: %w", l.models.URL(), err),
			"Make sure Ollama is running: loclaude docker-up",
		)
	}
	if len(installed) == 0 {
		return "", domain.WithHint(domain.ErrNoModels,
			"Pull a model first: loclaude models-pull <model-name>")
	}

	running, err := l.models.Running(ctx)
	if err != nil {
		log.WithError(err).Debug("could not list loaded models")
	}

	choices := make([]Choice, len(installed))
	for i, m := range installed {
		label := fmt.Sprintf("%s (%s)", m.Name, domain.HumanSize(m.Size))
		if models.LoadedIn(running, m.Name) {
			label += " [loaded]"
		}
		choices[i] = Choice{Label: label, Value: m.Name}
	}
	return l.selector.Select("Select a model", choices)
}

// Environment returns base with the Anthropic variables pointing at
// ollamaURL, replacing any existing values. base is not modified.
func Environment(base []string, ollamaURL string) []string {
	env := slices.Clone(base)
	env = setEnvVar(env, EnvAuthToken, "ollama")
	env = setEnvVar(env, EnvBaseURL, ollamaURL)
	return env
}

func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// Command builds the claude command line.
func Command(model string, extra, passthrough []string) []string {
	cmd := []string{Binary, "--model", model}
	cmd = append(cmd, extra...)
	return append(cmd, passthrough...)
}
