// Package compose drives `docker compose` for the loclaude stack: locating
// the compose file and running its lifecycle subcommands with the
// terminal attached.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/process"
	"github.com/loclaude/loclaude/internal/ui"
)

// FileName is the compose file name searched for.
const FileName = "docker-compose.yml"

// WebUIService is the compose service name of Open WebUI.
const WebUIService = "open-webui"

// Orchestrator runs compose subcommands against the resolved compose file.
type Orchestrator struct {
	cfg        config.Config
	runner     process.Runner
	workDir    string
	bundledDir string
	file       string
	out        *ui.Printer
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithWorkDir sets the directory searches start from.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) { o.workDir = dir }
}

// WithBundledDir sets the directory holding the compose file shipped next
// to the executable.
func WithBundledDir(dir string) Option {
	return func(o *Orchestrator) { o.bundledDir = dir }
}

// WithFile pins the compose file, bypassing resolution.
func WithFile(path string) Option {
	return func(o *Orchestrator) { o.file = path }
}

// WithOutput sets where progress messages are printed.
func WithOutput(p *ui.Printer) Option {
	return func(o *Orchestrator) { o.out = p }
}

// New creates an orchestrator.
func New(cfg config.Config, r process.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg, runner: r}
	for _, opt := range opts {
		opt(o)
	}
	if o.workDir == "" {
		o.workDir, _ = os.Getwd()
	}
	if o.bundledDir == "" {
		if exe, err := os.Executable(); err == nil {
			o.bundledDir = filepath.Join(filepath.Dir(exe), "docker")
		}
	}
	if o.out == nil {
		o.out = ui.New(os.Stdout)
	}
	return o
}

// ResolveFile locates the compose file. In order: the file pinned with
// WithFile; the configured path (relative paths join the work dir); a
// docker-compose.yml in the work dir or its docker/ subdirectory; the
// bundled file next to the executable.
func (o *Orchestrator) ResolveFile() (string, error) {
	if o.file != "" {
		return o.file, nil
	}

	if p := o.cfg.ComposeFile(); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(o.workDir, p)
		}
		if fileExists(p) {
			return p, nil
		}
	}

	// The walk is bounded to paths under the work dir, so only the work
	// dir itself is inspected.
	for dir := o.workDir; dir != "/" && strings.HasPrefix(dir, o.workDir); dir = filepath.Dir(dir) {
		for _, p := range []string{
			filepath.Join(dir, FileName),
			filepath.Join(dir, "docker", FileName),
		} {
			if fileExists(p) {
				return p, nil
			}
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}

	if o.bundledDir != "" {
		if p := filepath.Join(o.bundledDir, FileName); fileExists(p) {
			return p, nil
		}
	}

	return "", domain.WithHint(domain.ErrNoComposeFile,
		"Run 'loclaude init' to create one, or specify --file")
}

// Command returns the full docker compose invocation for args.
func Command(file string, args ...string) []string {
	return append([]string{"docker", "compose", "-f", file}, args...)
}

// Up starts the stack, detached unless detach is false.
func (o *Orchestrator) Up(ctx context.Context, detach bool) (int, error) {
	args := []string{"up"}
	if detach {
		args = append(args, "-d")
	}

	file, err := o.ResolveFile()
	if err != nil {
		return 1, err
	}
	o.out.Println("Starting containers...")
	o.out.Println()

	code, err := o.exec(ctx, file, args...)
	if err != nil || code != 0 {
		return code, err
	}

	o.out.Println()
	o.out.Success("Containers started")
	o.out.Section("Service URLs:")
	o.out.LabelValue("Ollama API", o.cfg.OllamaURL())
	if o.hasWebUI(file) {
		o.out.LabelValue("Open WebUI", "http://localhost:3000")
	}
	return 0, nil
}

// Down stops and removes the stack.
func (o *Orchestrator) Down(ctx context.Context) (int, error) {
	return o.lifecycle(ctx, "Stopping containers...", "Containers stopped", "down")
}

// Restart restarts every service.
func (o *Orchestrator) Restart(ctx context.Context) (int, error) {
	return o.lifecycle(ctx, "Restarting containers...", "Containers restarted", "restart")
}

// Ps shows container status.
func (o *Orchestrator) Ps(ctx context.Context) (int, error) {
	file, err := o.ResolveFile()
	if err != nil {
		return 1, err
	}
	return o.exec(ctx, file, "ps")
}

// Logs shows service logs, optionally following them or limited to one
// service.
func (o *Orchestrator) Logs(ctx context.Context, follow bool, service string) (int, error) {
	file, err := o.ResolveFile()
	if err != nil {
		return 1, err
	}
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	if service != "" {
		if err := o.checkService(file, service); err != nil {
			return 1, err
		}
		args = append(args, service)
	}
	return o.exec(ctx, file, args...)
}

// Exec runs cmd inside a running service container.
func (o *Orchestrator) Exec(ctx context.Context, service string, cmd []string) (int, error) {
	if service == "" {
		return 1, domain.WithHint(domain.ErrServiceRequired,
			"Usage: loclaude docker-exec <service> [command...]")
	}
	file, err := o.ResolveFile()
	if err != nil {
		return 1, err
	}
	if err := o.checkService(file, service); err != nil {
		return 1, err
	}
	return o.exec(ctx, file, append([]string{"exec", service}, cmd...)...)
}

// OllamaContainer returns the name of the container serving Ollama as
// declared by the compose file, or DefaultOllamaContainer.
func (o *Orchestrator) OllamaContainer() string {
	file, err := o.ResolveFile()
	if err != nil {
		return DefaultOllamaContainer
	}
	f, err := ParseFile(file)
	if err != nil {
		log.WithError(err).Debug("compose file unreadable, assuming default container name")
		return DefaultOllamaContainer
	}
	return f.OllamaContainer()
}

func (o *Orchestrator) lifecycle(ctx context.Context, start, done string, sub string) (int, error) {
	file, err := o.ResolveFile()
	if err != nil {
		return 1, err
	}
	o.out.Println(start)
	o.out.Println()

	code, err := o.exec(ctx, file, sub)
	if err == nil && code == 0 {
		o.out.Println()
		o.out.Success(done)
	}
	return code, err
}

func (o *Orchestrator) exec(ctx context.Context, file string, args ...string) (int, error) {
	code, err := o.runner.Run(ctx, Command(file, args...), process.Options{})
	if err != nil {
		return code, fmt.Errorf("docker compose: %w", err)
	}
	return code, nil
}

// checkService rejects services the compose file does not declare. A
// file that cannot be parsed is left for docker compose to judge.
func (o *Orchestrator) checkService(file, service string) error {
	f, err := ParseFile(file)
	if err != nil || len(f.Services) == 0 {
		return nil
	}
	if f.HasService(service) {
		return nil
	}
	return domain.WithHint(
		fmt.Errorf("%w: %s", domain.ErrUnknownService, service),
		"Available services: "+strings.Join(f.ServiceNames(), ", "),
	)
}

func (o *Orchestrator) hasWebUI(file string) bool {
	f, err := ParseFile(file)
	if err != nil {
		return true
	}
	return f.HasService(WebUIService)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
