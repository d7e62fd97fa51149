package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/container"
	"github.com/loclaude/loclaude/internal/infra/ollama"
	"github.com/loclaude/loclaude/internal/infra/process"
)

// DefaultTimeout bounds each Ollama HTTP probe.
const DefaultTimeout = 5 * time.Second

// Deps are the collaborators the standard probes inspect.
type Deps struct {
	Runner  process.Runner
	Engine  container.Engine
	Ollama  *ollama.Client
	Timeout time.Duration
}

// NewDoctor returns the checker behind `loclaude doctor`.
func NewDoctor(d Deps) *Checker {
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.Engine == nil {
		d.Engine = &container.CLI{Runner: d.Runner}
	}
	return NewChecker(
		Check{Name: "Docker", Probe: d.Docker},
		Check{Name: "Docker Compose", Probe: d.DockerCompose},
		Check{Name: "NVIDIA GPU", Probe: d.NvidiaGPU},
		Check{Name: "NVIDIA Container Toolkit", Probe: d.NvidiaToolkit},
		Check{Name: "Claude Code", Probe: d.Claude},
		Check{Name: "Ollama API", Probe: d.OllamaAPI},
		Check{Name: "Ollama Version", Probe: d.OllamaVersion},
	)
}

// Docker checks that the docker executable is installed.
func (d Deps) Docker(ctx context.Context) Result {
	return d.tool(ctx, "Docker", "docker", "Install Docker: https://docs.docker.com/get-docker/")
}

// Claude checks that the claude executable is installed.
func (d Deps) Claude(ctx context.Context) Result {
	return d.tool(ctx, "Claude Code", "claude", "Install: npm install -g @anthropic-ai/claude-code")
}

func (d Deps) tool(ctx context.Context, name, bin, hint string) Result {
	if !process.CommandExists(ctx, d.Runner, bin) {
		return Result{Name: name, Status: StatusError, Message: "Not installed", Hint: hint}
	}
	version, _ := process.CommandVersion(ctx, d.Runner, bin)
	return Result{Name: name, Status: StatusOK, Message: "Installed", Version: version}
}

// DockerCompose prefers the compose v2 plugin and accepts legacy
// docker-compose with a warning.
func (d Deps) DockerCompose(ctx context.Context) Result {
	const name = "Docker Compose"

	res, err := d.Runner.Capture(ctx, []string{"docker", "compose", "version"}, process.Options{})
	if err == nil && res.ExitCode == 0 {
		return Result{Name: name, Status: StatusOK, Message: "Installed (v2)", Version: process.FirstLine(res.Stdout)}
	}

	if process.CommandExists(ctx, d.Runner, "docker-compose") {
		version, _ := process.CommandVersion(ctx, d.Runner, "docker-compose")
		return Result{
			Name:    name,
			Status:  StatusWarning,
			Message: "Using legacy v1",
			Version: version,
			Hint:    "Consider upgrading to Docker Compose v2",
		}
	}

	return Result{
		Name:    name,
		Status:  StatusError,
		Message: "Not installed",
		Hint:    "Docker Compose is included with Docker Desktop, or install separately",
	}
}

// NvidiaGPU counts GPUs reported by nvidia-smi.
func (d Deps) NvidiaGPU(ctx context.Context) Result {
	const name = "NVIDIA GPU"

	if !process.CommandExists(ctx, d.Runner, "nvidia-smi") {
		return Result{
			Name:    name,
			Status:  StatusWarning,
			Message: "nvidia-smi not found",
			Hint:    "GPU support requires NVIDIA drivers. CPU-only mode will be used.",
		}
	}

	res, err := d.Runner.Capture(ctx, []string{"nvidia-smi", "--query-gpu=name", "--format=csv,noheader"}, process.Options{})
	if err == nil && res.ExitCode == 0 {
		var gpus []string
		for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				gpus = append(gpus, line)
			}
		}
		if len(gpus) > 0 {
			return Result{
				Name:    name,
				Status:  StatusOK,
				Message: fmt.Sprintf("%d GPU(s) detected", len(gpus)),
				Version: gpus[0],
			}
		}
	}

	return Result{
		Name:    name,
		Status:  StatusWarning,
		Message: "nvidia-smi failed",
		Hint:    "GPU may not be available. Check NVIDIA drivers.",
	}
}

// NvidiaToolkit checks that the engine has the nvidia runtime registered.
func (d Deps) NvidiaToolkit(ctx context.Context) Result {
	const name = "NVIDIA Container Toolkit"

	if ok, err := container.HasRuntime(ctx, d.Engine, "nvidia"); err == nil && ok {
		return Result{Name: name, Status: StatusOK, Message: "nvidia runtime available"}
	}
	return Result{
		Name:    name,
		Status:  StatusWarning,
		Message: "nvidia runtime not found",
		Hint:    "Install: https://docs.nvidia.com/datacenter/cloud-native/container-toolkit/latest/install-guide.html",
	}
}

// OllamaAPI checks that the Ollama API answers and counts installed models.
func (d Deps) OllamaAPI(ctx context.Context) Result {
	const name = "Ollama API"

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	models, err := d.Ollama.Tags(ctx)
	if err == nil {
		return Result{
			Name:    name,
			Status:  StatusOK,
			Message: fmt.Sprintf("Connected (%d %s)", len(models), domain.Plural(len(models), "model")),
			Version: d.Ollama.URL(),
		}
	}

	var se *ollama.StatusError
	if errors.As(err, &se) {
		return Result{
			Name:    name,
			Status:  StatusWarning,
			Message: fmt.Sprintf("HTTP %d", se.Code),
			Hint:    "Ollama may not be running. Try: loclaude docker-up",
		}
	}
	return Result{
		Name:    name,
		Status:  StatusWarning,
		Message: "Not reachable",
		Hint:    fmt.Sprintf("Cannot connect to %s. Start Ollama: loclaude docker-up", d.Ollama.URL()),
	}
}

// OllamaVersion compares the server version with MinOllamaVersion.
func (d Deps) OllamaVersion(ctx context.Context) Result {
	const name = "Ollama Version"

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	v, err := d.Ollama.Version(ctx)
	if err != nil {
		return Result{
			Name:    name,
			Status:  StatusWarning,
			Message: "Could not determine version",
			Hint:    "Start Ollama to check its version: loclaude docker-up",
		}
	}

	switch cmp := CompareVersions(v, MinOllamaVersion); {
	case cmp < 0:
		return Result{
			Name:    name,
			Status:  StatusError,
			Message: fmt.Sprintf("Below minimum %s", MinOllamaVersion),
			Version: v,
			Hint:    fmt.Sprintf("Upgrade Ollama to %s or newer: docker compose pull && loclaude docker-restart", MinOllamaVersion),
		}
	case cmp == 0:
		return Result{
			Name:    name,
			Status:  StatusOK,
			Message: "Compatible",
			Version: v,
			Hint:    "This is the minimum supported version; upgrading is recommended",
		}
	default:
		return Result{Name: name, Status: StatusOK, Message: "Compatible", Version: v}
	}
}

func (d Deps) timeout() time.Duration {
	if d.Timeout <= 0 {
		return DefaultTimeout
	}
	return d.Timeout
}
