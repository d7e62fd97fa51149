// Package container inspects the local container engine: which runtimes
// it offers and whether a named container is running. The Docker Engine
// API is used when its socket answers; otherwise the docker CLI is asked.
package container

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/infra/process"
)

// Engine answers questions about the container engine.
type Engine interface {
	// Runtimes lists the OCI runtimes registered with the engine.
	Runtimes(ctx context.Context) ([]string, error)
	// Running reports whether a running container's name matches name.
	Running(ctx context.Context, name string) (bool, error)
	Close() error
}

// HasRuntime reports whether the engine registers runtime.
func HasRuntime(ctx context.Context, e Engine, runtime string) (bool, error) {
	runtimes, err := e.Runtimes(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(runtimes, runtime), nil
}

// Detect returns an SDK-backed engine when the daemon answers a ping
// within two seconds, and a CLI-backed engine otherwise.
func Detect(ctx context.Context, r process.Runner) Engine {
	sdk, err := NewSDK()
	if err != nil {
		log.WithError(err).Debug("docker sdk unavailable, using cli")
		return &CLI{Runner: r}
	}

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := sdk.cli.Ping(pctx); err != nil {
		log.WithError(err).Debug("docker daemon did not answer ping, using cli")
		sdk.Close()
		return &CLI{Runner: r}
	}
	return sdk
}

// ─── SDK ────────────────────────────────────────────────────────────────────

// SDK talks to the Docker Engine API directly.
type SDK struct {
	cli *client.Client
}

// NewSDK creates a client from the DOCKER_* environment.
func NewSDK() (*SDK, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &SDK{cli: cli}, nil
}

// Runtimes implements Engine.
func (s *SDK) Runtimes(ctx context.Context) ([]string, error) {
	info, err := s.cli.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("docker info: %w", err)
	}
	names := make([]string, 0, len(info.Runtimes))
	for name := range info.Runtimes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Running implements Engine.
func (s *SDK) Running(ctx context.Context, name string) (bool, error) {
	containers, err := s.cli.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list containers: %w", err)
	}
	return len(containers) > 0, nil
}

// Close implements Engine.
func (s *SDK) Close() error { return s.cli.Close() }

// ─── CLI ────────────────────────────────────────────────────────────────────

// CLI shells out to the docker executable.
type CLI struct {
	Runner process.Runner
}

// Runtimes implements Engine.
func (c *CLI) Runtimes(ctx context.Context) ([]string, error) {
	res, err := c.Runner.Capture(ctx, []string{"docker", "info", "--format", "{{json .Runtimes}}"}, process.Options{})
	if err != nil {
		return nil, fmt.Errorf("docker info: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("docker info: exit status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return parseRuntimes(res.Stdout)
}

// Running implements Engine.
func (c *CLI) Running(ctx context.Context, name string) (bool, error) {
	res, err := c.Runner.Capture(ctx, []string{"docker", "ps", "--filter", "name=" + name, "--format", "{{.Names}}"}, process.Options{})
	if err != nil {
		return false, fmt.Errorf("docker ps: %w", err)
	}
	if res.ExitCode != 0 {
		return false, fmt.Errorf("docker ps: exit status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// Close implements Engine.
func (c *CLI) Close() error { return nil }

func parseRuntimes(out string) ([]string, error) {
	var runtimes map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &runtimes); err != nil {
		return nil, fmt.Errorf("parse docker runtimes: %w", err)
	}
	names := make([]string, 0, len(runtimes))
	for name := range runtimes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
