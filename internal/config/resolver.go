package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Resolver loads the layered configuration once and caches it. It is
// constructed at startup and handed to every component that needs
// configuration; ClearCache forces the next Load to re-read all sources.
type Resolver struct {
	workDir string
	homeDir string
	lookup  func(string) (string, bool)
	warnf   func(format string, args ...any)

	mu     sync.Mutex
	cached *Config
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithWorkDir sets the directory the project config is searched in.
func WithWorkDir(dir string) Option {
	return func(r *Resolver) { r.workDir = dir }
}

// WithHomeDir sets the directory the user config is searched under.
func WithHomeDir(dir string) Option {
	return func(r *Resolver) { r.homeDir = dir }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookup = fn }
}

// WithWarnf replaces the sink for recoverable problems such as malformed
// config files.
func WithWarnf(fn func(format string, args ...any)) Option {
	return func(r *Resolver) { r.warnf = fn }
}

// NewResolver creates a resolver for the current process.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookup: os.LookupEnv,
		warnf:  log.Warnf,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workDir == "" {
		r.workDir, _ = os.Getwd()
	}
	if r.homeDir == "" {
		r.homeDir, _ = os.UserHomeDir()
	}
	return r
}

// Load returns the resolved configuration. Only the first call reads files
// and environment; later calls return the cached value.
func (r *Resolver) Load() Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return clone(*r.cached)
	}

	layer := DeepMerge(r.loadFiles(), r.loadEnv())
	cfg := r.decode(layer)
	r.cached = &cfg
	return clone(cfg)
}

// ClearCache discards the cached configuration.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// SearchPaths returns every config path checked, in priority order.
func (r *Resolver) SearchPaths() []string {
	return []string{
		filepath.Join(r.workDir, DirName, FileName),
		filepath.Join(r.homeDir, ".config", "loclaude", FileName),
	}
}

// ActiveConfigPath returns the highest-priority config file that exists.
func (r *Resolver) ActiveConfigPath() (string, bool) {
	for _, path := range r.SearchPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// WorkDir returns the directory the resolver treats as the project root.
func (r *Resolver) WorkDir() string { return r.workDir }

// loadFiles merges all existing config files, user first so the project
// file wins field by field.
func (r *Resolver) loadFiles() map[string]any {
	merged := map[string]any{}
	paths := r.SearchPaths()
	slices.Reverse(paths)

	for _, path := range paths {
		if !fileExists(path) {
			continue
		}
		layer, ok := r.loadFile(path)
		if !ok {
			continue
		}
		merged = DeepMerge(merged, layer)
	}
	return merged
}

func (r *Resolver) loadFile(path string) (map[string]any, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.warnf("Warning: Failed to read config file %s: %v", path, err)
		return nil, false
	}
	var layer map[string]any
	if err := json.Unmarshal(data, &layer); err != nil {
		r.warnf("Warning: Failed to parse config file %s", path)
		return nil, false
	}
	r.dropBadSections(path, layer)
	log.WithField("path", path).Debug("loaded config file")
	return layer, true
}

// dropBadSections removes the sections of one file whose values have the
// wrong type, so they cannot discard valid values from the other file once
// merged.
func (r *Resolver) dropBadSections(path string, layer map[string]any) {
	sections := map[string]func() any{
		"ollama": func() any { return &OllamaConfig{} },
		"docker": func() any { return &DockerConfig{} },
		"claude": func() any { return &ClaudeConfig{} },
	}
	for key, zero := range sections {
		raw, ok := layer[key]
		if !ok {
			continue
		}
		if err := remarshal(raw, zero()); err != nil {
			r.warnf("Warning: Ignoring config section %q in %s: %v", key, path, err)
			delete(layer, key)
		}
	}
}

// loadEnv builds the environment override layer.
func (r *Resolver) loadEnv() map[string]any {
	ollama := map[string]any{}
	docker := map[string]any{}

	if v, ok := r.lookup(EnvOllamaURL); ok && v != "" {
		ollama["url"] = v
	}
	if v, ok := r.lookup(EnvOllamaModel); ok && v != "" {
		ollama["defaultModel"] = v
	}
	if v, ok := r.lookup(EnvComposeFile); ok && v != "" {
		docker["composeFile"] = v
	}
	if v, ok := r.lookup(EnvGPU); ok {
		docker["gpu"] = ParseGPUFlag(v)
	}

	layer := map[string]any{}
	if len(ollama) > 0 {
		layer["ollama"] = ollama
	}
	if len(docker) > 0 {
		layer["docker"] = docker
	}
	return layer
}

// decode applies the merged layer over the defaults one section at a time.
// A section whose values have the wrong type falls back to its defaults.
func (r *Resolver) decode(layer map[string]any) Config {
	cfg := DefaultConfig()

	decodeSection(r, layer, "ollama", &cfg.Ollama)
	decodeSection(r, layer, "docker", &cfg.Docker)
	decodeSection(r, layer, "claude", &cfg.Claude)

	if cfg.Claude.ExtraArgs == nil {
		cfg.Claude.ExtraArgs = []string{}
	}
	return cfg
}

func decodeSection[T any](r *Resolver, layer map[string]any, key string, dst *T) {
	raw, ok := layer[key]
	if !ok {
		return
	}
	section := *dst
	if err := remarshal(raw, &section); err != nil {
		r.warnf("Warning: Ignoring config section %q: %v", key, err)
		return
	}
	*dst = section
}

func remarshal(src, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// ParseGPUFlag interprets LOCLAUDE_GPU: only "false" and "0" disable GPU.
func ParseGPUFlag(v string) bool {
	return v != "false" && v != "0"
}

func clone(c Config) Config {
	c.Claude.ExtraArgs = slices.Clone(c.Claude.ExtraArgs)
	if c.Claude.ExtraArgs == nil {
		c.Claude.ExtraArgs = []string{}
	}
	return c
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
