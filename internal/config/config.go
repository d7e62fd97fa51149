// Package config resolves loclaude configuration from defaults, JSON config
// files and environment variables.
//
// Priority (highest to lowest):
//  1. Environment variables
//  2. Project config (./.loclaude/config.json)
//  3. User config (~/.config/loclaude/config.json)
//  4. Default values
package config

import "slices"

const (
	// DirName is the project-level config directory.
	DirName = ".loclaude"
	// FileName is the config file name in both search locations.
	FileName = "config.json"
)

// Environment variables recognized as overrides.
const (
	EnvOllamaURL   = "OLLAMA_URL"
	EnvOllamaModel = "OLLAMA_MODEL"
	EnvComposeFile = "LOCLAUDE_COMPOSE_FILE"
	EnvGPU         = "LOCLAUDE_GPU"
)

// Config holds the fully resolved loclaude configuration.
type Config struct {
	Ollama OllamaConfig `json:"ollama"`
	Docker DockerConfig `json:"docker"`
	Claude ClaudeConfig `json:"claude"`
}

// OllamaConfig locates the inference backend.
type OllamaConfig struct {
	URL          string `json:"url" jsonschema:"description=Base URL of the Ollama API,default=http://localhost:11434"`
	DefaultModel string `json:"defaultModel" jsonschema:"description=Model used when none is selected,default=qwen3-coder:30b"`
}

// DockerConfig controls the compose stack.
type DockerConfig struct {
	ComposeFile string `json:"composeFile" jsonschema:"description=Path to docker-compose.yml (relative to the working directory),default=./docker-compose.yml"`
	GPU         bool   `json:"gpu" jsonschema:"description=Whether the stack uses the NVIDIA runtime,default=true"`
}

// ClaudeConfig holds arguments always passed to the claude executable.
type ClaudeConfig struct {
	ExtraArgs []string `json:"extraArgs" jsonschema:"description=Arguments appended after --model on every launch"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Ollama: OllamaConfig{
			URL:          "http://localhost:11434",
			DefaultModel: "qwen3-coder:30b",
		},
		Docker: DockerConfig{
			ComposeFile: "./docker-compose.yml",
			GPU:         true,
		},
		Claude: ClaudeConfig{
			ExtraArgs: []string{},
		},
	}
}

// OllamaURL returns the Ollama base URL.
func (c Config) OllamaURL() string { return c.Ollama.URL }

// DefaultModel returns the configured default model.
func (c Config) DefaultModel() string { return c.Ollama.DefaultModel }

// ComposeFile returns the configured compose file path.
func (c Config) ComposeFile() string { return c.Docker.ComposeFile }

// GPUEnabled reports whether GPU support is enabled.
func (c Config) GPUEnabled() bool { return c.Docker.GPU }

// ClaudeExtraArgs returns a copy of the extra claude arguments.
func (c Config) ClaudeExtraArgs() []string {
	if len(c.Claude.ExtraArgs) == 0 {
		return []string{}
	}
	return slices.Clone(c.Claude.ExtraArgs)
}
