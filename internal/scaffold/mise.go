package scaffold

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// MiseFile is the mise task runner configuration written by init.
type MiseFile struct {
	Tasks map[string]MiseTask `toml:"tasks"`
}

// MiseTask is one `mise run` target.
type MiseTask struct {
	Description string `toml:"description"`
	Run         string `toml:"run"`
}

const miseHeader = `# Mise task runner configuration
# Run ` + "`mise tasks`" + ` to see all available tasks
# https://mise.jdx.dev/

`

// DefaultMiseTasks returns the tasks wrapping loclaude commands. The gpu
// task is only included when gpu is set.
func DefaultMiseTasks(gpu bool) MiseFile {
	tasks := map[string]MiseTask{
		"up":      {"Start the Ollama stack", "loclaude docker-up"},
		"down":    {"Stop all containers", "loclaude docker-down"},
		"restart": {"Restart all containers", "loclaude docker-restart"},
		"status":  {"Show container status", "loclaude docker-status"},
		"logs":    {"Follow container logs", "loclaude docker-logs --follow"},
		"models":  {"List installed models", "loclaude models"},
		"pull": {
			"Pull a model (usage: mise run pull <model-name>)",
			"loclaude models-pull {{arg(name='model')}}",
		},
		"claude": {"Run Claude Code with local Ollama", "loclaude run"},
		"claude:model": {
			"Run Claude with specific model (usage: mise run claude:model <model>)",
			"loclaude run -m {{arg(name='model')}}",
		},
		"doctor": {"Check system requirements", "loclaude doctor"},
	}
	if gpu {
		tasks["gpu"] = MiseTask{"Check GPU status", "docker exec ollama nvidia-smi"}
	}
	return MiseFile{Tasks: tasks}
}

// MiseTasks encodes DefaultMiseTasks as TOML.
func MiseTasks(gpu bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(miseHeader)

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(DefaultMiseTasks(gpu)); err != nil {
		return nil, fmt.Errorf("encode mise.toml: %w", err)
	}
	return buf.Bytes(), nil
}
