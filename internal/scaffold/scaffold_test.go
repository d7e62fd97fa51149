package scaffold

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/ui"
)

func read(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	return string(data)
}

type composeDoc struct {
	Services map[string]struct {
		Image   string         `yaml:"image"`
		Runtime string         `yaml:"runtime"`
		Deploy  map[string]any `yaml:"deploy"`
	} `yaml:"services"`
	Volumes map[string]any `yaml:"volumes"`
}

func parseCompose(t *testing.T, content string) composeDoc {
	t.Helper()
	var doc composeDoc
	require.NoError(t, yaml.Unmarshal([]byte(content), &doc), content)
	return doc
}

func TestInitCreatesProject(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	res, err := Init(Options{Dir: dir}, ui.Plain(&out))
	require.NoError(t, err)

	for _, rel := range []string{
		"README.md", "docker-compose.yml", "mise.toml",
		".claude/CLAUDE.md", ".loclaude/config.json", ".gitignore",
	} {
		assert.Equal(t, Created, res.Action(rel), rel)
		assert.FileExists(t, filepath.Join(dir, rel))
	}
	assert.DirExists(t, filepath.Join(dir, "models"))
	assert.Equal(t, "# Ollama models (large binary files)\nmodels/\n", read(t, dir, ".gitignore"))

	doc := parseCompose(t, read(t, dir, "docker-compose.yml"))
	require.Contains(t, doc.Services, "ollama")
	require.Contains(t, doc.Services, "open-webui")
	assert.Equal(t, "nvidia", doc.Services["ollama"].Runtime)
	assert.NotNil(t, doc.Services["ollama"].Deploy)
	assert.Contains(t, doc.Volumes, "open-webui")

	assert.Contains(t, out.String(), "✓ Created docker-compose.yml")
	assert.Contains(t, out.String(), "Open WebUI")
}

func TestInitConfigLoadsBack(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(Options{Dir: dir, NoGPU: true}, ui.Plain(&bytes.Buffer{}))
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(read(t, dir, ".loclaude/config.json")), &raw))
	assert.Equal(t, "http://localhost:11434", raw["ollama"]["url"])
	assert.Equal(t, false, raw["docker"]["gpu"])

	r := config.NewResolver(
		config.WithWorkDir(dir),
		config.WithHomeDir(t.TempDir()),
		config.WithLookupEnv(func(string) (string, bool) { return "", false }),
	)
	cfg := r.Load()
	assert.False(t, cfg.GPUEnabled())
	assert.Equal(t, "qwen3-coder:30b", cfg.DefaultModel())
}

func TestInitNoWebUI(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	_, err := Init(Options{Dir: dir, NoWebUI: true}, ui.Plain(&out))
	require.NoError(t, err)

	content := read(t, dir, "docker-compose.yml")
	doc := parseCompose(t, content)
	assert.Equal(t, []string{"ollama"}, keys(doc.Services))
	assert.Empty(t, doc.Volumes)
	assert.NotContains(t, content, "open-webui")
	assert.NotContains(t, out.String(), "Open WebUI")
	assert.NotContains(t, read(t, dir, "README.md"), "localhost:3000")
}

func TestInitNoGPU(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(Options{Dir: dir, NoGPU: true}, ui.Plain(&bytes.Buffer{}))
	require.NoError(t, err)

	content := read(t, dir, "docker-compose.yml")
	doc := parseCompose(t, content)
	assert.Empty(t, doc.Services["ollama"].Runtime)
	assert.Nil(t, doc.Services["ollama"].Deploy)
	assert.Equal(t, "ghcr.io/open-webui/open-webui:main", doc.Services["open-webui"].Image)
	assert.NotContains(t, content, "nvidia")

	var mise MiseFile
	_, err = toml.Decode(read(t, dir, "mise.toml"), &mise)
	require.NoError(t, err)
	assert.NotContains(t, mise.Tasks, "gpu")
}

func TestInitKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/"), 0o644))
	var out bytes.Buffer

	res, err := Init(Options{Dir: dir}, ui.Plain(&out))
	require.NoError(t, err)

	assert.Equal(t, Skipped, res.Action("docker-compose.yml"))
	assert.Equal(t, "services: {}\n", read(t, dir, "docker-compose.yml"))
	assert.Contains(t, out.String(), "⚠ docker-compose.yml already exists")
	assert.Contains(t, out.String(), "Use --force to overwrite")

	assert.Equal(t, Updated, res.Action(".gitignore"))
	assert.Equal(t, "node_modules/\n\n# Ollama models (large binary files)\nmodels/\n", read(t, dir, ".gitignore"))
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("models/\n"), 0o644))

	res, err := Init(Options{Dir: dir, Force: true}, ui.Plain(&bytes.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, Overwritten, res.Action("docker-compose.yml"))
	assert.Contains(t, read(t, dir, "docker-compose.yml"), "ollama/ollama:latest")
	assert.Equal(t, Skipped, res.Action(".gitignore"))
	assert.Equal(t, "models/\n", read(t, dir, ".gitignore"))
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(Options{Dir: dir}, ui.Plain(&bytes.Buffer{}))
	require.NoError(t, err)

	res, err := Init(Options{Dir: dir}, ui.Plain(&bytes.Buffer{}))
	require.NoError(t, err)
	for _, s := range res.Steps {
		assert.Equal(t, Skipped, s.Action, s.Path)
	}
}

func TestInitRequiresDir(t *testing.T) {
	_, err := Init(Options{}, ui.Plain(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestMiseTasksRoundTrip(t *testing.T) {
	data, err := MiseTasks(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Mise task runner configuration"))

	var got MiseFile
	_, err = toml.Decode(string(data), &got)
	require.NoError(t, err)
	assert.Equal(t, DefaultMiseTasks(true), got)
	assert.Equal(t, "loclaude run -m {{arg(name='model')}}", got.Tasks["claude:model"].Run)
}

func TestSkipWelcome(t *testing.T) {
	env := func(v string, ok bool) func(string) (string, bool) {
		return func(string) (string, bool) { return v, ok }
	}
	assert.True(t, SkipWelcome(env("true", true)))
	assert.False(t, SkipWelcome(env("1", true)))
	assert.False(t, SkipWelcome(env("", false)))
}

func TestWelcome(t *testing.T) {
	var out bytes.Buffer
	Welcome(ui.Plain(&out), "1.2.3")
	assert.Contains(t, out.String(), "Successfully installed!")
	assert.Contains(t, out.String(), "loclaude 1.2.3")
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
