package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	work     string
	home     string
	env      map[string]string
	warnings []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		work: t.TempDir(),
		home: t.TempDir(),
		env:  map[string]string{},
	}
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(
		WithWorkDir(f.work),
		WithHomeDir(f.home),
		WithLookupEnv(func(k string) (string, bool) {
			v, ok := f.env[k]
			return v, ok
		}),
		WithWarnf(func(format string, args ...any) {
			f.warnings = append(f.warnings, fmt.Sprintf(format, args...))
		}),
	)
}

func (f *fixture) projectPath() string {
	return filepath.Join(f.work, DirName, FileName)
}

func (f *fixture) userPath() string {
	return filepath.Join(f.home, ".config", "loclaude", FileName)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "qwen3-coder:30b", cfg.Ollama.DefaultModel)
	assert.Equal(t, "./docker-compose.yml", cfg.Docker.ComposeFile)
	assert.True(t, cfg.Docker.GPU)
	assert.NotNil(t, cfg.Claude.ExtraArgs)
	assert.Empty(t, cfg.Claude.ExtraArgs)
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	f := newFixture(t)
	cfg := f.resolver().Load()

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, f.warnings)
}

func TestLoad_ProjectOverridesUserPerField(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.userPath(), `{
		"ollama": {"url": "http://user:1", "defaultModel": "user-model"},
		"claude": {"extraArgs": ["--verbose", "--debug"]}
	}`)
	writeFile(t, f.projectPath(), `{
		"ollama": {"url": "http://project:2"},
		"claude": {"extraArgs": ["--continue"]}
	}`)

	cfg := f.resolver().Load()

	assert.Equal(t, "http://project:2", cfg.Ollama.URL)
	assert.Equal(t, "user-model", cfg.Ollama.DefaultModel)
	assert.Equal(t, []string{"--continue"}, cfg.Claude.ExtraArgs, "project list replaces the user list")
	assert.Equal(t, "./docker-compose.yml", cfg.Docker.ComposeFile)
}

func TestLoad_MalformedFileIsSkippedWithWarning(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.userPath(), `{"ollama": {"defaultModel": "from-user"}}`)
	writeFile(t, f.projectPath(), `{"ollama": {"url": `)

	cfg := f.resolver().Load()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "from-user", cfg.Ollama.DefaultModel)
	require.Len(t, f.warnings, 1)
	assert.Contains(t, f.warnings[0], f.projectPath())
}

func TestLoad_NonObjectFileIsSkipped(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.projectPath(), `["not", "an", "object"]`)

	cfg := f.resolver().Load()

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Len(t, f.warnings, 1)
}

func TestLoad_WrongTypeFallsBackPerSection(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.projectPath(), `{
		"ollama": {"url": "http://ok:1"},
		"docker": {"gpu": "yes"}
	}`)

	cfg := f.resolver().Load()

	assert.Equal(t, "http://ok:1", cfg.Ollama.URL)
	assert.Equal(t, DefaultConfig().Docker, cfg.Docker)
	require.Len(t, f.warnings, 1)
	assert.Contains(t, f.warnings[0], "docker")
}

func TestLoad_WrongTypeKeepsOtherFileSection(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.userPath(), `{"ollama": {"defaultModel": "user-model"}}`)
	writeFile(t, f.projectPath(), `{"ollama": {"url": 5}}`)

	cfg := f.resolver().Load()

	assert.Equal(t, "user-model", cfg.Ollama.DefaultModel)
	assert.Equal(t, DefaultConfig().Ollama.URL, cfg.Ollama.URL)
	require.Len(t, f.warnings, 1)
	assert.Contains(t, f.warnings[0], f.projectPath())
}

func TestLoad_EnvWinsOverFiles(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.userPath(), `{"ollama": {"url": "http://user:1"}}`)
	writeFile(t, f.projectPath(), `{"ollama": {"url": "http://project:2", "defaultModel": "p"}, "docker": {"gpu": true}}`)
	f.env[EnvOllamaURL] = "http://env:3"
	f.env[EnvComposeFile] = "/srv/compose.yml"
	f.env[EnvGPU] = "0"

	cfg := f.resolver().Load()

	assert.Equal(t, "http://env:3", cfg.Ollama.URL)
	assert.Equal(t, "p", cfg.Ollama.DefaultModel)
	assert.Equal(t, "/srv/compose.yml", cfg.Docker.ComposeFile)
	assert.False(t, cfg.GPUEnabled(), "LOCLAUDE_GPU=0 disables the GPU")
}

func TestLoad_EmptyEnvIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.env[EnvOllamaURL] = ""
	f.env[EnvOllamaModel] = ""

	cfg := f.resolver().Load()

	assert.Equal(t, DefaultConfig().Ollama, cfg.Ollama)
}

func TestParseGPUFlag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"false", false},
		{"0", false},
		{"true", true},
		{"1", true},
		{"", true},
		{"no", true},
		{"FALSE", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGPUFlag(tt.in))
		})
	}
}

func TestLoad_IsCachedUntilCleared(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.projectPath(), `{"ollama": {"defaultModel": "first"}}`)
	r := f.resolver()

	require.Equal(t, "first", r.Load().Ollama.DefaultModel)

	writeFile(t, f.projectPath(), `{"ollama": {"defaultModel": "second"}}`)
	assert.Equal(t, "first", r.Load().Ollama.DefaultModel, "cached value")

	r.ClearCache()
	assert.Equal(t, "second", r.Load().Ollama.DefaultModel)
}

func TestLoad_ReturnsIndependentCopies(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.projectPath(), `{"claude": {"extraArgs": ["--verbose"]}}`)
	r := f.resolver()

	first := r.Load()
	first.Claude.ExtraArgs[0] = "--mutated"

	assert.Equal(t, "--verbose", r.Load().Claude.ExtraArgs[0])
}

func TestSearchPathsAndActiveConfig(t *testing.T) {
	f := newFixture(t)
	r := f.resolver()

	assert.Equal(t, []string{f.projectPath(), f.userPath()}, r.SearchPaths())

	_, ok := r.ActiveConfigPath()
	assert.False(t, ok)

	writeFile(t, f.userPath(), `{}`)
	got, ok := r.ActiveConfigPath()
	assert.True(t, ok)
	assert.Equal(t, f.userPath(), got)

	writeFile(t, f.projectPath(), `{}`)
	got, ok = r.ActiveConfigPath()
	assert.True(t, ok)
	assert.Equal(t, f.projectPath(), got)
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{
			name: "right-biased per field",
			a:    `{"ollama":{"url":"a","model":"m1"}}`,
			b:    `{"ollama":{"url":"b"}}`,
			want: `{"ollama":{"url":"b","model":"m1"}}`,
		},
		{
			name: "lists replaced wholesale",
			a:    `{"args":["a","b"]}`,
			b:    `{"args":["c"]}`,
			want: `{"args":["c"]}`,
		},
		{
			name: "scalar replaces mapping",
			a:    `{"docker":{"gpu":true}}`,
			b:    `{"docker":"none"}`,
			want: `{"docker":"none"}`,
		},
		{
			name: "mapping replaces scalar",
			a:    `{"docker":"none"}`,
			b:    `{"docker":{"gpu":false}}`,
			want: `{"docker":{"gpu":false}}`,
		},
		{
			name: "null in override is ignored",
			a:    `{"ollama":{"url":"a"}}`,
			b:    `{"ollama":null}`,
			want: `{"ollama":{"url":"a"}}`,
		},
		{
			name: "new keys are added",
			a:    `{"x":1}`,
			b:    `{"y":{"z":2}}`,
			want: `{"x":1,"y":{"z":2}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := decodeMap(t, tt.a), decodeMap(t, tt.b)

			assert.Equal(t, decodeMap(t, tt.want), DeepMerge(a, b))
			assert.Equal(t, decodeMap(t, tt.a), a, "base must not be modified")
		})
	}
}

func decodeMap(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestClaudeExtraArgsIsACopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Claude.ExtraArgs = []string{"--verbose"}

	args := cfg.ClaudeExtraArgs()
	args[0] = "--changed"

	assert.Equal(t, "--verbose", cfg.Claude.ExtraArgs[0])
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Ollama.URL = "localhost:11434"
	cfg.Ollama.DefaultModel = " "
	cfg.Claude.ExtraArgs = []string{"--model=x"}

	var verr *ValidationError
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Len(t, verr.Errors, 3)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "schema has no properties: %s", data)
	for _, key := range []string{"ollama", "docker", "claude"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, doc, "required")
}
