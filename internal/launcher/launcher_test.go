package launcher

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/ollama"
	"github.com/loclaude/loclaude/internal/infra/ollama/ollamatest"
	"github.com/loclaude/loclaude/internal/infra/process"
	"github.com/loclaude/loclaude/internal/models"
	"github.com/loclaude/loclaude/internal/ui"
)

type recordingSelector struct {
	choices []Choice
	pick    int
	err     error
}

func (s *recordingSelector) Select(_ string, choices []Choice) (string, error) {
	s.choices = choices
	if s.err != nil {
		return "", s.err
	}
	return choices[s.pick].Value, nil
}

type fixture struct {
	srv      *ollamatest.Server
	fake     *process.Fake
	cfg      config.Config
	selector *recordingSelector
}

func newFixture(t *testing.T) *fixture {
	srv := ollamatest.New(t)
	cfg := config.DefaultConfig()
	cfg.Ollama.URL = srv.URL
	return &fixture{
		srv:      srv,
		fake:     process.NewFake(),
		cfg:      cfg,
		selector: &recordingSelector{},
	}
}

func (f *fixture) launcher() *Launcher {
	mgr := models.New(ollama.NewClient(f.cfg.OllamaURL()), f.fake, models.WithOutput(ui.Plain(&bytes.Buffer{})))
	return New(f.cfg, mgr, f.fake,
		WithSelector(f.selector),
		WithEnviron(func() []string {
			return []string{"HOME=/home/dev", "ANTHROPIC_BASE_URL=https://api.anthropic.com"}
		}),
	)
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		model string
		rest  []string
	}{
		{"empty", nil, "", []string{}},
		{"short flag", []string{"-m", "llama3", "--continue"}, "llama3", []string{"--continue"}},
		{"long flag", []string{"--verbose", "--model", "qwen3"}, "qwen3", []string{"--verbose"}},
		{"equals form", []string{"--model=gpt-oss:20b", "-p", "hi"}, "gpt-oss:20b", []string{"-p", "hi"}},
		{"short equals form", []string{"-m=qwen3:8b", "--continue"}, "qwen3:8b", []string{"--continue"}},
		{"separator dropped", []string{"-m", "a", "--", "-m", "b"}, "a", []string{"-m", "b"}},
		{"passthrough only", []string{"--help"}, "", []string{"--help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, rest, err := ParseArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.model, model)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestParseArgsMissingValue(t *testing.T) {
	_, _, err := ParseArgs([]string{"--continue", "-m"})
	assert.Error(t, err)
}

func TestEnvironment(t *testing.T) {
	base := []string{"PATH=/usr/bin", "ANTHROPIC_AUTH_TOKEN=sk-real"}
	env := Environment(base, "http://localhost:11434")

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"ANTHROPIC_AUTH_TOKEN=ollama",
		"ANTHROPIC_BASE_URL=http://localhost:11434",
	}, env)
	assert.Equal(t, "ANTHROPIC_AUTH_TOKEN=sk-real", base[1], "base must not be modified")
}

func TestCommand(t *testing.T) {
	got := Command("qwen3-coder:30b", []string{"--verbose"}, []string{"-p", "hello"})
	assert.Equal(t, []string{"claude", "--model", "qwen3-coder:30b", "--verbose", "-p", "hello"}, got)
}

func TestLaunchExplicitModel(t *testing.T) {
	f := newFixture(t)
	f.srv.SetModels(ollama.Model{Name: "llama3:latest"})
	f.cfg.Claude.ExtraArgs = []string{"--verbose"}
	f.fake.On(process.Result{ExitCode: 42}, "claude", "--model", "llama3:latest", "--verbose", "--continue")

	code, err := f.launcher().Launch(context.Background(), []string{"-m", "llama3:latest", "--continue"})
	require.NoError(t, err)
	assert.Equal(t, 42, code, "claude's exit code is propagated")

	require.Equal(t, 1, f.fake.RunCount())
	env := f.fake.RunOpts[0].Env
	assert.Contains(t, env, "ANTHROPIC_AUTH_TOKEN=ollama")
	assert.Contains(t, env, "ANTHROPIC_BASE_URL="+f.srv.URL)
	assert.NotContains(t, env, "ANTHROPIC_BASE_URL=https://api.anthropic.com")
	assert.Contains(t, env, "HOME=/home/dev")

	assert.Len(t, f.srv.Generated(), 1, "model is pre-loaded")
	assert.Nil(t, f.selector.choices, "no prompt with an explicit model")
}

func TestLaunchHelpUsesDefaultModel(t *testing.T) {
	f := newFixture(t)

	_, err := f.launcher().Launch(context.Background(), []string{"--help"})
	require.NoError(t, err)

	assert.Equal(t, []string{"claude", "--model", "qwen3-coder:30b", "--help"}, f.fake.LastRun())
	assert.Nil(t, f.selector.choices)
	assert.Empty(t, f.srv.Generated())
}

func TestLaunchInteractiveSelection(t *testing.T) {
	f := newFixture(t)
	f.srv.SetModels(
		ollama.Model{Name: "qwen3-coder:30b", Size: 18_000_000_000},
		ollama.Model{Name: "llama3.2:latest", Size: 2_000_000_000},
	).SetRunning(ollama.RunningModel{Name: "qwen3-coder:30b", Model: "qwen3-coder:30b"})
	f.selector.pick = 1

	_, err := f.launcher().Launch(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, f.selector.choices, 2)
	assert.Equal(t, "qwen3-coder:30b (18 GB) [loaded]", f.selector.choices[0].Label)
	assert.Equal(t, "llama3.2:latest (2.0 GB)", f.selector.choices[1].Label)
	assert.Equal(t, []string{"claude", "--model", "llama3.2:latest"}, f.fake.LastRun())
}

func TestLaunchNoModels(t *testing.T) {
	f := newFixture(t)

	code, err := f.launcher().Launch(context.Background(), nil)
	assert.Equal(t, 1, code)
	require.ErrorIs(t, err, domain.ErrNoModels)
	assert.Contains(t, domain.HintOf(err), "models-pull")
	assert.Equal(t, 0, f.fake.RunCount())
}

func TestLaunchUnreachable(t *testing.T) {
	f := newFixture(t)
	f.srv.Close()

	code, err := f.launcher().Launch(context.Background(), []string{"-p", "hi"})
	assert.Equal(t, 1, code)
	require.ErrorIs(t, err, domain.ErrOllamaUnreachable)
	assert.Contains(t, err.Error(), f.srv.URL)
	assert.Equal(t, "Make sure Ollama is running: loclaude docker-up", domain.HintOf(err))
	assert.Equal(t, 0, f.fake.RunCount())
}

func TestLaunchSelectionCancelled(t *testing.T) {
	f := newFixture(t)
	f.srv.SetModels(ollama.Model{Name: "m"})
	f.selector.err = ErrSelectionCancelled

	_, err := f.launcher().Launch(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrSelectionCancelled))
	assert.Equal(t, 0, f.fake.RunCount())
}

func TestLaunchPreloadFailureStillLaunches(t *testing.T) {
	f := newFixture(t)
	f.fake.On(process.Result{}, "claude", "--model", "not-pulled")

	code, err := f.launcher().Launch(context.Background(), []string{"--model=not-pulled"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, 1, f.fake.RunCount())
}

func TestWantsHelpAndVersion(t *testing.T) {
	assert.True(t, WantsHelp([]string{"-p", "x", "-h"}))
	assert.False(t, WantsHelp([]string{"--helpful"}))
	assert.True(t, WantsVersion([]string{"--version"}))
	assert.False(t, WantsVersion([]string{"--version", "-p"}))
}
