package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{4_100_000_000, "4.1 GB"},
		{18_000_000_000, "18 GB"},
		{-1, "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.in), "HumanSize(%d)", tt.in)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero", time.Time{}, "-"},
		{"seconds", now.Add(-20 * time.Second), "just now"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-72 * time.Hour), "3 days ago"},
		{"future", now.Add(5 * time.Minute), "5 minutes from now"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(tt.in, now), tt.name)
	}
}

func TestBaseModelName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"qwen3-coder:30b", "qwen3-coder"},
		{"llama3.2", "llama3.2"},
		{"registry.local:5000/llama3.2", "registry.local:5000/llama3.2"},
		{"hf.co/org/model:Q4_K_M", "hf.co/org/model"},
		{":latest", ":latest"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseModelName(tt.in), "BaseModelName(%q)", tt.in)
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "model", Plural(1, "model"))
	for _, n := range []int{0, 2} {
		assert.Equal(t, "models", Plural(n, "model"), "Plural(%d)", n)
	}
}

func TestWithHint(t *testing.T) {
	assert.NoError(t, WithHint(nil, "unused"))

	err := fmt.Errorf("pull: %w", WithHint(ErrModelNameRequired, "Usage: loclaude models-pull <model-name>"))
	assert.ErrorIs(t, err, ErrModelNameRequired)
	assert.Equal(t, "Usage: loclaude models-pull <model-name>", HintOf(err))
	assert.EqualError(t, err, "pull: model name required")
	assert.Empty(t, HintOf(errors.New("plain")))
}
