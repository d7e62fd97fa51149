package models

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/ollama"
)

// IsLoaded reports whether name is resident in memory.
func (m *Manager) IsLoaded(ctx context.Context, name string) (bool, error) {
	running, err := m.Running(ctx)
	if err != nil {
		return false, err
	}
	return LoadedIn(running, name), nil
}

// LoadedIn reports whether name matches any running model. Names match
// exactly, or when one side equals the other with its tag stripped, so
// "llama3" matches "llama3:latest" and vice versa.
func LoadedIn(running []ollama.RunningModel, name string) bool {
	base := domain.BaseModelName(name)
	for _, r := range running {
		for _, candidate := range []string{r.Name, r.Model} {
			if candidate == "" {
				continue
			}
			if candidate == name || candidate == base || domain.BaseModelName(candidate) == name {
				return true
			}
		}
	}
	return false
}

// Preload loads name into memory unless it is already resident, waiting
// until the server has finished loading it.
func (m *Manager) Preload(ctx context.Context, name, keepAlive string) error {
	loaded, err := m.IsLoaded(ctx, name)
	if err != nil {
		return fmt.Errorf("check loaded models: %w", err)
	}
	if loaded {
		log.WithField("model", name).Debug("model already loaded")
		return nil
	}

	_, err = m.client.Generate(ctx, ollama.GenerateRequest{
		Model:     name,
		Prompt:    "",
		KeepAlive: keepAlive,
	})
	if err != nil {
		return fmt.Errorf("load model %s: %w", name, err)
	}
	return nil
}

// EnsureLoaded pre-loads name with the default keep-alive. Failure is
// logged as a warning and otherwise ignored.
func (m *Manager) EnsureLoaded(ctx context.Context, name string) {
	m.out.Printf("Loading model %s...\n", name)
	if err := m.Preload(ctx, name, DefaultKeepAlive); err != nil {
		log.WithError(err).WithField("model", name).Warn("Could not pre-load model; it will load on first use")
		return
	}
	m.out.Success(fmt.Sprintf("Model %s ready", name))
}
