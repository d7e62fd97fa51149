package compose

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOllamaContainer is assumed when the compose file does not name
// the Ollama container.
const DefaultOllamaContainer = "ollama"

// File is the subset of a compose file loclaude reads.
type File struct {
	Services map[string]Service `yaml:"services"`
}

// Service is one compose service.
type Service struct {
	Image         string `yaml:"image"`
	ContainerName string `yaml:"container_name"`
	Runtime       string `yaml:"runtime,omitempty"`
}

// ParseFile reads and decodes a compose file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compose file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", path, err)
	}
	return &f, nil
}

// ServiceNames returns the declared services, sorted.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasService reports whether name is declared.
func (f *File) HasService(name string) bool {
	_, ok := f.Services[name]
	return ok
}

// OllamaContainer returns the container name of the service running the
// ollama/ollama image.
func (f *File) OllamaContainer() string {
	for _, name := range f.ServiceNames() {
		svc := f.Services[name]
		if !strings.HasPrefix(svc.Image, "ollama/ollama") {
			continue
		}
		if svc.ContainerName != "" {
			return svc.ContainerName
		}
		return DefaultOllamaContainer
	}
	return DefaultOllamaContainer
}
