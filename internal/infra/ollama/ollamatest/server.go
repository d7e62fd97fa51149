// Package ollamatest provides an in-process fake Ollama server for tests.
package ollamatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loclaude/loclaude/internal/infra/ollama"
)

// Server is a fake Ollama API. Its state may be changed between requests
// through the Set methods.
type Server struct {
	URL string

	mu         sync.Mutex
	models     []ollama.Model
	running    []ollama.RunningModel
	version    string
	failStatus int
	delay      time.Duration
	generated  []ollama.GenerateRequest
	requestIDs []string
	srv        *httptest.Server
}

// New starts a fake server that is closed when the test finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{version: "0.15.0"}
	s.srv = httptest.NewServer(s.Handler())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Handler returns the chi router serving the fake endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.intercept)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tags", s.handleTags)
		r.Get("/ps", s.handlePs)
		r.Get("/version", s.handleVersion)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

// SetModels replaces the installed model list.
func (s *Server) SetModels(models ...ollama.Model) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = models
	return s
}

// SetRunning replaces the loaded model list.
func (s *Server) SetRunning(models ...ollama.RunningModel) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = models
	return s
}

// SetVersion sets the version reported by /api/version.
func (s *Server) SetVersion(v string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
	return s
}

// FailWith makes every request answer with status. Zero restores normal
// behaviour.
func (s *Server) FailWith(status int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	return s
}

// Delay holds every response for d.
func (s *Server) Delay(d time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Generated returns the generate requests received so far.
func (s *Server) Generated() []ollama.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ollama.GenerateRequest(nil), s.generated...)
}

// RequestIDs returns the X-Request-Id header of every request received.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Close stops the server early, making its URL unreachable.
func (s *Server) Close() { s.srv.Close() }

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-Id"))
		status, delay := s.failStatus, s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	models := append([]ollama.Model{}, s.models...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func (s *Server) handlePs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	running := append([]ollama.RunningModel{}, s.running...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"models": running})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"version": v})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req ollama.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.generated = append(s.generated, req)
	known := false
	for _, m := range s.models {
		if m.Name == req.Model {
			known = true
		}
	}
	if known {
		s.running = append(s.running, ollama.RunningModel{
			Name:      req.Model,
			Model:     req.Model,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		})
	}
	s.mu.Unlock()

	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "model '" + req.Model + "' not found"})
		return
	}
	writeJSON(w, http.StatusOK, ollama.GenerateResponse{
		Model:      req.Model,
		CreatedAt:  time.Now().UTC(),
		Done:       true,
		DoneReason: "load",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
