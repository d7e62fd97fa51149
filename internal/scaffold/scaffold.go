// Package scaffold creates the files of a loclaude project: the compose
// stack, project config, mise tasks and Claude instructions.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	log "github.com/sirupsen/logrus"

	"github.com/loclaude/loclaude/internal/config"
	"github.com/loclaude/loclaude/internal/ui"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const gitignoreEntry = "models/"

const gitignoreTemplate = "# Ollama models (large binary files)\nmodels/\n"

// Options controls what Init writes.
type Options struct {
	Dir     string
	Force   bool
	NoWebUI bool
	NoGPU   bool
	// Config seeds the generated config.json and docs.
	Config config.Config
}

// Action is what happened to one project file.
type Action string

const (
	Created     Action = "created"
	Overwritten Action = "overwritten"
	Updated     Action = "updated"
	Skipped     Action = "skipped"
)

// Step records the outcome for one path, relative to the project dir.
type Step struct {
	Path   string
	Action Action
}

// Result lists every step Init took, in order.
type Result struct {
	Steps []Step
}

// Action returns the action recorded for path, or "" if none.
func (r Result) Action(path string) Action {
	for _, s := range r.Steps {
		if s.Path == path {
			return s.Action
		}
	}
	return ""
}

type templateData struct {
	GPU        bool
	WebUI      bool
	Model      string
	OllamaURL  string
	ConfigJSON string
}

// Init writes the project files into opts.Dir. Existing files are kept
// unless opts.Force is set; .gitignore is only ever appended to.
func Init(opts Options, out *ui.Printer) (Result, error) {
	if opts.Dir == "" {
		return Result{}, errors.New("scaffold: project dir required")
	}
	cfg := opts.Config
	if cfg.Ollama.URL == "" {
		cfg = config.DefaultConfig()
	}
	cfg.Docker.GPU = !opts.NoGPU

	cfgJSON, err := projectConfig(cfg)
	if err != nil {
		return Result{}, err
	}
	data := templateData{
		GPU:        !opts.NoGPU,
		WebUI:      !opts.NoWebUI,
		Model:      cfg.DefaultModel(),
		OllamaURL:  cfg.OllamaURL(),
		ConfigJSON: strings.TrimSpace(string(cfgJSON)),
	}

	mise, err := MiseTasks(!opts.NoGPU)
	if err != nil {
		return Result{}, err
	}

	w := &writer{dir: opts.Dir, force: opts.Force, out: out}
	out.Println("Initializing loclaude project...")
	out.Println()

	w.render("README.md", "README.md.tmpl", data)
	w.render("docker-compose.yml", "docker-compose.yml.tmpl", data)
	w.file("mise.toml", mise)
	w.render(filepath.Join(".claude", "CLAUDE.md"), "CLAUDE.md.tmpl", data)
	w.mkdir(config.DirName)
	w.file(filepath.Join(config.DirName, config.FileName), cfgJSON)
	w.mkdir("models")
	w.gitignore()

	if w.err != nil {
		return w.result, w.err
	}

	out.Println()
	out.Success("Project initialized!")
	out.Section("Next steps:")
	out.Println("  1. Start containers:  mise run up")
	out.Printf("  2. Pull a model:      mise run pull %s\n", cfg.DefaultModel())
	out.Println("  3. Run Claude:        mise run claude")
	out.Section("Service URLs:")
	out.LabelValue("Ollama API", cfg.OllamaURL())
	if !opts.NoWebUI {
		out.LabelValue("Open WebUI", "http://localhost:3000")
	}
	return w.result, nil
}

func projectConfig(cfg config.Config) ([]byte, error) {
	doc := struct {
		Ollama config.OllamaConfig `json:"ollama"`
		Docker config.DockerConfig `json:"docker"`
	}{cfg.Ollama, cfg.Docker}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project config: %w", err)
	}
	return append(data, '\n'), nil
}

// writer applies the keep/overwrite policy and stops at the first error.
type writer struct {
	dir    string
	force  bool
	out    *ui.Printer
	result Result
	err    error
}

func (w *writer) record(path string, a Action) {
	w.result.Steps = append(w.result.Steps, Step{Path: path, Action: a})
	log.WithFields(log.Fields{"path": path, "action": a}).Debug("scaffold")
}

func (w *writer) render(rel, tmpl string, data templateData) {
	if w.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		w.err = fmt.Errorf("render %s: %w", rel, err)
		return
	}
	w.file(rel, buf.Bytes())
}

func (w *writer) file(rel string, content []byte) {
	if w.err != nil {
		return
	}
	path := filepath.Join(w.dir, rel)
	slash := filepath.ToSlash(rel)

	exists := fileExists(path)
	if exists && !w.force {
		w.out.Warn(slash + " already exists")
		if rel == "docker-compose.yml" {
			w.out.Hint("Use --force to overwrite")
		}
		w.record(slash, Skipped)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.err = fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
		return
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		w.err = fmt.Errorf("write %s: %w", rel, err)
		return
	}
	if exists {
		w.out.Success("Overwrote " + slash)
		w.record(slash, Overwritten)
		return
	}
	w.out.Success("Created " + slash)
	w.record(slash, Created)
}

func (w *writer) mkdir(rel string) {
	if w.err != nil {
		return
	}
	path := filepath.Join(w.dir, rel)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		w.err = fmt.Errorf("create %s: %w", rel, err)
		return
	}
	w.out.Success("Created " + rel + "/ directory")
	w.record(rel+"/", Created)
}

func (w *writer) gitignore() {
	if w.err != nil {
		return
	}
	path := filepath.Join(w.dir, ".gitignore")

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(path, []byte(gitignoreTemplate), 0o644); err != nil {
			w.err = fmt.Errorf("write .gitignore: %w", err)
			return
		}
		w.out.Success("Created .gitignore")
		w.record(".gitignore", Created)
	case err != nil:
		w.err = fmt.Errorf("read .gitignore: %w", err)
	case strings.Contains(string(existing), gitignoreEntry):
		w.record(".gitignore", Skipped)
	default:
		content := string(existing)
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\n" + gitignoreTemplate
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			w.err = fmt.Errorf("write .gitignore: %w", err)
			return
		}
		w.out.Success("Updated .gitignore")
		w.record(".gitignore", Updated)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
