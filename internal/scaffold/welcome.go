package scaffold

import (
	"fmt"

	"github.com/loclaude/loclaude/internal/ui"
)

// EnvSkipWelcome suppresses the post-install welcome when set to "true".
const EnvSkipWelcome = "LOCLAUDE_SKIP_POSTINSTALL"

const logo = `    ╦  ╔═╗╔═╗╦  ╔═╗╦ ╦╔╦╗╔═╗
    ║  ║ ║║  ║  ╠═╣║ ║ ║║║╣
    ╩═╝╚═╝╚═╝╩═╝╩ ╩╚═╝═╩╝╚═╝`

// SkipWelcome reports whether the environment suppresses the welcome.
func SkipWelcome(lookup func(string) (string, bool)) bool {
	v, ok := lookup(EnvSkipWelcome)
	return ok && v == "true"
}

// Welcome prints the post-install banner and quick start.
func Welcome(p *ui.Printer, version string) {
	p.Println()
	p.Println(p.Cyan(logo))
	p.Println()
	p.Box(
		"✓ Successfully installed!",
		"",
		"Run local LLMs with Claude Code",
		"",
		"Quick Start:",
		"  $ loclaude init       # Set up project",
		"  $ loclaude docker-up  # Start Ollama",
		"  $ loclaude run        # Launch Claude",
		"",
		"Commands:",
		"  doctor       Check system requirements",
		"  models       List available models",
		"  models-pull  Download a model",
		"  config       Show configuration",
		"",
		fmt.Sprintf("loclaude %s", version),
	)
	p.Println()
}
