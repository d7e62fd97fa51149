// Package main is the loclaude entrypoint.
// loclaude runs Claude Code against a local Ollama server.
package main

import "github.com/loclaude/loclaude/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
