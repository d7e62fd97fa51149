package cli

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [-m model] [claude args...]",
	Short: "Run Claude Code with local Ollama",
	Long: `Select a model, pre-load it and exec claude with ANTHROPIC_BASE_URL pointing
at Ollama. Every argument except -m/--model is passed to claude unchanged.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE:               runLaunch,
}
