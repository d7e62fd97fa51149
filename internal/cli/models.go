package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/infra/ollama"
	"github.com/loclaude/loclaude/internal/models"
)

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(modelsPsCmd)
	rootCmd.AddCommand(modelVerbCmd("pull", "Pull a model from the Ollama registry", (*models.Manager).Pull))
	rootCmd.AddCommand(modelVerbCmd("rm", "Remove a model", (*models.Manager).Remove))
	rootCmd.AddCommand(modelVerbCmd("show", "Show model details", (*models.Manager).Show))
	rootCmd.AddCommand(modelVerbCmd("run", "Run a model interactively with ollama", (*models.Manager).Run))
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List installed models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

var modelsPsCmd = &cobra.Command{
	Use:   "models-ps",
	Short: "List models loaded in memory",
	Args:  cobra.NoArgs,
	RunE:  runModelsPs,
}

// modelVerbCmd builds models-<verb> NAME. A missing name reaches the
// manager as "" so the usage error is reported without spawning anything.
func modelVerbCmd(verb, short string, op func(*models.Manager, context.Context, string) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("models-%s NAME", verb),
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			return exit(op(rt.Models(cmd.Context()), cmd.Context(), name))
		},
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	list, err := rt.Models(cmd.Context()).List(cmd.Context())
	if err != nil {
		return unreachable(err)
	}

	out := rt.Out
	if len(list) == 0 {
		out.Println("No models installed.")
		out.Println()
		out.Println("Pull a model with: loclaude models-pull <model-name>")
		out.Println("Example: loclaude models-pull llama3.2")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{m.Name, domain.HumanSize(m.Size), domain.RelativeTime(m.ModifiedAt, now)})
	}
	out.Println("Installed models:")
	out.Println()
	if err := out.Table([]string{"NAME", "SIZE", "MODIFIED"}, rows); err != nil {
		return err
	}
	out.Println()
	out.Printf("%d %s installed\n", len(list), domain.Plural(len(list), "model"))
	return nil
}

func runModelsPs(cmd *cobra.Command, args []string) error {
	running, err := rt.Models(cmd.Context()).Running(cmd.Context())
	if err != nil {
		return unreachable(err)
	}

	out := rt.Out
	if len(running) == 0 {
		out.Println("No models currently loaded.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(running))
	for _, m := range running {
		rows = append(rows, []string{m.Name, domain.HumanSize(m.SizeVRAM), domain.RelativeTime(m.ExpiresAt, now)})
	}
	return out.Table([]string{"NAME", "SIZE VRAM", "EXPIRES"}, rows)
}

// unreachable adds the docker-up hint to connection failures.
func unreachable(err error) error {
	if errors.Is(err, ollama.ErrUnreachable) || errors.Is(err, ollama.ErrTimeout) {
		return domain.WithHint(
			fmt.Errorf("could not connect to Ollama at %s", rt.Ollama.URL()),
			"Make sure Ollama is running: loclaude docker-up")
	}
	return err
}
