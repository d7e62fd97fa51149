package cli

import (
	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/scaffold"
)

func init() {
	initCmd.Flags().BoolVar(&initOpts.Force, "force", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initOpts.NoWebUI, "no-webui", false, "Skip Open WebUI in docker-compose.yml")
	initCmd.Flags().BoolVar(&initOpts.NoGPU, "no-gpu", false, "Generate a CPU-only stack (default from docker.gpu)")
	rootCmd.AddCommand(initCmd)
}

var initOpts scaffold.Options

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new loclaude project",
	Long: `Write docker-compose.yml, mise.toml, README.md, .claude/CLAUDE.md and
.loclaude/config.json into the current directory. Existing files are kept
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	opts := initOpts
	opts.Dir = rt.Resolver.WorkDir()
	opts.Config = rt.Config
	if !cmd.Flags().Changed("no-gpu") {
		opts.NoGPU = !rt.Config.GPUEnabled()
	}
	_, err := scaffold.Init(opts, rt.Out)
	return err
}
