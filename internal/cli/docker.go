package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	dockerUpCmd.Flags().BoolVar(&upNoDetach, "no-detach", false, "Run in the foreground")
	dockerLogsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	dockerLogsCmd.Flags().StringVarP(&logsService, "service", "s", "", "Only show logs for this service")
	dockerExecCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(dockerUpCmd)
	rootCmd.AddCommand(dockerDownCmd)
	rootCmd.AddCommand(dockerStatusCmd)
	rootCmd.AddCommand(dockerLogsCmd)
	rootCmd.AddCommand(dockerRestartCmd)
	rootCmd.AddCommand(dockerExecCmd)
}

var (
	upNoDetach  bool
	logsFollow  bool
	logsService string
)

var dockerUpCmd = &cobra.Command{
	Use:   "docker-up",
	Short: "Start Ollama and Open WebUI containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exit(rt.Compose().Up(cmd.Context(), !upNoDetach))
	},
}

var dockerDownCmd = &cobra.Command{
	Use:   "docker-down",
	Short: "Stop all containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exit(rt.Compose().Down(cmd.Context()))
	},
}

var dockerStatusCmd = &cobra.Command{
	Use:   "docker-status",
	Short: "Show container status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exit(rt.Compose().Ps(cmd.Context()))
	},
}

var dockerLogsCmd = &cobra.Command{
	Use:   "docker-logs",
	Short: "Show container logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exit(rt.Compose().Logs(cmd.Context(), logsFollow, logsService))
	},
}

var dockerRestartCmd = &cobra.Command{
	Use:   "docker-restart",
	Short: "Restart all containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exit(rt.Compose().Restart(cmd.Context()))
	},
}

var dockerExecCmd = &cobra.Command{
	Use:   "docker-exec SERVICE [COMMAND...]",
	Short: "Execute a command in a running container",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var service string
		if len(args) > 0 {
			service, args = args[0], args[1:]
		}
		return exit(rt.Compose().Exec(cmd.Context(), service, args))
	},
}
