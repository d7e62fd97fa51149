package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/scaffold"
)

func init() {
	rootCmd.AddCommand(postinstallCmd)
}

var postinstallCmd = &cobra.Command{
	Use:    "postinstall",
	Short:  "Print the post-install welcome",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scaffold.SkipWelcome(os.LookupEnv) {
			return nil
		}
		scaffold.Welcome(rt.Out, cmd.Root().Version)
		return nil
	},
}
