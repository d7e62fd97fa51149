// Package cli implements the loclaude command-line interface using Cobra.
// Bare invocations launch claude against the local Ollama backend; the
// subcommands manage the container stack, models and configuration.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/app"
	"github.com/loclaude/loclaude/internal/domain"
	"github.com/loclaude/loclaude/internal/launcher"
	"github.com/loclaude/loclaude/internal/logging"
)

// EnvDryRun enables the dry-run runner like --dry-run.
const EnvDryRun = "LOCLAUDE_DRY_RUN"

var (
	flagFile   string
	flagDryRun bool
	flagDebug  bool

	// rt is built by the root pre-run hook for the command being executed.
	rt *app.App
)

// launchOptions customize the launcher built for bare invocations.
var launchOptions []launcher.Option

// newApp builds the runtime for cmd. Tests replace it to inject fakes.
var newApp = func(cmd *cobra.Command) *app.App {
	return app.New(app.Options{
		ComposeFile: flagFile,
		DryRun:      flagDryRun || envBool(EnvDryRun),
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
}

var rootCmd = &cobra.Command{
	Use:   "loclaude [-m model] [claude args...]",
	Short: "Run Claude Code with a local Ollama backend",
	Long: `loclaude starts claude against a local Ollama server.

Without a subcommand it selects a model (or uses -m/--model), pre-loads it
and execs claude with every other argument passed through unchanged.
Run 'loclaude help' for the management commands.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	RunE:               runLaunch,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFile, "file", "", "Path to docker-compose.yml (skips discovery)")
	pf.BoolVar(&flagDryRun, "dry-run", false, "Print commands instead of running them")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, _ []string) error {
	logging.Setup(flagDebug || logging.DebugFromEnv(), cmd.ErrOrStderr())
	rt = newApp(cmd)
	return nil
}

func teardown() {
	if rt == nil {
		return
	}
	if err := rt.Close(); err != nil {
		log.WithError(err).Debug("close runtime")
	}
	rt = nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	if launcher.WantsVersion(args) {
		fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		return nil
	}
	return exit(rt.Launcher(cmd.Context(), launchOptions...).Launch(cmd.Context(), args))
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	stop()
	os.Exit(report(err))
}

// report prints err the way every command reports failures and returns the
// process exit code.
func report(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	w := rootCmd.ErrOrStderr()
	fmt.Fprintln(w, "Error:", err)
	if hint := domain.HintOf(err); hint != "" {
		fmt.Fprintln(w, "  "+hint)
	}
	return 1
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
