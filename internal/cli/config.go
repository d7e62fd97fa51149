package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show config file search paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPaths,
}

var configPathsAliasCmd = &cobra.Command{
	Use:   "config-paths",
	Short: "Show config file search paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPaths,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for config.json",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathsCmd)
	configCmd.AddCommand(configSchemaCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(configPathsAliasCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := json.MarshalIndent(rt.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	out := rt.Out
	out.Println("Current configuration:")
	out.Println()
	out.Println(string(data))
	out.Println()
	out.Println("---")
	if path, ok := rt.Resolver.ActiveConfigPath(); ok {
		out.Printf("Loaded from: %s\n", path)
	} else {
		out.Println("Using default configuration (no config file found)")
	}

	var verr *config.ValidationError
	if errors.As(rt.Config.Validate(), &verr) {
		out.Println()
		for _, msg := range verr.Errors {
			rt.Err.Warn(msg)
		}
	}
	return nil
}

func runConfigPaths(cmd *cobra.Command, args []string) error {
	out := rt.Out
	active, found := rt.Resolver.ActiveConfigPath()

	out.Println("Config file search paths (in priority order):")
	out.Println()
	for i, path := range rt.Resolver.SearchPaths() {
		marker := ""
		if found && path == active {
			marker = " " + out.Green("← active")
		}
		out.Printf("  %d. %s%s\n", i+1, path, marker)
	}

	if !found {
		out.Println()
		out.Println("No config file found. Using defaults.")
		out.Println("Run 'loclaude init' to create a project config.")
	}
	return nil
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	rt.Out.Println(string(data))
	return nil
}
