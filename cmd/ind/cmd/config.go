package cmd

import (
	"fmt"

	"github.com/rustyeddy/ind/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  ind config init --output ind.yaml
  ind config validate ind.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings. The format
follows the extension: .yaml or .yml writes YAML, anything else JSON.

Example:
  ind config init --output ind.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVar(&configInitOutput, "output", "ind.yaml", "output config file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  ind process --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configValidatePath := args[0]
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	steps, err := cfg.Battery.Steps()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	if cfg.Input.File != "" {
		fmt.Printf("  Input: %s\n", cfg.Input.File)
	} else {
		fmt.Printf("  Input: %s/\n", cfg.Input.Folder)
	}
	fmt.Printf("  Output: %s", cfg.Output.Format)
	if cfg.Output.DBPath != "" {
		fmt.Printf(" (%s)", cfg.Output.DBPath)
	}
	fmt.Println()
	fmt.Printf("  Sessions: %s %s\n", cfg.Session.Granularity, cfg.Session.Timezone)
	fmt.Printf("  Battery: %d indicators, on error %s\n", len(steps), cfg.Battery.OnError)
	if cfg.Run.Schedule != "" {
		fmt.Printf("  Schedule: %s\n", cfg.Run.Schedule)
	}
	return nil
}
