package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jxucoder/askai/internal/config"
)

// ---------------------------------------------------------------------------
// Cobra commands
// ---------------------------------------------------------------------------

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage askai configuration",
	Long: `Manage askai configuration (API key, model, endpoint, etc.).

Configuration is stored in ~/.askai/config.env (or $ASKAI_HOME/config.env).
Environment variables and a .env file in the working directory override it.

  askai config set KEY VALUE      Set a single config value
  askai config show               Show current configuration
  askai config path               Print config file path`,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value",
	Long: `Set a single configuration value. An empty VALUE removes the key. Example:
  askai config set OPENAI_MODEL gpt-3.5-turbo-instruct`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display all configured values and where they come from. Secrets are masked.",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath(config.HomeDir()))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := config.SetValue(config.HomeDir(), key, value); err != nil {
		return err
	}

	k, _ := config.LookupKey(key)
	shown := value
	if k.Secret {
		shown = config.MaskSecret(value)
	}
	if value == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s=%s\n", key, shown)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	home := config.HomeDir()
	fileValues, err := config.ReadFile(home)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n\n", config.FilePath(home))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range config.Keys {
		value, source := config.EffectiveValue(k.Name, fileValues)
		switch {
		case value == "":
			value, source = "(not set)", "-"
		case k.Secret:
			value = config.MaskSecret(value)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.Name, value, source, k.Desc)
	}
	return tw.Flush()
}
