package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jxucoder/askai/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available model identifiers",
	Long: `List the model identifiers served by the provider at OPENAI_BASE_URL,
one per line.`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ids, err := models.New(cfg).List(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Error: %s\n", err)
		log.Debug().Err(err).Msg("listing models failed")
		return errReported
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}
