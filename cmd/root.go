package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irizaika/jonny-cashflow/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "jonny-cashflow",
	Short: "Generate invoice documents from spreadsheet or form data",
	Long: `jonny-cashflow turns rows of a spreadsheet (or a YAML invoice form) into a
batch of invoice documents rendered from a .docx template.

Everything runs locally: the workbook is parsed, totals and VAT are derived
per invoice, and one document per invoice is written to the output directory.

Configuration is read from environment variables (optionally via a .env file):
  OUTPUT_DIR        - default output directory (default: current directory)
  DEFAULT_VAT_RATE  - VAT rate in percent used when a record has none (default: 20)
  LOG_LEVEL         - trace, debug, info, warn, error (default: info)`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
