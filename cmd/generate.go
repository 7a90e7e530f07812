package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irizaika/jonny-cashflow/internal/config"
	"github.com/irizaika/jonny-cashflow/internal/derive"
	"github.com/irizaika/jonny-cashflow/internal/docxtpl"
	"github.com/irizaika/jonny-cashflow/internal/form"
	"github.com/irizaika/jonny-cashflow/internal/generator"
	"github.com/irizaika/jonny-cashflow/internal/logger"
	"github.com/irizaika/jonny-cashflow/internal/sheet"
	"github.com/irizaika/jonny-cashflow/pkg/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate [workbook.xlsx]",
	Short: "Generate invoice documents from a spreadsheet or a YAML form",
	Long: `Parse invoice blocks from the first sheet of a workbook (or a single
invoice from a YAML form), derive totals, VAT and due dates, and render one
document per invoice from the given .docx template.

Rows with an unreadable date or amount are skipped with a warning. A record
whose rendering fails is logged and skipped; the rest of the batch still
runs. Output files are named Invoice_<id>.docx.`,
	Example: `  # Generate from a workbook
  jonny-cashflow generate timesheet.xlsx --template invoice-template.docx

  # Generate from a manual-entry form into a specific directory
  jonny-cashflow generate --form invoice.yaml --template invoice-template.docx --out ./invoices`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("template", "t", "", "Path to the .docx invoice template [REQUIRED]")
	generateCmd.Flags().StringP("out", "o", "", "Output directory (default: OUTPUT_DIR or current directory)")
	generateCmd.Flags().String("form", "", "Path to a YAML invoice form instead of a workbook")
	generateCmd.MarkFlagRequired("template")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	templatePath, _ := cmd.Flags().GetString("template")
	formPath, _ := cmd.Flags().GetString("form")
	outDir, _ := cmd.Flags().GetString("out")

	// Reject bad input combinations before any processing starts.
	records, source, err := loadRecords(args, formPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no invoices found in %s", source)
	}
	log.Info().Int("invoices", len(records)).Str("source", source).Msg("Parsed invoice records")

	templateBytes, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template %s: %w", templatePath, err)
	}
	tpl, err := docxtpl.Open(templateBytes)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	gen := generator.New(derive.New(cfg.DefaultVATRate), outDir)
	summary, err := gen.Run(cmd.Context(), records, tpl)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d invoice(s), %d failed, output in %s\n",
		summary.Generated, summary.Failed, outDir)
	return nil
}

// loadRecords resolves the input path choice: exactly one of a workbook
// argument or a --form file. Returns the records plus a human-readable source
// name for messages.
func loadRecords(args []string, formPath string) ([]models.InvoiceRecord, string, error) {
	switch {
	case formPath != "" && len(args) > 0:
		return nil, "", fmt.Errorf("pass either a workbook or --form, not both")
	case formPath != "":
		rec, err := form.Load(formPath)
		if err != nil {
			return nil, "", err
		}
		return []models.InvoiceRecord{rec}, formPath, nil
	case len(args) > 0:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("open workbook %s: %w", args[0], err)
		}
		defer f.Close()
		rows, err := sheet.ReadRows(f)
		if err != nil {
			return nil, "", err
		}
		return sheet.NewParser().Parse(rows), args[0], nil
	default:
		return nil, "", fmt.Errorf("a workbook argument or --form is required")
	}
}
