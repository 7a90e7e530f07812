package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/irizaika/jonny-cashflow/internal/config"
	"github.com/irizaika/jonny-cashflow/internal/derive"
)

var previewCmd = &cobra.Command{
	Use:   "preview [workbook.xlsx]",
	Short: "Show the parsed invoices without generating documents",
	Long: `Parse the input exactly as generate would and print one line per invoice
for review: name, item count, total, VAT rate and the resolved issue and due
dates. The template is not needed and nothing is written.`,
	Example: `  jonny-cashflow preview timesheet.xlsx
  jonny-cashflow preview --form invoice.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("form", "", "Path to a YAML invoice form instead of a workbook")
}

func runPreview(cmd *cobra.Command, args []string) error {
	formPath, _ := cmd.Flags().GetString("form")

	records, source, err := loadRecords(args, formPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no invoices found in %s", source)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	engine := derive.New(cfg.DefaultVATRate)
	now := time.Now()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INVOICE ID\tNAME\tITEMS\tTOTAL\tVAT\tISSUE DATE\tDUE DATE")
	for _, rec := range records {
		inv, err := engine.Derive(rec, now)
		if err != nil {
			fmt.Fprintf(w, "-\t%s\t0\t-\t-\t-\t- (%v)\n", rec.Name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s%%\t%s\t%s\n",
			inv.ID,
			inv.Name,
			len(inv.Items),
			inv.Total.StringFixed(2),
			inv.VATRatePercent.StringFixed(0),
			inv.IssueDate,
			inv.DueDate,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d invoice(s) parsed from %s\n", len(records), source)
	return nil
}
