// Package form is the manual-entry input path: a YAML file describing one
// invoice, as an alternative to a spreadsheet. It feeds the same normalize
// functions as the sheet parser, so both paths produce identical records.
package form

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/irizaika/jonny-cashflow/internal/logger"
	"github.com/irizaika/jonny-cashflow/internal/sheet"
	"github.com/irizaika/jonny-cashflow/pkg/models"
)

var (
	// ErrMissingName is returned when the form has no customer name; the
	// invoice id and output file name both derive from it.
	ErrMissingName = errors.New("form is missing the invoice name")

	// ErrNoValidItems is returned when no line item of the form survived
	// normalization.
	ErrNoValidItems = errors.New("form has no valid line items")
)

// document mirrors the YAML form layout. All scalars are strings so that the
// same tolerant normalization as the spreadsheet path applies.
type document struct {
	Name      string    `yaml:"name"`
	Address   string    `yaml:"address"`
	Bank      string    `yaml:"bank"`
	VATRate   string    `yaml:"vat_rate"`
	IssueDate string    `yaml:"issue_date"`
	DueDate   string    `yaml:"due_date"`
	Items     []itemRow `yaml:"items"`
}

type itemRow struct {
	Date   string `yaml:"date"`
	Amount string `yaml:"amount"`
	Detail string `yaml:"detail"`
}

// Load reads a YAML invoice form into a record.
func Load(path string) (models.InvoiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.InvoiceRecord{}, fmt.Errorf("read form: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (models.InvoiceRecord, error) {
	log := logger.WithComponent("form")

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.InvoiceRecord{}, fmt.Errorf("parse form: %w", err)
	}

	if strings.TrimSpace(doc.Name) == "" {
		return models.InvoiceRecord{}, ErrMissingName
	}

	rec := models.InvoiceRecord{
		Name:    strings.TrimSpace(doc.Name),
		Address: strings.TrimSpace(doc.Address),
		Bank:    strings.TrimSpace(doc.Bank),
		// The manual-entry path has no additional-text field.
		AdditionalText: "",
	}

	// A blank or non-numeric rate falls back to the default at derive time.
	if raw := strings.TrimSpace(doc.VATRate); raw != "" {
		if rate, err := decimal.NewFromString(raw); err == nil {
			rec.VATRatePercent = &rate
		} else {
			log.Warn().Str("value", raw).Msg("Unreadable VAT rate, falling back to the default")
		}
	}

	issue, err := sheet.ParseDate(doc.IssueDate)
	if err != nil {
		log.Warn().Str("value", doc.IssueDate).Msg("Unreadable issue date, treating it as blank")
	} else {
		rec.IssueDate = issue
	}

	due, err := sheet.ParseDueDate(doc.DueDate)
	if err != nil {
		log.Warn().Str("value", doc.DueDate).Msg("Unreadable due date, treating it as blank")
	} else {
		rec.DueDate = due
	}

	rec.LineItems = parseItems(doc.Items, log)
	if len(rec.LineItems) == 0 {
		return models.InvoiceRecord{}, ErrNoValidItems
	}

	return rec, nil
}

// parseItems mirrors the sheet parser's row policy: a bad date or amount
// drops the item with a warning and the rest carry on.
func parseItems(rows []itemRow, log zerolog.Logger) []models.LineItem {
	var items []models.LineItem
	for i, row := range rows {
		workDate, err := sheet.ParseDate(row.Date)
		if err != nil || workDate == nil {
			log.Warn().Int("item", i+1).Str("value", row.Date).Msg("Invalid work date, skipping item")
			continue
		}
		amount, err := sheet.ParseAmount(row.Amount)
		if err != nil {
			log.Warn().Int("item", i+1).Str("value", row.Amount).Msg("Invalid amount, skipping item")
			continue
		}
		items = append(items, models.LineItem{
			WorkDate: *workDate,
			Amount:   amount,
			Detail:   strings.TrimSpace(row.Detail),
		})
	}
	return items
}
