package sheet

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/irizaika/jonny-cashflow/internal/logger"
	"github.com/irizaika/jonny-cashflow/pkg/models"
)

// Header row layout of an invoice block. The column order is a contract with
// the spreadsheet, not inferred from the header row.
const (
	colName = iota
	colAddress
	colBank
	colVATRate
	colDueDate
	colIssueDate
	colAdditionalText
)

// Item row layout.
const (
	colWorkDate = iota
	colAmount
	colDetail
)

// Parser turns raw worksheet rows into invoice records. Bad line items are
// skipped with a warning; nothing row-level is ever fatal.
type Parser struct {
	log zerolog.Logger
}

func NewParser() *Parser {
	return &Parser{log: logger.WithComponent("sheet")}
}

// Parse scans rows for invoice blocks. Row 0 is the sheet header and is
// ignored. A row with a non-empty first cell starts a block: one header row
// followed by line-item rows, terminated by a blank first cell or the end of
// input. A block whose items all failed to parse is dropped with a warning,
// since nothing can be derived from it.
func (p *Parser) Parse(rows [][]string) []models.InvoiceRecord {
	var records []models.InvoiceRecord

	i := 1
	for i < len(rows) {
		if blank(rows[i]) {
			i++
			continue
		}

		rec := p.parseHeader(rows[i], i+1)
		i++

		for i < len(rows) && !blank(rows[i]) {
			if item, ok := p.parseItem(rows[i], i+1); ok {
				rec.LineItems = append(rec.LineItems, item)
			}
			i++
		}

		if len(rec.LineItems) == 0 {
			p.log.Warn().
				Str("name", rec.Name).
				Msg("Invoice block has no valid line items, dropping it")
			continue
		}
		records = append(records, rec)
	}

	return records
}

// parseHeader reads the seven positional header fields. The due and issue
// dates are constant within a block, so they are read once here. Unreadable
// optional fields degrade to their defaults with a warning rather than
// poisoning the block.
func (p *Parser) parseHeader(row []string, rowNum int) models.InvoiceRecord {
	rec := models.InvoiceRecord{
		Name:           strings.TrimSpace(cell(row, colName)),
		Address:        strings.TrimSpace(cell(row, colAddress)),
		Bank:           strings.TrimSpace(cell(row, colBank)),
		AdditionalText: strings.TrimSpace(cell(row, colAdditionalText)),
	}

	if raw := strings.TrimSpace(cell(row, colVATRate)); raw != "" {
		if rate, err := decimal.NewFromString(raw); err == nil {
			rec.VATRatePercent = &rate
		} else {
			p.log.Warn().
				Int("row", rowNum).
				Str("value", raw).
				Msg("Unreadable VAT rate, falling back to the default")
		}
	}

	due, err := ParseDueDate(cell(row, colDueDate))
	if err != nil {
		p.log.Warn().
			Int("row", rowNum).
			Str("value", cell(row, colDueDate)).
			Msg("Unreadable due date, treating it as blank")
	} else {
		rec.DueDate = due
	}

	issue, err := ParseDate(cell(row, colIssueDate))
	if err != nil {
		p.log.Warn().
			Int("row", rowNum).
			Str("value", cell(row, colIssueDate)).
			Msg("Unreadable issue date, treating it as blank")
	} else {
		rec.IssueDate = issue
	}

	return rec
}

// parseItem reads one line-item row. A bad date or amount excludes the row;
// rowNum is 1-based to match what the user sees in their spreadsheet app.
func (p *Parser) parseItem(row []string, rowNum int) (models.LineItem, bool) {
	workDate, err := ParseDate(cell(row, colWorkDate))
	if err != nil || workDate == nil {
		p.log.Warn().
			Int("row", rowNum).
			Str("value", cell(row, colWorkDate)).
			Msg("Invalid work date, skipping row")
		return models.LineItem{}, false
	}

	amount, err := ParseAmount(cell(row, colAmount))
	if err != nil {
		p.log.Warn().
			Int("row", rowNum).
			Str("value", cell(row, colAmount)).
			Msg("Invalid amount, skipping row")
		return models.LineItem{}, false
	}

	return models.LineItem{
		WorkDate: *workDate,
		Amount:   amount,
		Detail:   strings.TrimSpace(cell(row, colDetail)),
	}, true
}

// cell returns the i-th cell of a row, tolerating short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	return strings.TrimSpace(cell(row, 0)) == ""
}
