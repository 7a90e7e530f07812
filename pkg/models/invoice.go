package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRecord is the normalized in-memory form of one invoice: the header
// fields of a spreadsheet block (or a manual-entry form) plus its line items.
// Records are built once by an input adapter and never mutated afterwards.
type InvoiceRecord struct {
	Name string

	// Address, Bank and AdditionalText are free text. Commas in the source
	// mean "start a new line" in the rendered document; the derivation step
	// performs that substitution.
	Address        string
	Bank           string
	AdditionalText string

	// VATRatePercent is the rate as entered in the source, e.g. 20 for 20%.
	// Nil means the default rate applies.
	VATRatePercent *decimal.Decimal

	// IssueDate is nil when the source left it blank; the generation date is
	// used instead.
	IssueDate *time.Time

	DueDate DueDate

	LineItems []LineItem
}

// LineItem is one unit of billable work. Amount is always a valid number and
// WorkDate a valid calendar date; rows that fail to parse are dropped before
// a record is built, never carried as zeroes.
type LineItem struct {
	WorkDate time.Time
	Amount   decimal.Decimal
	Detail   string
}

// DueDate is a three-way value: a calendar date, the "paid" marker meaning no
// due date applies, or unset (the zero value), meaning the due date is
// derived from the issue date.
type DueDate struct {
	Date *time.Time
	Paid bool
}

// IsZero reports whether the due date was left blank in the source.
func (d DueDate) IsZero() bool {
	return d.Date == nil && !d.Paid
}

// Total sums the line item amounts. Pricing is VAT-inclusive, so this is the
// gross figure.
func (r InvoiceRecord) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.LineItems {
		total = total.Add(item.Amount)
	}
	return total
}
