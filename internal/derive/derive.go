// Package derive computes the financial and display fields of an invoice
// from a normalized record: totals, VAT back-calculation, identifiers and
// due-date resolution. Pricing is VAT-inclusive, so the VAT component is
// isolated out of the total rather than added on top.
package derive

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/irizaika/jonny-cashflow/pkg/models"
)

// ErrNoLineItems is returned when a record reaches derivation with nothing
// billable; there is no minimum work date to anchor the invoice to.
var ErrNoLineItems = errors.New("invoice record has no line items")

// Date display formats. en-GB day-first throughout.
const (
	displayDateFormat = "02/01/2006"
	idDateFormat      = "02012006"
	monthLabelFormat  = "January 2006"
)

// dueDateMonths is how far past the issue date an invoice falls due when the
// source does not say otherwise.
const dueDateMonths = 3

// paidDisplay is the due-date text shown for already-settled invoices.
const paidDisplay = "Paid"

// idPrefixLen is how much of the customer name goes into the invoice id.
const idPrefixLen = 5

// Invoice is the fully derived, render-ready form of one record. It is built
// per record inside the generation loop and never reused.
type Invoice struct {
	ID   string
	Name string

	// Address, Bank and AdditionalText have had the comma-to-newline
	// substitution applied.
	Address        string
	Bank           string
	AdditionalText string

	// MonthLabel names the month of the earliest work date, e.g. "March 2024".
	MonthLabel string

	IssueDate string
	DueDate   string

	Total          decimal.Decimal
	Subtotal       decimal.Decimal
	VATAmount      decimal.Decimal
	VATRatePercent decimal.Decimal

	Items []Item
}

// Item is one derived line-item row.
type Item struct {
	WorkDate string
	Detail   string
	Amount   decimal.Decimal
}

// Engine derives invoices with a configurable default VAT rate.
type Engine struct {
	defaultVATPercent decimal.Decimal
}

// New returns an Engine. defaultVATPercent applies to records that carry no
// rate of their own, e.g. 20 for 20%.
func New(defaultVATPercent decimal.Decimal) *Engine {
	return &Engine{defaultVATPercent: defaultVATPercent}
}

// Derive computes all output fields for one record. Pure given its inputs;
// now only matters when the record has no issue date.
func (e *Engine) Derive(rec models.InvoiceRecord, now time.Time) (Invoice, error) {
	if len(rec.LineItems) == 0 {
		return Invoice{}, ErrNoLineItems
	}

	total := decimal.Zero
	minWork := rec.LineItems[0].WorkDate
	items := make([]Item, 0, len(rec.LineItems))
	for _, li := range rec.LineItems {
		total = total.Add(li.Amount)
		if li.WorkDate.Before(minWork) {
			minWork = li.WorkDate
		}
		items = append(items, Item{
			WorkDate: li.WorkDate.Format(displayDateFormat),
			Detail:   li.Detail,
			Amount:   li.Amount,
		})
	}

	ratePercent := e.defaultVATPercent
	if rec.VATRatePercent != nil {
		ratePercent = *rec.VATRatePercent
	}
	rate := ratePercent.Div(decimal.NewFromInt(100))
	// Back-calculate the VAT component out of the inclusive total.
	vat := total.Sub(total.Div(decimal.NewFromInt(1).Add(rate)))

	issue := now
	if rec.IssueDate != nil {
		issue = *rec.IssueDate
	}

	var due string
	switch {
	case rec.DueDate.Paid:
		due = paidDisplay
	case rec.DueDate.Date != nil:
		due = rec.DueDate.Date.Format(displayDateFormat)
	default:
		due = AddMonthsClamped(issue, dueDateMonths).Format(displayDateFormat)
	}

	return Invoice{
		ID:             InvoiceID(rec.Name, minWork),
		Name:           rec.Name,
		Address:        commasToNewlines(rec.Address),
		Bank:           commasToNewlines(rec.Bank),
		AdditionalText: commasToNewlines(rec.AdditionalText),
		MonthLabel:     minWork.Format(monthLabelFormat),
		IssueDate:      issue.Format(displayDateFormat),
		DueDate:        due,
		Total:          total,
		Subtotal:       total.Sub(vat),
		VATAmount:      vat,
		VATRatePercent: ratePercent,
		Items:          items,
	}, nil
}

// AddMonthsClamped adds calendar months with the day clamped to the target
// month's last valid day. time.Time.AddDate would normalize the overflow
// instead (31 Jan + 3 months becomes 1 May); a due date wants 30 Apr.
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// InvoiceID builds the invoice identifier: the first five characters of the
// whitespace-stripped, uppercased name followed by the earliest work date as
// DDMMYYYY. Collisions between similarly named records are accepted.
func InvoiceID(name string, minWork time.Time) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	prefix := []rune(strings.ToUpper(compact))
	if len(prefix) > idPrefixLen {
		prefix = prefix[:idPrefixLen]
	}
	return string(prefix) + minWork.Format(idDateFormat)
}

// commasToNewlines applies the input convention that a comma in a free-text
// field starts a new line in the rendered document.
func commasToNewlines(s string) string {
	return strings.ReplaceAll(s, ",", "\n")
}
