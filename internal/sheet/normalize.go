package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/irizaika/jonny-cashflow/pkg/models"
)

// paidMarker is the textual due-date value meaning the invoice needs no due
// date. Matched case-insensitively.
const paidMarker = "paid"

// dateLayouts are the text formats accepted for date cells and form fields.
// Day-first layouts come first; the spreadsheets this tool consumes are
// en-GB.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
}

// ParseDate converts a raw cell value into a calendar date. Numeric cells are
// spreadsheet serial dates (day count from the 1900 epoch) and convert to UTC
// midnight; they are never treated as plain numbers here. An empty cell is
// not an error, it returns (nil, nil).
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, fmt.Errorf("serial date %q: %w", raw, err)
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &t, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t, nil
		}
	}

	return nil, fmt.Errorf("unrecognised date %q", raw)
}

// ParseDueDate is ParseDate plus the "paid" marker, which is only valid in
// the due-date column.
func ParseDueDate(raw string) (models.DueDate, error) {
	if strings.EqualFold(strings.TrimSpace(raw), paidMarker) {
		return models.DueDate{Paid: true}, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return models.DueDate{}, err
	}
	return models.DueDate{Date: t}, nil
}

// ParseAmount converts a raw cell value into a decimal amount. Currency
// symbols and thousands separators are tolerated. A value that is not a
// number is an error, never zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := cleanCurrency(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", raw, err)
	}
	return d, nil
}

var currencyCleaner = strings.NewReplacer("£", "", "€", "", "$", "", ",", "")

func cleanCurrency(s string) string {
	return strings.TrimSpace(currencyCleaner.Replace(s))
}
