package generator

import "errors"

// Common generation errors
var (
	// ErrNoInvoices is returned when a run starts with zero parsed records;
	// nothing is rendered in that case.
	ErrNoInvoices = errors.New("no invoice records to generate")
)
