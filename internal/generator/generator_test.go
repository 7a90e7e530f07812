package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irizaika/jonny-cashflow/internal/derive"
	"github.com/irizaika/jonny-cashflow/internal/docxtpl"
	"github.com/irizaika/jonny-cashflow/pkg/models"
)

// stubRenderer fails for the records whose name it is told to reject and
// records every data set it was handed.
type stubRenderer struct {
	failFor string
	calls   []docxtpl.RenderData
}

func (s *stubRenderer) Render(data docxtpl.RenderData) ([]byte, error) {
	s.calls = append(s.calls, data)
	if data.Fields["name"] == s.failFor {
		return nil, &docxtpl.TemplateError{Tags: []string{"mystery"}}
	}
	return []byte("rendered document"), nil
}

func record(name string) models.InvoiceRecord {
	return models.InvoiceRecord{
		Name: name,
		LineItems: []models.LineItem{
			{WorkDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(120)},
		},
	}
}

func newGenerator(t *testing.T) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	return New(derive.New(decimal.NewFromInt(20)), dir), dir
}

func TestRunEmptyBatch(t *testing.T) {
	gen, _ := newGenerator(t)
	_, err := gen.Run(context.Background(), nil, &stubRenderer{})
	assert.ErrorIs(t, err, ErrNoInvoices)
}

func TestRunWritesOneFilePerRecord(t *testing.T) {
	gen, dir := newGenerator(t)
	renderer := &stubRenderer{}

	sum, err := gen.Run(context.Background(), []models.InvoiceRecord{record("Acme Ltd"), record("Beta Plc")}, renderer)
	require.NoError(t, err)
	assert.Equal(t, Summary{Generated: 2, Failed: 0}, sum)

	for _, want := range []string{"Invoice_ACMEL05032024.docx", "Invoice_BETAP05032024.docx"} {
		content, err := os.ReadFile(filepath.Join(dir, want))
		require.NoError(t, err, want)
		assert.Equal(t, "rendered document", string(content))
	}
}

func TestRunContinuesPastFailingRecord(t *testing.T) {
	gen, dir := newGenerator(t)
	renderer := &stubRenderer{failFor: "Bad Corp"}

	sum, err := gen.Run(context.Background(), []models.InvoiceRecord{record("Bad Corp"), record("Good Co")}, renderer)
	require.NoError(t, err)
	assert.Equal(t, Summary{Generated: 1, Failed: 1}, sum)
	assert.Len(t, renderer.calls, 2, "the batch must not abort on a template error")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Invoice_GOODC05032024.docx", entries[0].Name())
}

func TestRunSkipsUnderivableRecord(t *testing.T) {
	gen, _ := newGenerator(t)
	renderer := &stubRenderer{}

	empty := models.InvoiceRecord{Name: "No Items Ltd"}
	sum, err := gen.Run(context.Background(), []models.InvoiceRecord{empty, record("Good Co")}, renderer)
	require.NoError(t, err)
	assert.Equal(t, Summary{Generated: 1, Failed: 1}, sum)
	assert.Len(t, renderer.calls, 1, "an underivable record never reaches the renderer")
}

func TestRunHonoursCancellation(t *testing.T) {
	gen, _ := newGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Run(ctx, []models.InvoiceRecord{record("Acme Ltd")}, &stubRenderer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRenderData(t *testing.T) {
	issue := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	rec := models.InvoiceRecord{
		Name:      "Acme Ltd",
		Address:   "1 Road,London",
		Bank:      "Bank X",
		IssueDate: &issue,
		DueDate:   models.DueDate{Paid: true},
		LineItems: []models.LineItem{
			{WorkDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(120), Detail: "consulting"},
		},
	}

	inv, err := derive.New(decimal.NewFromInt(20)).Derive(rec, time.Now())
	require.NoError(t, err)

	data := buildRenderData(inv)
	assert.Equal(t, "ACMEL05032024", data.Fields["invoiceid"])
	assert.Equal(t, "March 2024", data.Fields["mmYYYY"])
	assert.Equal(t, "1 Road\nLondon", data.Fields["address"])
	assert.Equal(t, "Paid", data.Fields["duedate"])
	assert.Equal(t, "10/03/2024", data.Fields["issuedate"])
	assert.Equal(t, "120.00", data.Fields["total"])
	assert.Equal(t, "100.00", data.Fields["subtotal"])
	assert.Equal(t, "20.00", data.Fields["vat"])
	assert.Equal(t, "20%", data.Fields["vatrate"])
	assert.Equal(t, "0.00", data.Fields["tax"], "the legacy tax field stays zero")

	require.Len(t, data.Items, 1)
	assert.Equal(t, map[string]string{
		"workdate": "05/03/2024",
		"details":  "consulting",
		"amount":   "120.00",
	}, data.Items[0])
}
