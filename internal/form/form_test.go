package form

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleForm = `name: Acme Ltd
address: 1 Road, London
bank: Bank X, 12-34-56
vat_rate: 20
issue_date: 05/03/2024
due_date: paid
items:
  - date: 05/03/2024
    amount: 100.00
    detail: consulting
  - date: 12/03/2024
    amount: 20
    detail: support
`

func writeForm(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	rec, err := Load(writeForm(t, sampleForm))
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", rec.Name)
	assert.Equal(t, "1 Road, London", rec.Address)
	assert.Equal(t, "Bank X, 12-34-56", rec.Bank)
	assert.Equal(t, "", rec.AdditionalText)

	require.NotNil(t, rec.VATRatePercent)
	assert.Equal(t, "20", rec.VATRatePercent.String())
	require.NotNil(t, rec.IssueDate)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), *rec.IssueDate)
	assert.True(t, rec.DueDate.Paid)

	require.Len(t, rec.LineItems, 2)
	assert.Equal(t, "120", rec.Total().String())
	assert.Equal(t, "consulting", rec.LineItems[0].Detail)
}

func TestLoadDefaultsWhenOptionalFieldsBlank(t *testing.T) {
	rec, err := Load(writeForm(t, `name: Acme Ltd
items:
  - date: 2024-03-05
    amount: 50
`))
	require.NoError(t, err)

	assert.Nil(t, rec.VATRatePercent)
	assert.Nil(t, rec.IssueDate)
	assert.True(t, rec.DueDate.IsZero())
}

func TestLoadNonNumericRateFallsBack(t *testing.T) {
	rec, err := Load(writeForm(t, `name: Acme Ltd
vat_rate: twenty
items:
  - date: 2024-03-05
    amount: 50
`))
	require.NoError(t, err)
	assert.Nil(t, rec.VATRatePercent)
}

func TestLoadSkipsBadItems(t *testing.T) {
	rec, err := Load(writeForm(t, `name: Acme Ltd
items:
  - date: 2024-03-05
    amount: 50
  - date: someday
    amount: 10
  - date: 2024-03-06
    amount: lots
`))
	require.NoError(t, err)
	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, "50", rec.LineItems[0].Amount.String())
}

func TestLoadRejectsFormWithoutName(t *testing.T) {
	_, err := Load(writeForm(t, `items:
  - date: 2024-03-05
    amount: 50
`))
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestLoadRejectsFormWithNoValidItems(t *testing.T) {
	_, err := Load(writeForm(t, `name: Acme Ltd
items:
  - date: someday
    amount: 50
`))
	assert.ErrorIs(t, err, ErrNoValidItems)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeForm(t, "name: [unclosed"))
	assert.Error(t, err)
}
