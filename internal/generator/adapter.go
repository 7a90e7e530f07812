package generator

import (
	"github.com/irizaika/jonny-cashflow/internal/derive"
	"github.com/irizaika/jonny-cashflow/internal/docxtpl"
)

// buildRenderData flattens a derived invoice into the placeholder set the
// document template declares. Amounts are fixed two-decimal strings; the rate
// is a whole-percent string.
func buildRenderData(inv derive.Invoice) docxtpl.RenderData {
	items := make([]map[string]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, map[string]string{
			"workdate": item.WorkDate,
			"details":  item.Detail,
			"amount":   item.Amount.StringFixed(2),
		})
	}

	return docxtpl.RenderData{
		Fields: map[string]string{
			"invoiceid":      inv.ID,
			"mmYYYY":         inv.MonthLabel,
			"address":        inv.Address,
			"additionaltext": inv.AdditionalText,
			"duedate":        inv.DueDate,
			"bank":           inv.Bank,
			"name":           inv.Name,
			"issuedate":      inv.IssueDate,
			"total":          inv.Total.StringFixed(2),
			"subtotal":       inv.Subtotal.StringFixed(2),
			"vat":            inv.VATAmount.StringFixed(2),
			// tax is a legacy template field; it has always been zero.
			"tax":     "0.00",
			"vatrate": inv.VATRatePercent.StringFixed(0) + "%",
		},
		Items: items,
	}
}
