package printing

import (
	"bytes"
	"html/template"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
)

// invoiceTemplate is the print layout for a posted customer invoice.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Name}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .title { font-size: 22px; font-weight: bold; }
  .meta { text-align: right; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 6px 4px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  .num { text-align: right; }
  .total-row td { border-bottom: none; font-weight: bold; padding-top: 12px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="title">Invoice {{.Name}}</div>
      <div>Customer: {{.PartnerName}}</div>
    </div>
    <div class="meta">
      {{if .Origin}}<div>Source: {{.Origin}}</div>{{end}}
      {{if .PostedDate}}<div>Date: {{.PostedDate}}</div>{{end}}
    </div>
  </div>
  <table>
    <thead>
      <tr>
        <th>Description</th>
        <th class="num">Quantity</th>
        <th class="num">Unit Price</th>
        <th class="num">Subtotal</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}} {{.Unit}}</td>
        <td class="num">{{.UnitPrice}}</td>
        <td class="num">{{.Subtotal}}</td>
      </tr>
      {{end}}
      <tr class="total-row">
        <td colspan="3">Total</td>
        <td class="num">{{.AmountTotal}}</td>
      </tr>
    </tbody>
  </table>
</body>
</html>`))

type invoiceTemplateData struct {
	Name        string
	PartnerName string
	Origin      string
	PostedDate  string
	AmountTotal string
	Lines       []invoiceTemplateLine
}

type invoiceTemplateLine struct {
	Description string
	Quantity    string
	UnitPrice   string
	Unit        string
	Subtotal    string
}

// RenderInvoiceHTML produces the print HTML for an invoice.
func RenderInvoiceHTML(inv *finance.Invoice, partnerName string) (string, error) {
	data := invoiceTemplateData{
		Name:        inv.Name,
		PartnerName: partnerName,
		Origin:      inv.Origin,
		AmountTotal: inv.AmountTotal.StringFixed(2),
	}
	if inv.PostedAt != nil {
		data.PostedDate = inv.PostedAt.Format("2006-01-02")
	}
	for _, l := range inv.Lines {
		data.Lines = append(data.Lines, invoiceTemplateLine{
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Unit:        l.Unit,
			Subtotal:    l.Subtotal().StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
