// Package document renders an invoice into a standalone HTML document.
// All images are inlined as data URIs so the file has no external
// references and survives being mailed or moved.
package document

import (
	"bytes"
	"html/template"

	"github.com/ledgerpad/ledgerpad/internal/config"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/format"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RendererParams struct {
	fx.In

	Log    *zap.Logger
	Holder *config.DocumentConfigHolder
	Inline *Inliner
}

type Renderer struct {
	log    *zap.Logger
	holder *config.DocumentConfigHolder
	inline *Inliner
	tmpl   *template.Template
}

func NewRenderer(p RendererParams) (*Renderer, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money": format.Currency,
		"date":  format.Date,
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		log:    p.Log.Named("document.renderer"),
		holder: p.Holder,
		inline: p.Inline,
		tmpl:   tmpl,
	}, nil
}

// URI fields are template.URL: the inlined data: URIs are produced
// locally and must not be rewritten by the HTML escaper.
type receiptView struct {
	URI  template.URL
	Name string
}

type invoiceView struct {
	Invoice  storedomain.Invoice
	Settings settingsdomain.BusinessSettings
	LogoURI  template.URL
	Receipts []receiptView
	Accent   template.CSS
	Footer   string
}

// Render produces the full HTML document for one invoice.
func (r *Renderer) Render(invoice storedomain.Invoice, settings settingsdomain.BusinessSettings) (string, error) {
	cfg := r.holder.Get()

	view := invoiceView{
		Invoice:  invoice,
		Settings: settings,
		Accent:   template.CSS(cfg.AccentColor),
		Footer:   cfg.FooterMessage,
	}
	if settings.LogoURI != "" {
		view.LogoURI = template.URL(r.inline.DataURI(settings.LogoURI))
	}
	for _, receipt := range invoice.Receipts {
		view.Receipts = append(view.Receipts, receiptView{
			URI:  template.URL(r.inline.DataURI(receipt.URI)),
			Name: receipt.Name,
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", err
	}

	r.log.Debug("invoice document rendered",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("receipts", len(view.Receipts)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.String(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Invoice #{{.Invoice.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; line-height: 1.6; }
        .header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 40px; border-bottom: 2px solid {{.Accent}}; padding-bottom: 20px; }
        .business-info { flex: 1; }
        .business-logo { width: 80px; height: 80px; object-fit: contain; margin-bottom: 10px; display: block; }
        .business-name { font-size: 24px; font-weight: bold; color: {{.Accent}}; margin-bottom: 10px; }
        .business-details { font-size: 14px; color: #666; white-space: pre-line; }
        .invoice-title { text-align: right; flex: 1; display: flex; flex-direction: column; align-items: flex-end; }
        .invoice-number { font-size: 32px; font-weight: bold; color: {{.Accent}}; margin: 0; }
        .invoice-label { font-size: 14px; color: #666; margin-bottom: 5px; }
        .status-badge { display: inline-block; padding: 6px 12px; border-radius: 4px; font-size: 12px; font-weight: bold; color: white; margin-top: 10px; }
        .status-paid { background-color: #10b981; }
        .status-unpaid { background-color: #f59e0b; }
        .invoice-details { display: flex; justify-content: space-between; margin-bottom: 40px; }
        .client-info, .dates-info { flex: 1; }
        .client-info { margin-right: 40px; }
        .section-title { font-size: 16px; font-weight: bold; color: {{.Accent}}; margin-bottom: 15px; border-bottom: 1px solid #e2e8f0; padding-bottom: 5px; }
        .client-name { font-size: 18px; font-weight: bold; margin-bottom: 8px; }
        .client-details { font-size: 14px; color: #666; margin-bottom: 4px; }
        .date-row { display: flex; justify-content: space-between; margin-bottom: 8px; font-size: 14px; }
        .date-label { color: #666; }
        .date-value { font-weight: 500; }
        .line-items { margin-bottom: 30px; }
        .line-items-table { width: 100%; border-collapse: collapse; margin-top: 15px; }
        .line-items-table th { background-color: #f8fafc; padding: 12px; text-align: left; font-weight: bold; color: #374151; border-bottom: 2px solid #e2e8f0; }
        .line-items-table td { padding: 12px; border-bottom: 1px solid #e2e8f0; }
        .line-items-table th:nth-child(2), .line-items-table td:nth-child(2),
        .line-items-table th:nth-child(3), .line-items-table td:nth-child(3) { text-align: center; width: 80px; }
        .line-items-table th:nth-child(4), .line-items-table td:nth-child(4) { text-align: right; width: 80px; }
        .total-section { text-align: right; margin-top: 20px; padding-top: 20px; border-top: 2px solid {{.Accent}}; }
        .total-row { font-size: 20px; font-weight: bold; color: {{.Accent}}; }
        .notes-section { margin-top: 40px; padding-top: 20px; border-top: 1px solid #e2e8f0; }
        .notes-content { font-size: 14px; color: #666; white-space: pre-line; background-color: #f8fafc; padding: 15px; border-radius: 4px; margin-top: 10px; }
        .receipts-section { margin-top: 40px; padding-top: 20px; border-top: 1px solid #e2e8f0; }
        .receipts-grid { display: flex; flex-wrap: wrap; gap: 15px; margin-top: 15px; }
        .receipt-item { text-align: center; max-width: 200px; }
        .receipt-image { width: 150px; height: 150px; object-fit: cover; border-radius: 8px; border: 1px solid #e2e8f0; }
        .receipt-name { font-size: 12px; color: #666; margin-top: 8px; word-break: break-word; }
        .footer { margin-top: 60px; text-align: center; font-size: 12px; color: #666; border-top: 1px solid #e2e8f0; padding-top: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="business-info">
            {{if .LogoURI}}<img src="{{.LogoURI}}" alt="Business Logo" class="business-logo" />{{end}}
            <div class="business-name">{{.Settings.BusinessName}}</div>
            {{if .Settings.BusinessAddress}}<div class="business-details">{{.Settings.BusinessAddress}}</div>{{end}}
            {{if .Settings.BusinessPhone}}<div class="business-details">Phone: {{.Settings.BusinessPhone}}</div>{{end}}
            {{if .Settings.BusinessEmail}}<div class="business-details">Email: {{.Settings.BusinessEmail}}</div>{{end}}
        </div>
        <div class="invoice-title">
            <div class="invoice-label">INVOICE</div>
            <div class="invoice-number">#{{.Invoice.InvoiceNumber}}</div>
            <div class="status-badge {{if .Invoice.IsPaid}}status-paid{{else}}status-unpaid{{end}}">{{if .Invoice.IsPaid}}PAID{{else}}UNPAID{{end}}</div>
        </div>
    </div>

    <div class="invoice-details">
        <div class="client-info">
            <div class="section-title">Bill To</div>
            <div class="client-name">{{.Invoice.Client.Name}}</div>
            {{if .Invoice.Client.Email}}<div class="client-details">{{.Invoice.Client.Email}}</div>{{end}}
            {{if .Invoice.Client.Phone}}<div class="client-details">{{.Invoice.Client.Phone}}</div>{{end}}
            {{if .Invoice.Client.Address}}<div class="client-details">{{.Invoice.Client.Address}}</div>{{end}}
        </div>
        <div class="dates-info">
            <div class="section-title">Invoice Details</div>
            <div class="date-row">
                <span class="date-label">Invoice Date:</span>
                <span class="date-value">{{date .Invoice.InvoiceDate}}</span>
            </div>
            <div class="date-row">
                <span class="date-label">Due Date:</span>
                <span class="date-value">{{date .Invoice.DueDate}}</span>
            </div>
        </div>
    </div>

    <div class="line-items">
        <div class="section-title">Services</div>
        <table class="line-items-table">
            <thead>
                <tr><th>Description</th><th>Qty</th><th>Unit Price</th><th>Amount</th></tr>
            </thead>
            <tbody>
                {{range .Invoice.LineItems}}
                <tr>
                    <td>{{.Description}}</td>
                    <td>{{.Quantity}}</td>
                    <td>{{money .UnitPrice}}</td>
                    <td>{{money .Amount}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
        <div class="total-section">
            <div class="total-row">Total: {{money .Invoice.Total}}</div>
        </div>
    </div>

    {{if .Receipts}}
    <div class="receipts-section">
        <div class="section-title">Receipts</div>
        <div class="receipts-grid">
            {{range .Receipts}}
            <div class="receipt-item">
                <img src="{{.URI}}" alt="{{.Name}}" class="receipt-image" />
                <div class="receipt-name">{{.Name}}</div>
            </div>
            {{end}}
        </div>
    </div>
    {{end}}

    {{if .Invoice.Notes}}
    <div class="notes-section">
        <div class="section-title">Notes</div>
        <div class="notes-content">{{.Invoice.Notes}}</div>
    </div>
    {{end}}

    <div class="footer">
        <div>{{.Footer}}</div>
        {{if .Settings.BusinessName}}<div>{{.Settings.BusinessName}}</div>{{end}}
    </div>
</body>
</html>`
