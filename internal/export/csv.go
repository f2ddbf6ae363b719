package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/ledgerpad/ledgerpad/internal/config"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// csvHeader is a stable contract; spreadsheet imports key off these
// exact column names.
var csvHeader = []string{
	"Invoice Number",
	"Client Name",
	"Client Email",
	"Client Phone",
	"Client Address",
	"Invoice Date",
	"Due Date",
	"PO Number",
	"Line Items Description",
	"Line Items Quantity",
	"Line Items Unit Price",
	"Line Items Amount",
	"Total",
	"Is Paid",
	"Notes",
	"Created At",
	"Updated At",
}

type CSVWriterParams struct {
	fx.In

	Holder *config.DocumentConfigHolder
}

// CSVWriter flattens invoices into one row each. Line item columns hold
// the per-item values joined by the configured separator.
type CSVWriter struct {
	holder *config.DocumentConfigHolder
}

func NewCSVWriter(p CSVWriterParams) *CSVWriter {
	return &CSVWriter{holder: p.Holder}
}

func (w *CSVWriter) Write(out io.Writer, invoices []storedomain.Invoice) error {
	joiner := w.holder.Get().ItemJoiner

	cw := csv.NewWriter(out)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, invoice := range invoices {
		if err := cw.Write(csvRow(invoice, joiner)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(invoice storedomain.Invoice, joiner string) []string {
	descriptions := make([]string, 0, len(invoice.LineItems))
	quantities := make([]string, 0, len(invoice.LineItems))
	unitPrices := make([]string, 0, len(invoice.LineItems))
	amounts := make([]string, 0, len(invoice.LineItems))
	for _, item := range invoice.LineItems {
		descriptions = append(descriptions, item.Description)
		quantities = append(quantities, item.Quantity.String())
		unitPrices = append(unitPrices, csvMoney(item.UnitPrice))
		amounts = append(amounts, csvMoney(item.Amount))
	}

	paid := "No"
	if invoice.IsPaid {
		paid = "Yes"
	}

	return []string{
		invoice.InvoiceNumber,
		invoice.Client.Name,
		invoice.Client.Email,
		invoice.Client.Phone,
		invoice.Client.Address,
		invoice.InvoiceDate.Format(time.RFC3339),
		invoice.DueDate.Format(time.RFC3339),
		invoice.PONumber,
		strings.Join(descriptions, joiner),
		strings.Join(quantities, joiner),
		strings.Join(unitPrices, joiner),
		strings.Join(amounts, joiner),
		csvMoney(invoice.Total),
		paid,
		invoice.Notes,
		invoice.CreatedAt.Format(time.RFC3339),
		invoice.UpdatedAt.Format(time.RFC3339),
	}
}

// csvMoney is plain "$123.40" with no thousands grouping, so the values
// stay machine-parseable.
func csvMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
