package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/format"
)

// PDFGenerator lays out an invoice as a paginated PDF.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

func (g *PDFGenerator) Generate(invoice storedomain.Invoice, settings settingsdomain.BusinessSettings) ([]byte, error) {
	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, settings.BusinessName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
		text.NewCol(4, "INVOICE #"+invoice.InvoiceNumber, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	status := "UNPAID"
	if invoice.IsPaid {
		status = "PAID"
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(4, status, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(settings.BusinessAddress, props.Text{Size: 9}),
			text.New(settings.BusinessPhone, props.Text{Size: 9, Top: 5}),
			text.New(settings.BusinessEmail, props.Text{Size: 9, Top: 10}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(invoice.Client.Name, props.Text{Size: 9, Top: 5}),
			text.New(invoice.Client.Address, props.Text{Size: 9, Top: 10}),
			text.New(invoice.Client.Email, props.Text{Size: 9, Top: 15}),
		),
	)

	m.AddRow(16,
		col.New(12).Add(
			text.New("Invoice date: "+format.Date(invoice.InvoiceDate), props.Text{Size: 9}),
			text.New("Due date: "+format.Date(invoice.DueDate), props.Text{Size: 9, Top: 5}),
		),
	)
	if invoice.PONumber != "" {
		m.AddRow(6,
			text.NewCol(12, "PO number: "+invoice.PONumber, props.Text{Size: 9}),
		)
	}

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range invoice.LineItems {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.Currency(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.Currency(item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(4, "Total: "+format.Currency(invoice.Total), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	if invoice.Notes != "" {
		m.AddRow(20,
			col.New(12).Add(
				text.New("Notes", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.New(invoice.Notes, props.Text{Size: 9, Top: 5}),
			),
		)
	}
	if len(invoice.Receipts) > 0 {
		m.AddRow(6,
			text.NewCol(12, fmt.Sprintf("%d receipt(s) attached to this invoice", len(invoice.Receipts)), props.Text{Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
