package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledgerpad/ledgerpad/internal/config"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Smallest valid PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()

	holder, err := config.NewDocumentConfigHolder()
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	renderer, err := NewRenderer(RendererParams{
		Log:    log,
		Holder: holder,
		Inline: NewInliner(InlinerParams{Log: log}),
	})
	require.NoError(t, err)
	return renderer
}

func sampleInvoice() storedomain.Invoice {
	qty := decimal.NewFromInt(2)
	price := decimal.NewFromInt(50)
	item := storedomain.NewLineItem("li-1", "Consulting", qty, price)
	return storedomain.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "0001",
		Client: storedomain.Client{
			ID:      "cl-1",
			Name:    "Acme Corp",
			Email:   "billing@acme.example",
			Address: "1 Main St",
		},
		InvoiceDate: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC),
		LineItems:   []storedomain.LineItem{item},
		Total:       storedomain.SumLineItems([]storedomain.LineItem{item}),
		Notes:       "Net 30",
	}
}

func TestRender_Sections(t *testing.T) {
	renderer := newRenderer(t)

	html, err := renderer.Render(sampleInvoice(), settingsdomain.BusinessSettings{
		BusinessName:  "Riverside Plumbing",
		BusinessEmail: "office@riverside.example",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Invoice #0001</title>")
	assert.Contains(t, html, "Riverside Plumbing")
	assert.Contains(t, html, "Email: office@riverside.example")
	assert.Contains(t, html, "Bill To")
	assert.Contains(t, html, "Acme Corp")
	assert.Contains(t, html, "UNPAID")
	assert.NotContains(t, html, "status-paid")
	assert.Contains(t, html, "<td>Consulting</td>")
	assert.Contains(t, html, "$50.00")
	assert.Contains(t, html, "Total: $100.00")
	assert.Contains(t, html, "Net 30")
	assert.Contains(t, html, "Thank you for your business!")
	assert.Contains(t, html, "#2563eb")
	assert.NotContains(t, html, "receipts-section")
}

func TestRender_PaidBadge(t *testing.T) {
	renderer := newRenderer(t)

	invoice := sampleInvoice()
	invoice.IsPaid = true
	html, err := renderer.Render(invoice, settingsdomain.BusinessSettings{BusinessName: "Riverside"})
	require.NoError(t, err)

	assert.Contains(t, html, "status-paid")
	assert.Contains(t, html, ">PAID<")
}

func TestRender_InlinesImages(t *testing.T) {
	renderer := newRenderer(t)

	dir := t.TempDir()
	logoPath := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logoPath, pngBytes, 0o644))
	receiptPath := filepath.Join(dir, "receipt.png")
	require.NoError(t, os.WriteFile(receiptPath, pngBytes, 0o644))

	invoice := sampleInvoice()
	invoice.Receipts = []storedomain.Receipt{
		{ID: "r-1", URI: "file://" + receiptPath, Name: "materials.png", Type: "image/png"},
	}

	html, err := renderer.Render(invoice, settingsdomain.BusinessSettings{
		BusinessName: "Riverside",
		LogoURI:      logoPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, "data:image/png;base64,"))
	assert.Contains(t, html, "materials.png")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestInliner_PassThrough(t *testing.T) {
	inliner := NewInliner(InlinerParams{Log: zaptest.NewLogger(t)})

	assert.Equal(t, "data:image/png;base64,abc", inliner.DataURI("data:image/png;base64,abc"))
	assert.Equal(t, "https://example.com/a.png", inliner.DataURI("https://example.com/a.png"))

	// Unreadable files keep the original reference.
	assert.Equal(t, "/nowhere/missing.png", inliner.DataURI("/nowhere/missing.png"))
}
