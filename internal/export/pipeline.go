// Package export turns invoices into deliverable artifacts: PDF and
// HTML documents, CSV spreadsheets and outgoing email. Every run walks
// a fixed stage sequence and degrades instead of failing where a lesser
// artifact is still useful.
package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"github.com/ledgerpad/ledgerpad/internal/document"
	"github.com/ledgerpad/ledgerpad/internal/observability/metrics"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/format"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Stage is where an export run currently is, or where it ended.
type Stage string

const (
	StageIdle               Stage = "idle"
	StageGeneratingDocument Stage = "generating-document"
	StageAttachingOrSharing Stage = "attaching-or-sharing"
	StageFallbackTextOnly   Stage = "fallback-text-only"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// Result describes what an export run produced. Exactly one of Path,
// URI or the email fields carries the artifact.
type Result struct {
	RunID string `json:"runId"`
	Kind  string `json:"kind"`
	Stage Stage  `json:"stage"`

	// Path is the artifact written to the export directory.
	Path string `json:"path,omitempty"`
	// URI is the inline data: fallback when no file could be written.
	URI string `json:"uri,omitempty"`

	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
	// TextOnly marks an email run that could not carry its attachment.
	TextOnly bool `json:"textOnly,omitempty"`
}

var ErrNoRecipient = errors.New("no_recipient")

type ExporterParams struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Store    storedomain.Service
	Settings settingsdomain.Service
	Renderer *document.Renderer
	PDF      *PDFGenerator
	CSV      *CSVWriter
	Mailer   Mailer
	Clock    clock.Clock
	Metrics  *metrics.AppMetrics `optional:"true"`
}

type Exporter struct {
	log      *zap.Logger
	cfg      config.Config
	store    storedomain.Service
	settings settingsdomain.Service
	renderer *document.Renderer
	pdf      *PDFGenerator
	csv      *CSVWriter
	mailer   Mailer
	clock    clock.Clock
	metrics  *metrics.AppMetrics
}

func NewExporter(p ExporterParams) *Exporter {
	return &Exporter{
		log:      p.Log.Named("export"),
		cfg:      p.Cfg,
		store:    p.Store,
		settings: p.Settings,
		renderer: p.Renderer,
		pdf:      p.PDF,
		csv:      p.CSV,
		mailer:   p.Mailer,
		clock:    p.Clock,
		metrics:  p.Metrics,
	}
}

// ExportPDF produces the invoice document. Preference order: a real
// PDF file, an HTML file, an inline HTML data URI. Only when all three
// fail does the run fail.
func (e *Exporter) ExportPDF(ctx context.Context, invoiceID string) (Result, error) {
	result := Result{RunID: ulid.Make().String(), Kind: "pdf", Stage: StageIdle}

	invoice, err := e.store.InvoiceByID(ctx, invoiceID)
	if err != nil {
		return e.finish(result, StageFailed), err
	}
	settings := e.settings.Get(ctx)

	result.Stage = StageGeneratingDocument
	raw, pdfErr := e.pdf.Generate(invoice, settings)
	if pdfErr == nil {
		path, writeErr := e.writeArtifact(documentFileName(invoice, "pdf"), raw)
		if writeErr == nil {
			result.Path = path
			return e.finish(result, StageDone), nil
		}
		e.log.Warn("writing pdf failed, falling back to html",
			zap.String("invoice_id", invoiceID),
			zap.Error(writeErr),
		)
	} else {
		e.log.Warn("pdf generation failed, falling back to html",
			zap.String("invoice_id", invoiceID),
			zap.Error(pdfErr),
		)
	}

	html, err := e.renderer.Render(invoice, settings)
	if err != nil {
		return e.finish(result, StageFailed), err
	}
	path, writeErr := e.writeArtifact(documentFileName(invoice, "html"), []byte(html))
	if writeErr == nil {
		result.Path = path
		return e.finish(result, StageDone), nil
	}
	e.log.Warn("writing html failed, returning inline document",
		zap.String("invoice_id", invoiceID),
		zap.Error(writeErr),
	)

	result.URI = "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	return e.finish(result, StageDone), nil
}

// ExportCSV writes every invoice matching the status filter into one
// dated spreadsheet file.
func (e *Exporter) ExportCSV(ctx context.Context, status storedomain.Status) (Result, error) {
	result := Result{RunID: ulid.Make().String(), Kind: "csv", Stage: StageGeneratingDocument}

	invoices := e.store.Filtered(ctx, status)

	var buf strings.Builder
	if err := e.csv.Write(&buf, invoices); err != nil {
		return e.finish(result, StageFailed), err
	}

	name := fmt.Sprintf("invoices_export_%s.csv", e.clock.Now().UTC().Format("2006-01-02"))
	path, err := e.writeArtifact(name, []byte(buf.String()))
	if err != nil {
		return e.finish(result, StageFailed), err
	}

	result.Path = path
	return e.finish(result, StageDone), nil
}

// EmailInvoice sends the invoice to its client. The body comes from the
// owner's email template; the document rides along as a PDF attachment
// when one can be generated and a transport exists. With no transport
// the run still succeeds, returning the composed text for manual
// sending.
func (e *Exporter) EmailInvoice(ctx context.Context, invoiceID string) (Result, error) {
	result := Result{RunID: ulid.Make().String(), Kind: "email", Stage: StageIdle}

	invoice, err := e.store.InvoiceByID(ctx, invoiceID)
	if err != nil {
		return e.finish(result, StageFailed), err
	}
	if strings.TrimSpace(invoice.Client.Email) == "" {
		return e.finish(result, StageFailed), ErrNoRecipient
	}
	settings := e.settings.Get(ctx)

	result.Recipient = invoice.Client.Email
	result.Subject = fmt.Sprintf("Invoice #%s from %s", invoice.InvoiceNumber, settings.BusinessName)
	result.Body = e.settings.RenderEmailTemplate(ctx, settingsdomain.TemplateData{
		ClientName:    invoice.Client.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   format.Date(invoice.InvoiceDate),
		DueDate:       format.Date(invoice.DueDate),
		TotalAmount:   format.Currency(invoice.Total),
	})

	result.Stage = StageGeneratingDocument
	var attachments []Attachment
	raw, pdfErr := e.pdf.Generate(invoice, settings)
	if pdfErr == nil {
		attachments = []Attachment{{
			Filename:    documentFileName(invoice, "pdf"),
			ContentType: "application/pdf",
			Data:        raw,
		}}
	} else {
		e.log.Warn("pdf generation failed, sending text-only email",
			zap.String("invoice_id", invoiceID),
			zap.Error(pdfErr),
		)
	}

	if len(attachments) > 0 {
		result.Stage = StageAttachingOrSharing
		err := e.mailer.Send(ctx, result.Recipient, result.Subject, result.Body, attachments)
		if err == nil {
			return e.finish(result, StageDone), nil
		}
		if !errors.Is(err, ErrMailerUnavailable) {
			return e.finish(result, StageFailed), err
		}
	}

	// No attachment possible: fold the invoice details into the body so
	// nothing is lost.
	result.Stage = StageFallbackTextOnly
	result.TextOnly = true
	result.Body = textOnlyBody(result.Body, invoice)

	err = e.mailer.Send(ctx, result.Recipient, result.Subject, result.Body, nil)
	switch {
	case err == nil, errors.Is(err, ErrMailerUnavailable):
		// Without a transport the composed message itself is the
		// artifact.
		return e.finish(result, StageDone), nil
	default:
		return e.finish(result, StageFailed), err
	}
}

func (e *Exporter) finish(result Result, stage Stage) Result {
	result.Stage = stage
	e.metrics.ObserveExportRun(result.Kind, string(stage))
	e.log.Info("export run finished",
		zap.String("run_id", result.RunID),
		zap.String("kind", result.Kind),
		zap.String("stage", string(stage)),
	)
	return result
}

func (e *Exporter) writeArtifact(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.cfg.ExportDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.cfg.ExportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func documentFileName(invoice storedomain.Invoice, ext string) string {
	return fmt.Sprintf("Invoice_%s_%s.%s", invoice.InvoiceNumber, slug.Make(invoice.Client.Name), ext)
}

func textOnlyBody(body string, invoice storedomain.Invoice) string {
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\nINVOICE DETAILS\n\n")
	fmt.Fprintf(&b, "Invoice #%s\n", invoice.InvoiceNumber)
	fmt.Fprintf(&b, "Client: %s\n", invoice.Client.Name)
	fmt.Fprintf(&b, "Invoice Date: %s\n", format.Date(invoice.InvoiceDate))
	fmt.Fprintf(&b, "Due Date: %s\n\n", format.Date(invoice.DueDate))
	b.WriteString("LINE ITEMS:\n")
	for i, item := range invoice.LineItems {
		fmt.Fprintf(&b, "%d. %s\n   Quantity: %s x %s = %s\n",
			i+1, item.Description, item.Quantity.String(),
			format.Currency(item.UnitPrice), format.Currency(item.Amount))
	}
	fmt.Fprintf(&b, "\nTOTAL: %s\n", format.Currency(invoice.Total))
	status := "UNPAID"
	if invoice.IsPaid {
		status = "PAID"
	}
	fmt.Fprintf(&b, "STATUS: %s\n", status)
	if invoice.Notes != "" {
		fmt.Fprintf(&b, "\nNOTES:\n%s\n", invoice.Notes)
	}
	if len(invoice.Receipts) > 0 {
		fmt.Fprintf(&b, "\nRECEIPTS: %d receipt(s) available\n", len(invoice.Receipts))
	}
	return b.String()
}
