package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"github.com/ledgerpad/ledgerpad/internal/document"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	settingsservice "github.com/ledgerpad/ledgerpad/internal/settings/service"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	storeservice "github.com/ledgerpad/ledgerpad/internal/store/service"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sentMail struct {
	to          string
	subject     string
	body        string
	attachments []Attachment
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string, attachments []Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

type exportFixture struct {
	exporter *Exporter
	store    storedomain.Service
	settings settingsdomain.Service
	mailer   *recordingMailer
	dir      string
}

func newExportFixture(t *testing.T, mailer Mailer) *exportFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	blob, err := blobstore.New(db)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	store := storeservice.New(storeservice.Params{
		Blob: blob, Log: log, GenID: node, Clock: fake,
	})
	require.NoError(t, store.Load(context.Background()))

	settings := settingsservice.New(settingsservice.Params{Blob: blob, Log: log})
	require.NoError(t, settings.Load(context.Background()))

	holder, err := config.NewDocumentConfigHolder()
	require.NoError(t, err)
	renderer, err := document.NewRenderer(document.RendererParams{
		Log:    log,
		Holder: holder,
		Inline: document.NewInliner(document.InlinerParams{Log: log}),
	})
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := config.Config{ExportDir: filepath.Join(dir, "exports")}

	recording, _ := mailer.(*recordingMailer)
	exporter := NewExporter(ExporterParams{
		Log:      log,
		Cfg:      cfg,
		Store:    store,
		Settings: settings,
		Renderer: renderer,
		PDF:      NewPDFGenerator(),
		CSV:      NewCSVWriter(CSVWriterParams{Holder: holder}),
		Mailer:   mailer,
		Clock:    fake,
	})

	return &exportFixture{
		exporter: exporter,
		store:    store,
		settings: settings,
		mailer:   recording,
		dir:      cfg.ExportDir,
	}
}

func (f *exportFixture) seedInvoice(t *testing.T, paid bool) storedomain.Invoice {
	t.Helper()
	ctx := context.Background()

	client, err := f.store.AddClient(ctx, storedomain.CreateClientRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.example",
	})
	require.NoError(t, err)

	invoice, err := f.store.AddInvoice(ctx, storedomain.CreateInvoiceRequest{
		ClientID:    client.ID,
		InvoiceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		IsPaid:      paid,
		LineItems: []storedomain.LineItemInput{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestExportPDF_WritesFile(t *testing.T) {
	f := newExportFixture(t, &recordingMailer{})
	invoice := f.seedInvoice(t, false)

	result, err := f.exporter.ExportPDF(context.Background(), invoice.ID)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, "pdf", result.Kind)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, filepath.Join(f.dir, "Invoice_0001_acme-corp.pdf"), result.Path)

	raw, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.True(t, len(raw) > 0)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestExportPDF_UnknownInvoice(t *testing.T) {
	f := newExportFixture(t, &recordingMailer{})

	result, err := f.exporter.ExportPDF(context.Background(), "missing")
	assert.ErrorIs(t, err, storedomain.ErrInvoiceNotFound)
	assert.Equal(t, StageFailed, result.Stage)
}

func TestExportCSV_WritesDatedFile(t *testing.T) {
	f := newExportFixture(t, &recordingMailer{})
	f.seedInvoice(t, true)

	result, err := f.exporter.ExportCSV(context.Background(), storedomain.StatusAll)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, filepath.Join(f.dir, "invoices_export_2025-03-10.csv"), result.Path)

	raw, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Invoice Number,Client Name")
	assert.Contains(t, content, "$100.00")
	assert.Contains(t, content, "Yes")
}

func TestEmailInvoice_SendsWithAttachment(t *testing.T) {
	mailer := &recordingMailer{}
	f := newExportFixture(t, mailer)
	invoice := f.seedInvoice(t, false)

	result, err := f.exporter.EmailInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.False(t, result.TextOnly)
	assert.Equal(t, "billing@acme.example", result.Recipient)
	assert.Equal(t, "Invoice #0001 from Your Business", result.Subject)
	assert.Contains(t, result.Body, "Dear Acme Corp,")
	assert.Contains(t, result.Body, "Total Amount: $100.00")

	require.Len(t, mailer.sent, 1)
	require.Len(t, mailer.sent[0].attachments, 1)
	assert.Equal(t, "Invoice_0001_acme-corp.pdf", mailer.sent[0].attachments[0].Filename)
	assert.Equal(t, "application/pdf", mailer.sent[0].attachments[0].ContentType)
}

func TestEmailInvoice_TextOnlyWithoutTransport(t *testing.T) {
	f := newExportFixture(t, NoOpMailer{})
	invoice := f.seedInvoice(t, false)

	result, err := f.exporter.EmailInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.True(t, result.TextOnly)
	assert.Contains(t, result.Body, "INVOICE DETAILS")
	assert.Contains(t, result.Body, "1. Consulting")
	assert.Contains(t, result.Body, "TOTAL: $100.00")
	assert.Contains(t, result.Body, "STATUS: UNPAID")
}

func TestEmailInvoice_NoRecipient(t *testing.T) {
	f := newExportFixture(t, &recordingMailer{})
	ctx := context.Background()

	client, err := f.store.AddClient(ctx, storedomain.CreateClientRequest{Name: "No Email Co"})
	require.NoError(t, err)
	invoice, err := f.store.AddInvoice(ctx, storedomain.CreateInvoiceRequest{
		ClientID: client.ID,
		LineItems: []storedomain.LineItemInput{
			{Description: "Work", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	result, err := f.exporter.EmailInvoice(ctx, invoice.ID)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Equal(t, StageFailed, result.Stage)
}

func TestEmailInvoice_TransportFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("connection refused")}
	f := newExportFixture(t, mailer)
	invoice := f.seedInvoice(t, false)

	result, err := f.exporter.EmailInvoice(context.Background(), invoice.ID)
	require.Error(t, err)
	assert.Equal(t, StageFailed, result.Stage)
}
