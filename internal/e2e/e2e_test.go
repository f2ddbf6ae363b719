package e2e

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	authservice "github.com/ledgerpad/ledgerpad/internal/auth/service"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"github.com/ledgerpad/ledgerpad/internal/document"
	"github.com/ledgerpad/ledgerpad/internal/export"
	"github.com/ledgerpad/ledgerpad/internal/observability"
	"github.com/ledgerpad/ledgerpad/internal/server"
	settingsservice "github.com/ledgerpad/ledgerpad/internal/settings/service"
	storeservice "github.com/ledgerpad/ledgerpad/internal/store/service"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type env struct {
	srv       *httptest.Server
	client    *http.Client
	exportDir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	ctx := context.Background()

	store := storeservice.New(storeservice.Params{Blob: blob, Log: log, GenID: node, Clock: fake})
	require.NoError(t, store.Load(ctx))
	settings := settingsservice.New(settingsservice.Params{Blob: blob, Log: log})
	require.NoError(t, settings.Load(ctx))
	authSvc := authservice.New(authservice.Params{Blob: blob, Log: log, Clock: fake})
	require.NoError(t, authSvc.Load(ctx))

	holder, err := config.NewDocumentConfigHolder()
	require.NoError(t, err)
	renderer, err := document.NewRenderer(document.RendererParams{
		Log:    log,
		Holder: holder,
		Inline: document.NewInliner(document.InlinerParams{Log: log}),
	})
	require.NoError(t, err)

	cfg := config.Config{ExportDir: filepath.Join(t.TempDir(), "exports")}
	exporter := export.NewExporter(export.ExporterParams{
		Log:      log,
		Cfg:      cfg,
		Store:    store,
		Settings: settings,
		Renderer: renderer,
		PDF:      export.NewPDFGenerator(),
		CSV:      export.NewCSVWriter(export.CSVWriterParams{Holder: holder}),
		Mailer:   export.NoOpMailer{},
		Clock:    fake,
	})

	s := server.NewServer(server.ServerParams{
		Gin:         server.NewEngine(observability.Config{}, nil),
		Cfg:         cfg,
		Store:       store,
		SettingsSvc: settings,
		AuthSvc:     authSvc,
		Renderer:    renderer,
		Exporter:    exporter,
		Clock:       fake,
	})

	srv := httptest.NewServer(s.Engine())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &env{
		srv:       srv,
		client:    &http.Client{Jar: jar},
		exportDir: cfg.ExportDir,
	}
}

func (e *env) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// TestInvoicingLifecycle walks the primary flow end to end: first-run
// setup, client creation, invoicing, payment, document generation and
// spreadsheet export, all against the live HTTP surface with the
// session riding on a cookie.
func TestInvoicingLifecycle(t *testing.T) {
	e := newEnv(t)

	// First run: no credentials yet.
	status, state := e.do(t, http.MethodGet, "/auth/state", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, state["hasCredentials"])

	status, _ = e.do(t, http.MethodPost, "/auth/setup", map[string]any{
		"email": "owner@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)

	// The setup response set a session cookie; the jar carries it on.
	status, _ = e.do(t, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, status)

	// Business identity.
	status, _ = e.do(t, http.MethodPatch, "/api/settings", map[string]any{
		"businessName": "Riverside Plumbing",
	})
	require.Equal(t, http.StatusOK, status)

	// Client and first invoice.
	status, client := e.do(t, http.MethodPost, "/api/clients", map[string]any{
		"name":    "Acme Corp",
		"email":   "billing@acme.example",
		"address": "12 Canal St",
	})
	require.Equal(t, http.StatusCreated, status)
	clientID := client["id"].(string)

	status, invoice := e.do(t, http.MethodPost, "/api/invoices", map[string]any{
		"clientId":    clientID,
		"invoiceDate": "3/10/2025",
		"dueDate":     "4/10/2025",
		"lineItems": []map[string]any{
			{"description": "Consulting", "quantity": "2", "unitPrice": "50"},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	invoiceID := invoice["id"].(string)
	assert.Equal(t, "0001", invoice["invoiceNumber"])
	assert.Equal(t, "100", invoice["total"])
	assert.Equal(t, false, invoice["isPaid"])

	// Numbering preview for the next invoice.
	status, next := e.do(t, http.MethodGet, "/api/clients/"+clientID+"/next-invoice-number", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0002", next["invoiceNumber"])

	// Mark paid.
	status, invoice = e.do(t, http.MethodPatch, "/api/invoices/"+invoiceID, map[string]any{
		"isPaid": true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, invoice["isPaid"])

	status, counts := e.do(t, http.MethodGet, "/api/invoices/counts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), counts["all"])
	assert.Equal(t, float64(1), counts["paid"])
	assert.Equal(t, float64(0), counts["unpaid"])

	// Document preview carries the updated business name.
	resp, err := e.client.Get(e.srv.URL + "/api/invoices/" + invoiceID + "/document")
	require.NoError(t, err)
	html := readBody(t, resp)
	assert.Contains(t, html, "Riverside Plumbing")
	assert.Contains(t, html, "Total: $100.00")

	// Spreadsheet export and row content.
	status, result := e.do(t, http.MethodPost, "/api/exports/csv", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "done", result["stage"])

	raw, err := os.ReadFile(result["path"].(string))
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "0001", row[0])
	assert.Equal(t, "Acme Corp", row[1])
	assert.Contains(t, row, "$100.00")
	assert.Contains(t, row, "Yes")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
