package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrClientNotFound  = errors.New("client_not_found")
	ErrInvoiceNotFound = errors.New("invoice_not_found")
	ErrReceiptNotFound = errors.New("receipt_not_found")
	ErrClientInUse     = errors.New("client_in_use")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidClientID = errors.New("invalid_client_id")
	ErrNoLineItems     = errors.New("no_line_items")
)

type CreateClientRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// ClientPatch merges over an existing client. Nil fields are untouched.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

type CreateInvoiceRequest struct {
	ClientID string
	// InvoiceNumber overrides the per-client sequence when set.
	InvoiceNumber string
	PONumber      string
	InvoiceDate   time.Time
	DueDate       time.Time
	LineItems     []LineItemInput
	Notes         string
	IsPaid        bool
}

// InvoicePatch merges over an existing invoice. Nil fields are
// untouched. When LineItems is set and Total is not, the total is
// re-derived from the new items; an explicit Total wins as supplied.
type InvoicePatch struct {
	PONumber    *string
	InvoiceDate *time.Time
	DueDate     *time.Time
	LineItems   *[]LineItemInput
	Total       *decimal.Decimal
	IsPaid      *bool
	Notes       *string
}

type AddReceiptRequest struct {
	URI  string
	Name string
	Type string
	Date time.Time
}

// Service owns the authoritative in-memory copies of both collections,
// mirrored wholesale to durable storage.
type Service interface {
	Load(ctx context.Context) error

	AddClient(ctx context.Context, req CreateClientRequest) (Client, error)
	UpdateClient(ctx context.Context, id string, patch ClientPatch) (Client, error)
	DeleteClient(ctx context.Context, id string) error
	Clients(ctx context.Context) []Client
	ClientByID(ctx context.Context, id string) (Client, error)
	NextInvoiceNumber(ctx context.Context, clientID string) (string, error)

	AddInvoice(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	UpdateInvoice(ctx context.Context, id string, patch InvoicePatch) (Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
	InvoiceByID(ctx context.Context, id string) (Invoice, error)

	AddReceipt(ctx context.Context, invoiceID string, req AddReceiptRequest) (Receipt, error)
	RemoveReceipt(ctx context.Context, invoiceID, receiptID string) error

	Filtered(ctx context.Context, status Status) []Invoice
	Counts(ctx context.Context) Counts
	YearlySummary(ctx context.Context, year int) YearSummary
}
