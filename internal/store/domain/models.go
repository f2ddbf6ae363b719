// Package domain contains the persistence models for clients and
// invoices. JSON field names match the stored document format.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is the canonical client record. Each invoice embeds a full copy
// taken at creation/update time, not a live reference.
type Client struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	LastInvoiceNumber int    `json:"lastInvoiceNumber,omitempty"`
}

// LineItem is one line on an invoice. Amount is always derived from
// quantity and unit price, never set independently.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Receipt is an image attachment owned by exactly one invoice.
type Receipt struct {
	ID   string    `json:"id"`
	URI  string    `json:"uri"`
	Name string    `json:"name"`
	Type string    `json:"type"`
	Date time.Time `json:"date"`
}

// Invoice is the denormalized invoice aggregate: the record plus its
// embedded client snapshot, line items and receipts.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	PONumber      string          `json:"poNumber,omitempty"`
	Client        Client          `json:"client"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	LineItems     []LineItem      `json:"lineItems"`
	Receipts      []Receipt       `json:"receipts"`
	Total         decimal.Decimal `json:"total"`
	IsPaid        bool            `json:"isPaid"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Status filters invoices by payment state.
type Status string

const (
	StatusAll    Status = "all"
	StatusPaid   Status = "paid"
	StatusUnpaid Status = "unpaid"
)

// ParseStatus normalizes a raw status value, defaulting to StatusAll.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusAll, "":
		return StatusAll, true
	case StatusPaid:
		return StatusPaid, true
	case StatusUnpaid:
		return StatusUnpaid, true
	default:
		return StatusAll, false
	}
}

// Counts holds per-status invoice counts.
type Counts struct {
	All    int `json:"all"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

// YearSummary holds invoice totals for one calendar year.
// TotalAmount always equals PaidAmount + UnpaidAmount.
type YearSummary struct {
	Year         int             `json:"year"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	UnpaidAmount decimal.Decimal `json:"unpaidAmount"`
}

// NewLineItem builds a line item with its amount derived from quantity
// and unit price.
func NewLineItem(id, description string, quantity, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		ID:          id,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
	}
}

// SumLineItems computes an invoice total from its line items.
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
