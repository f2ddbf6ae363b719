package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/format"
	"github.com/shopspring/decimal"
)

type lineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type createInvoiceRequest struct {
	ClientID      string            `json:"clientId"`
	InvoiceNumber string            `json:"invoiceNumber"`
	PONumber      string            `json:"poNumber"`
	InvoiceDate   string            `json:"invoiceDate"`
	DueDate       string            `json:"dueDate"`
	LineItems     []lineItemRequest `json:"lineItems"`
	Notes         string            `json:"notes"`
	IsPaid        bool              `json:"isPaid"`
}

type updateInvoiceRequest struct {
	PONumber    *string            `json:"poNumber"`
	InvoiceDate *string            `json:"invoiceDate"`
	DueDate     *string            `json:"dueDate"`
	LineItems   *[]lineItemRequest `json:"lineItems"`
	Total       *decimal.Decimal   `json:"total"`
	IsPaid      *bool              `json:"isPaid"`
	Notes       *string            `json:"notes"`
}

type addReceiptRequest struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
	Date string `json:"date"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	status, ok := storedomain.ParseStatus(c.Query("status"))
	if !ok {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid value"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": s.store.Filtered(c.Request.Context(), status)})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.LineItems) == 0 {
		AbortWithError(c, storedomain.ErrNoLineItems)
		return
	}

	now := s.clock.Now()
	invoice, err := s.store.AddInvoice(c.Request.Context(), storedomain.CreateInvoiceRequest{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		PONumber:      req.PONumber,
		InvoiceDate:   format.ParseDateInput(req.InvoiceDate, now),
		DueDate:       format.ParseDateInput(req.DueDate, now),
		LineItems:     lineItemInputs(req.LineItems),
		Notes:         req.Notes,
		IsPaid:        req.IsPaid,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, err := s.store.InvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := storedomain.InvoicePatch{
		PONumber: req.PONumber,
		Total:    req.Total,
		IsPaid:   req.IsPaid,
		Notes:    req.Notes,
	}
	now := s.clock.Now()
	if req.InvoiceDate != nil {
		parsed := format.ParseDateInput(*req.InvoiceDate, now)
		patch.InvoiceDate = &parsed
	}
	if req.DueDate != nil {
		parsed := format.ParseDateInput(*req.DueDate, now)
		patch.DueDate = &parsed
	}
	if req.LineItems != nil {
		if len(*req.LineItems) == 0 {
			AbortWithError(c, storedomain.ErrNoLineItems)
			return
		}
		items := lineItemInputs(*req.LineItems)
		patch.LineItems = &items
	}

	invoice, err := s.store.UpdateInvoice(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.store.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddReceipt(c *gin.Context) {
	var req addReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	receipt, err := s.store.AddReceipt(c.Request.Context(), c.Param("id"), storedomain.AddReceiptRequest{
		URI:  req.URI,
		Name: req.Name,
		Type: req.Type,
		Date: format.ParseDateInput(req.Date, s.clock.Now()),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (s *Server) RemoveReceipt(c *gin.Context) {
	err := s.store.RemoveReceipt(c.Request.Context(), c.Param("id"), c.Param("receiptId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) InvoiceCounts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Counts(c.Request.Context()))
}

func (s *Server) YearlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid value"))
		return
	}
	c.JSON(http.StatusOK, s.store.YearlySummary(c.Request.Context(), year))
}

func lineItemInputs(items []lineItemRequest) []storedomain.LineItemInput {
	inputs := make([]storedomain.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, storedomain.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inputs
}
