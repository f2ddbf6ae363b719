package service

import (
	"context"
	"strings"

	"github.com/ledgerpad/ledgerpad/internal/numbering"
	"github.com/ledgerpad/ledgerpad/internal/store/domain"
	"go.uber.org/zap"
)

// AddInvoice assigns the per-client number when none is supplied and
// persists the invoice together with the owning client's advanced
// counter in one transaction.
func (s *Service) AddInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.addInvoice(ctx, req)
	s.metrics.ObserveStoreOp("add_invoice", err)
	return invoice, err
}

func (s *Service) addInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return domain.Invoice{}, domain.ErrInvalidClientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.clientIndex(req.ClientID)
	if idx < 0 {
		return domain.Invoice{}, domain.ErrClientNotFound
	}
	client := s.clients[idx]

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		number = numbering.Next(client.LastInvoiceNumber)
	}

	counter, numeric := numbering.CounterAfter(number, client.LastInvoiceNumber)
	if !numeric {
		s.log.Debug("manual invoice number is not numeric, counter unchanged",
			zap.String("client_id", client.ID),
			zap.String("invoice_number", number),
		)
	}
	client.LastInvoiceNumber = counter

	now := s.clock.Now().UTC()
	items := s.buildLineItems(req.LineItems)

	invoice := domain.Invoice{
		ID:            s.genID.Generate().String(),
		InvoiceNumber: number,
		PONumber:      strings.TrimSpace(req.PONumber),
		Client:        client,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		LineItems:     items,
		Receipts:      []domain.Receipt{},
		Total:         domain.SumLineItems(items),
		IsPaid:        req.IsPaid,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	clients := append([]domain.Client{}, s.clients...)
	clients[idx] = client
	invoices := append(append([]domain.Invoice{}, s.invoices...), invoice)

	err := s.blob.SaveAll(ctx, map[string]any{
		keyClients:  clients,
		keyInvoices: invoices,
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.clients = clients
	s.invoices = invoices

	return invoice, nil
}

// UpdateInvoice merges the patch and bumps updatedAt. The client
// counter is never touched here: lowering an invoice's number after the
// fact does not rewind the sequence.
func (s *Service) UpdateInvoice(ctx context.Context, id string, patch domain.InvoicePatch) (domain.Invoice, error) {
	invoice, err := s.updateInvoice(ctx, id, patch)
	s.metrics.ObserveStoreOp("update_invoice", err)
	return invoice, err
}

func (s *Service) updateInvoice(ctx context.Context, id string, patch domain.InvoicePatch) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}

	merged := s.invoices[idx]
	if patch.PONumber != nil {
		merged.PONumber = strings.TrimSpace(*patch.PONumber)
	}
	if patch.InvoiceDate != nil {
		merged.InvoiceDate = *patch.InvoiceDate
	}
	if patch.DueDate != nil {
		merged.DueDate = *patch.DueDate
	}
	if patch.LineItems != nil {
		merged.LineItems = s.buildLineItems(*patch.LineItems)
		if patch.Total == nil {
			merged.Total = domain.SumLineItems(merged.LineItems)
		}
	}
	if patch.Total != nil {
		merged.Total = *patch.Total
	}
	if patch.IsPaid != nil {
		merged.IsPaid = *patch.IsPaid
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}
	merged.UpdatedAt = s.clock.Now().UTC()

	invoices := append([]domain.Invoice{}, s.invoices...)
	invoices[idx] = merged
	if err := s.blob.Save(ctx, keyInvoices, invoices); err != nil {
		return domain.Invoice{}, err
	}
	s.invoices = invoices

	return merged, nil
}

// DeleteInvoice removes unconditionally; nothing references an invoice.
func (s *Service) DeleteInvoice(ctx context.Context, id string) error {
	err := s.deleteInvoice(ctx, id)
	s.metrics.ObserveStoreOp("delete_invoice", err)
	return err
}

func (s *Service) deleteInvoice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return domain.ErrInvoiceNotFound
	}

	invoices := append([]domain.Invoice{}, s.invoices[:idx]...)
	invoices = append(invoices, s.invoices[idx+1:]...)
	if err := s.blob.Save(ctx, keyInvoices, invoices); err != nil {
		return err
	}
	s.invoices = invoices

	return nil
}

func (s *Service) InvoiceByID(ctx context.Context, id string) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	return s.invoices[idx], nil
}

func (s *Service) AddReceipt(ctx context.Context, invoiceID string, req domain.AddReceiptRequest) (domain.Receipt, error) {
	receipt, err := s.addReceipt(ctx, invoiceID, req)
	s.metrics.ObserveStoreOp("add_receipt", err)
	return receipt, err
}

func (s *Service) addReceipt(ctx context.Context, invoiceID string, req domain.AddReceiptRequest) (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(invoiceID)
	if idx < 0 {
		return domain.Receipt{}, domain.ErrInvoiceNotFound
	}

	receipt := domain.Receipt{
		ID:   s.genID.Generate().String(),
		URI:  req.URI,
		Name: req.Name,
		Type: req.Type,
		Date: req.Date,
	}

	invoices := append([]domain.Invoice{}, s.invoices...)
	invoice := invoices[idx]
	invoice.Receipts = append(append([]domain.Receipt{}, invoice.Receipts...), receipt)
	invoice.UpdatedAt = s.clock.Now().UTC()
	invoices[idx] = invoice

	if err := s.blob.Save(ctx, keyInvoices, invoices); err != nil {
		return domain.Receipt{}, err
	}
	s.invoices = invoices

	return receipt, nil
}

func (s *Service) RemoveReceipt(ctx context.Context, invoiceID, receiptID string) error {
	err := s.removeReceipt(ctx, invoiceID, receiptID)
	s.metrics.ObserveStoreOp("remove_receipt", err)
	return err
}

func (s *Service) removeReceipt(ctx context.Context, invoiceID, receiptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(invoiceID)
	if idx < 0 {
		return domain.ErrInvoiceNotFound
	}

	invoice := s.invoices[idx]
	receipts := make([]domain.Receipt, 0, len(invoice.Receipts))
	found := false
	for _, receipt := range invoice.Receipts {
		if receipt.ID == receiptID {
			found = true
			continue
		}
		receipts = append(receipts, receipt)
	}
	if !found {
		return domain.ErrReceiptNotFound
	}

	invoices := append([]domain.Invoice{}, s.invoices...)
	invoice.Receipts = receipts
	invoice.UpdatedAt = s.clock.Now().UTC()
	invoices[idx] = invoice

	if err := s.blob.Save(ctx, keyInvoices, invoices); err != nil {
		return err
	}
	s.invoices = invoices

	return nil
}

// NextInvoiceNumber previews the number the client's next invoice will
// receive without advancing anything.
func (s *Service) NextInvoiceNumber(ctx context.Context, clientID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.clientIndex(clientID)
	if idx < 0 {
		return "", domain.ErrClientNotFound
	}
	return numbering.Next(s.clients[idx].LastInvoiceNumber), nil
}

func (s *Service) buildLineItems(inputs []domain.LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, domain.NewLineItem(
			s.genID.Generate().String(),
			strings.TrimSpace(input.Description),
			input.Quantity,
			input.UnitPrice,
		))
	}
	return items
}

func (s *Service) invoiceIndex(id string) int {
	for i, invoice := range s.invoices {
		if invoice.ID == id {
			return i
		}
	}
	return -1
}
