package service

import (
	"context"

	"github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/format"
	"github.com/shopspring/decimal"
)

// Filtered returns invoices matching the payment status filter.
func (s *Service) Filtered(ctx context.Context, status domain.Status) []domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Invoice, 0, len(s.invoices))
	for _, invoice := range s.invoices {
		switch status {
		case domain.StatusPaid:
			if !invoice.IsPaid {
				continue
			}
		case domain.StatusUnpaid:
			if invoice.IsPaid {
				continue
			}
		}
		out = append(out, invoice)
	}
	return out
}

// Counts returns per-status invoice counts.
func (s *Service) Counts(ctx context.Context) domain.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := domain.Counts{All: len(s.invoices)}
	for _, invoice := range s.invoices {
		if invoice.IsPaid {
			counts.Paid++
		}
	}
	counts.Unpaid = counts.All - counts.Paid
	return counts
}

// YearlySummary sums totals over invoices whose invoice date falls in
// the given local wall-clock year.
func (s *Service) YearlySummary(ctx context.Context, year int) domain.YearSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.YearSummary{
		Year:         year,
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
	for _, invoice := range s.invoices {
		if format.Year(invoice.InvoiceDate) != year {
			continue
		}
		summary.TotalAmount = summary.TotalAmount.Add(invoice.Total)
		if invoice.IsPaid {
			summary.PaidAmount = summary.PaidAmount.Add(invoice.Total)
		}
	}
	summary.UnpaidAmount = summary.TotalAmount.Sub(summary.PaidAmount)
	return summary
}
