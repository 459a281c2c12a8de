// Package quote provides the Quote document.
package quote

import (
	"context"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
)

// Quote is a priced offer to a client. It shares the invoice's calculation
// engine and tax summary but carries no payment state; its terminal business
// event is either expiry or conversion into an invoice.
type Quote struct {
	entity.Document

	ClientID id.ID `db:"client_id" json:"clientId"`

	// ValidUntil is the offer expiry date
	ValidUntil *time.Time `db:"valid_until" json:"validUntil,omitempty"`

	// Totals (engine output, persisted verbatim)
	SubtotalNet           types.MinorUnits `db:"subtotal_net" json:"subtotalNetCents"`
	TotalDiscount         types.MinorUnits `db:"total_discount" json:"totalDiscountCents"`
	GlobalDiscountApplied types.MinorUnits `db:"global_discount_applied" json:"globalDiscountAppliedCents"`
	SurchargeAmount       types.MinorUnits `db:"surcharge_amount" json:"surchargeAmountCents"`
	TotalVAT              types.MinorUnits `db:"total_vat" json:"totalVatCents"`
	StampAmount           types.MinorUnits `db:"stamp_amount" json:"stampAmountCents"`
	TotalGross            types.MinorUnits `db:"total_gross" json:"totalGrossCents"`

	TaxSummary invoice.TaxSummaryColumn `db:"tax_summary" json:"taxSummary"`

	Lines []invoice.Line `db:"-" json:"lines"`
}

// NewQuote creates a new draft quote.
func NewQuote(ownerID, clientID id.ID, currency string) *Quote {
	return &Quote{
		Document: entity.NewDocument(ownerID, currency),
		ClientID: clientID,
		Lines:    make([]invoice.Line, 0),
	}
}

// ApplyTotals copies the engine's aggregation result onto the document.
func (q *Quote) ApplyTotals(totals billing.DocumentTotals, descriptions []string) {
	q.SubtotalNet = totals.SubtotalNet
	q.TotalDiscount = totals.TotalDiscount
	q.GlobalDiscountApplied = totals.GlobalDiscountApplied
	q.SurchargeAmount = totals.SurchargeAmount
	q.TotalVAT = totals.TotalVAT
	q.StampAmount = totals.StampAmount
	q.TotalGross = totals.TotalGross
	q.TaxSummary = invoice.TaxSummaryColumn(totals.TaxSummary)

	q.Lines = invoice.LinesFromResults(totals.Lines, descriptions)
}

// Validate implements entity.Validatable.
func (q *Quote) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(q.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	if q.ValidUntil != nil && q.ValidUntil.Before(q.Date) {
		return apperror.NewValidation("validity may not end before the quote date").
			WithDetail("field", "validUntil")
	}

	return nil
}

// GetDocumentType returns the sequenced document kind.
func (q *Quote) GetDocumentType() entity.DocumentType { return entity.DocumentTypeQuote }
