// Package invoice provides the Invoice document.
package invoice

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
)

// Invoice is a sent-to-client financial document. Totals and number freeze
// once it leaves draft; only status and payment-derived fields mutate later.
type Invoice struct {
	entity.Document

	// Client reference
	ClientID id.ID `db:"client_id" json:"clientId"`

	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// PaidAmount tracks received payments (drives PARTIAL/PAID)
	PaidAmount types.MinorUnits `db:"paid_amount" json:"paidAmountCents"`

	// Totals (engine output, persisted verbatim)
	SubtotalNet           types.MinorUnits `db:"subtotal_net" json:"subtotalNetCents"`
	TotalDiscount         types.MinorUnits `db:"total_discount" json:"totalDiscountCents"`
	GlobalDiscountApplied types.MinorUnits `db:"global_discount_applied" json:"globalDiscountAppliedCents"`
	SurchargeAmount       types.MinorUnits `db:"surcharge_amount" json:"surchargeAmountCents"`
	TotalVAT              types.MinorUnits `db:"total_vat" json:"totalVatCents"`
	StampAmount           types.MinorUnits `db:"stamp_amount" json:"stampAmountCents"`
	TotalGross            types.MinorUnits `db:"total_gross" json:"totalGrossCents"`

	// TaxSummary is stored as an ordered JSONB array and never recomputed
	// on read.
	TaxSummary TaxSummaryColumn `db:"tax_summary" json:"taxSummary"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// TaxSummaryColumn is the persisted ordered tax summary. It round-trips as
// JSONB so the display order survives storage untouched.
type TaxSummaryColumn []billing.TaxSummaryEntry

// Value implements driver.Valuer.
func (c TaxSummaryColumn) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *TaxSummaryColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported tax summary source type %T", src)
	}
}

// Line is one persisted invoice line with all derived amounts.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Description string `db:"description" json:"description"`

	Quantity  decimal.Decimal  `db:"quantity" json:"quantity"`
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPriceCents"`
	VATRate   decimal.Decimal  `db:"vat_rate" json:"vatRatePercent"`

	DiscountAmount      types.MinorUnits `db:"discount_amount" json:"discountAmountCents"`
	GlobalDiscountShare types.MinorUnits `db:"global_discount_share" json:"globalDiscountShareCents"`
	NetAmount           types.MinorUnits `db:"net_amount" json:"netAmountCents"`
	SurchargeRate       *decimal.Decimal `db:"surcharge_rate" json:"surchargeRatePercent,omitempty"`
	SurchargeAmount     types.MinorUnits `db:"surcharge_amount" json:"surchargeAmountCents"`
	VATAmount           types.MinorUnits `db:"vat_amount" json:"vatAmountCents"`
	GrossAmount         types.MinorUnits `db:"gross_amount" json:"grossAmountCents"`
}

// NewInvoice creates a new draft invoice.
func NewInvoice(ownerID, clientID id.ID, currency string) *Invoice {
	return &Invoice{
		Document: entity.NewDocument(ownerID, currency),
		ClientID: clientID,
		Lines:    make([]Line, 0),
	}
}

// ApplyTotals copies the engine's aggregation result onto the document,
// rebuilding the line table part from the post-allocation figures.
func (inv *Invoice) ApplyTotals(totals billing.DocumentTotals, descriptions []string) {
	inv.SubtotalNet = totals.SubtotalNet
	inv.TotalDiscount = totals.TotalDiscount
	inv.GlobalDiscountApplied = totals.GlobalDiscountApplied
	inv.SurchargeAmount = totals.SurchargeAmount
	inv.TotalVAT = totals.TotalVAT
	inv.StampAmount = totals.StampAmount
	inv.TotalGross = totals.TotalGross
	inv.TaxSummary = TaxSummaryColumn(totals.TaxSummary)

	inv.Lines = LinesFromResults(totals.Lines, descriptions)
}

// LinesFromResults builds the persisted line table from the engine's
// post-allocation per-line figures. Shared with the quote document, which
// stores the same line shape.
func LinesFromResults(results []billing.LineResult, descriptions []string) []Line {
	lines := make([]Line, len(results))
	for i, lr := range results {
		desc := ""
		if i < len(descriptions) {
			desc = descriptions[i]
		}
		lines[i] = lineFromResult(i+1, desc, lr)
	}
	return lines
}

func lineFromResult(no int, description string, lr billing.LineResult) Line {
	return Line{
		LineID:              id.New(),
		LineNo:              no,
		Description:         description,
		Quantity:            lr.Quantity,
		UnitPrice:           lr.UnitPrice,
		VATRate:             lr.VATRate,
		DiscountAmount:      lr.DiscountAmount,
		GlobalDiscountShare: lr.GlobalDiscountShare,
		NetAmount:           lr.NetAmount,
		SurchargeRate:       lr.SurchargeRate,
		SurchargeAmount:     lr.SurchargeAmount,
		VATAmount:           lr.VATAmount,
		GrossAmount:         lr.GrossAmount,
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	for i, line := range inv.Lines {
		if line.Quantity.IsNegative() {
			return apperror.NewValidation("quantity must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.GrossAmount != line.NetAmount+line.SurchargeAmount+line.VATAmount {
			return apperror.NewValidation("line amounts are inconsistent").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// GetDocumentType returns the sequenced document kind.
func (inv *Invoice) GetDocumentType() entity.DocumentType { return entity.DocumentTypeInvoice }

// RegisterPayment records a received amount and derives the status.
func (inv *Invoice) RegisterPayment(amount types.MinorUnits) error {
	if amount.IsNegative() {
		return apperror.NewValidation("payment amount must not be negative").
			WithDetail("amount", int64(amount))
	}
	if inv.Status == entity.StatusDraft || inv.Status.IsTerminal() {
		return apperror.NewBusinessRule(
			apperror.CodeInvalidTransition,
			"Payments apply only to transmitted documents.",
		).WithDetail("status", string(inv.Status))
	}

	inv.PaidAmount += amount
	next := entity.StatusPartial
	if inv.PaidAmount >= inv.TotalGross {
		next = entity.StatusPaid
	}
	if inv.Status == next {
		inv.Touch()
		return nil
	}
	return inv.TransitionTo(next)
}
