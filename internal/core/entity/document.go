package entity

import (
	"context"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	appctx "github.com/AzizBrinis/invoice-app-sub003/internal/core/context"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// DocumentType distinguishes the sequenced financial document kinds.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "INVOICE"
	DocumentTypeQuote   DocumentType = "QUOTE"
)

// Document is the base type for financial documents (Invoice, Quote).
//
// Totals and number are immutable once the document leaves DRAFT; only status
// and payment-derived fields mutate afterward.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status drives the lifecycle (see entity.Status)
	Status Status `db:"status" json:"status"`

	// OwnerID is the owning account (settings, sequences are keyed by it)
	OwnerID id.ID `db:"owner_id" json:"ownerId"`

	// Currency is the ISO 4217 code all amounts are denominated in
	Currency string `db:"currency" json:"currency"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument(ownerID id.ID, currency string) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
		OwnerID:      ownerID,
		Currency:     currency,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.OwnerID) {
		return apperror.NewValidation("owner is required").
			WithDetail("field", "ownerId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if d.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	if !d.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("status", string(d.Status))
	}

	return nil
}

// CheckOwner rejects access when the caller context names a different owning
// account. Cross-owner access reads as not found, so probing an ID discloses
// nothing. Contexts without an owner belong to internal callers.
func (d *Document) CheckOwner(ctx context.Context) error {
	raw := appctx.GetOwnerID(ctx)
	if raw == "" {
		return nil
	}
	callerID, err := id.Parse(raw)
	if err != nil || callerID != d.OwnerID {
		return apperror.NewNotFound("document", d.ID.String())
	}
	return nil
}

// CanModify checks if the document's financial content can still change.
// Once transmitted (non-draft), totals and number are frozen.
func (d *Document) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentNotDraft,
			"Cannot modify a document that left draft state.",
		).WithDetail("document_id", d.ID.String()).
			WithDetail("status", string(d.Status))
	}
	return nil
}

// TransitionTo moves the document to the next status, enforcing the table.
func (d *Document) TransitionTo(next Status) error {
	if !d.Status.CanTransitionTo(next) {
		return apperror.NewBusinessRule(
			apperror.CodeInvalidTransition,
			"Status transition not allowed.",
		).WithDetail("from", string(d.Status)).
			WithDetail("to", string(next))
	}
	d.Status = next
	d.Touch()
	return nil
}

// MarkSent transitions a draft to SENT.
func (d *Document) MarkSent() error {
	return d.TransitionTo(StatusSent)
}
