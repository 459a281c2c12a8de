// Package invoice provides the Invoice document service.
package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/numerator"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/tx"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/billing"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/lifecycle"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
	"github.com/AzizBrinis/invoice-app-sub003/pkg/logger"
)

// LineSpec is one line item as submitted by the caller.
type LineSpec struct {
	Description string

	Quantity  decimal.Decimal
	UnitPrice types.MinorUnits

	// VATRate in percent; nil falls back to the owner's default rate
	VATRate *decimal.Decimal

	// Line discount; an explicit amount wins over a rate
	DiscountRate   *decimal.Decimal
	DiscountAmount *types.MinorUnits

	// ApplySurcharge opts this line into the surcharge when the owner
	// configuration runs it in line scope
	ApplySurcharge bool
}

// CreateInput is the full payload for creating an invoice.
type CreateInput struct {
	OwnerID  id.ID
	ClientID id.ID

	Date    time.Time
	DueDate *time.Time
	Comment string

	Lines []LineSpec

	// Global discount; an explicit amount wins over a rate
	GlobalDiscountRate   *decimal.Decimal
	GlobalDiscountAmount *types.MinorUnits

	// Per-document tax overrides
	Overrides billing.Overrides

	// Numbering overrides (rarely used; stored settings otherwise)
	PrefixOverride string
	ResetAnnually  *bool
}

// UpdateInput carries the mutable fields of a draft invoice. The whole
// financial content is resubmitted and recomputed; there is no partial line
// patching.
type UpdateInput struct {
	ClientID id.ID
	Date     time.Time
	DueDate  *time.Time
	Comment  string

	Lines []LineSpec

	GlobalDiscountRate   *decimal.Decimal
	GlobalDiscountAmount *types.MinorUnits

	Overrides billing.Overrides

	// Version the caller read; mismatch fails as concurrent modification
	Version int
}

// Service provides business operations for invoices.
type Service struct {
	repo         Repository
	settingsRepo settings.Repository
	numerator    numerator.Generator
	txManager    tx.Manager
	lifecycle    *lifecycle.Service
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	settingsRepo settings.Repository,
	numerator numerator.Generator,
	txManager tx.Manager,
	auditSvc *lifecycle.Service,
) *Service {
	return &Service{
		repo:         repo,
		settingsRepo: settingsRepo,
		numerator:    numerator,
		txManager:    txManager,
		lifecycle:    auditSvc,
	}
}

// Create computes, numbers and persists a new invoice in one transaction.
// The number allocation rides the same transaction as the insert, so an
// aborted create never burns a visible number out of order with a committed
// one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	cfg, err := s.settingsRepo.GetByOwner(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	doc := NewInvoice(in.OwnerID, in.ClientID, cfg.Currency)
	if !in.Date.IsZero() {
		doc.Date = in.Date
	}
	doc.DueDate = in.DueDate
	doc.Comment = in.Comment

	if err := s.compute(ctx, doc, cfg, in.Lines,
		in.GlobalDiscountRate, in.GlobalDiscountAmount, in.Overrides); err != nil {
		return nil, err
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	numCfg := cfg.NumberingConfig(entity.DocumentTypeInvoice, in.PrefixOverride, in.ResetAnnually)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numCfg, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice created",
		"id", doc.ID,
		"number", doc.Number,
		"total_gross", int64(doc.TotalGross))

	return doc, nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := doc.CheckOwner(ctx); err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves an invoice by its visible number.
func (s *Service) GetByNumber(ctx context.Context, ownerID id.ID, number string) (*Invoice, error) {
	doc, err := s.repo.GetByNumber(ctx, ownerID, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update replaces the financial content of a draft and recomputes totals.
// Non-draft documents refuse modification; their totals are frozen.
func (s *Service) Update(ctx context.Context, docID id.ID, in UpdateInput) (*Invoice, error) {
	var doc *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CheckOwner(ctx); err != nil {
			return err
		}

		if err := doc.CanModify(); err != nil {
			return err
		}
		if in.Version != 0 && in.Version != doc.Version {
			return apperror.NewConcurrentModification("invoice", doc.ID.String())
		}

		cfg, err := s.settingsRepo.GetByOwner(ctx, doc.OwnerID)
		if err != nil {
			return err
		}

		doc.ClientID = in.ClientID
		if !in.Date.IsZero() {
			doc.Date = in.Date
		}
		doc.DueDate = in.DueDate
		doc.Comment = in.Comment

		if err := s.compute(ctx, doc, cfg, in.Lines,
			in.GlobalDiscountRate, in.GlobalDiscountAmount, in.Overrides); err != nil {
			return err
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Send transitions a draft invoice to SENT, freezing its content.
func (s *Service) Send(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.transition(ctx, docID, func(doc *Invoice) error {
		return doc.MarkSent()
	})
}

// RegisterPayment records a received amount and derives PARTIAL/PAID.
func (s *Service) RegisterPayment(ctx context.Context, docID id.ID, amount types.MinorUnits) (*Invoice, error) {
	doc, err := s.transition(ctx, docID, func(doc *Invoice) error {
		return doc.RegisterPayment(amount)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment registered",
		"id", doc.ID,
		"number", doc.Number,
		"amount", int64(amount),
		"status", string(doc.Status))

	return doc, nil
}

// MarkOverdue flags a transmitted, unpaid invoice past its due date.
func (s *Service) MarkOverdue(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.transition(ctx, docID, func(doc *Invoice) error {
		return doc.TransitionTo(entity.StatusOverdue)
	})
}

// Delete routes the deletion request through the lifecycle service: drafts
// are removed, transmitted documents are cancelled, and every outcome is
// audited.
func (s *Service) Delete(ctx context.Context, docID id.ID) (lifecycle.Outcome, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	if err := doc.CheckOwner(ctx); err != nil {
		return "", err
	}
	return s.lifecycle.Delete(ctx, docID)
}

// List retrieves invoices with filtering. Cancelled documents are excluded
// unless the filter asks for them.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// transition applies a status mutation under a row lock.
func (s *Service) transition(ctx context.Context, docID id.ID, mutate func(*Invoice) error) (*Invoice, error) {
	var doc *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CheckOwner(ctx); err != nil {
			return err
		}
		if err := mutate(doc); err != nil {
			return err
		}
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// compute runs the calculation engine over the submitted lines and writes
// the result onto the document.
func (s *Service) compute(
	ctx context.Context,
	doc *Invoice,
	cfg *settings.BillingSettings,
	specs []LineSpec,
	globalRate *decimal.Decimal,
	globalAmount *types.MinorUnits,
	ov billing.Overrides,
) error {
	taxCfg, err := cfg.TaxConfiguration()
	if err != nil {
		return err
	}

	results := make([]billing.LineResult, len(specs))
	descriptions := make([]string, len(specs))

	for i, spec := range specs {
		vatRate := cfg.DefaultVATRate
		if spec.VATRate != nil {
			vatRate = *spec.VATRate
		}

		opts := billing.LineOptions{
			Order:    taxCfg.SurchargeOrder,
			Rounding: taxCfg.LineRounding,
		}
		if taxCfg.SurchargeEnabled && taxCfg.SurchargeScope == billing.SurchargeScopeLine {
			// Opted-out lines carry an explicit zero rate; the engine
			// treats nil as "use the configured rate".
			rate := decimal.Zero
			if spec.ApplySurcharge {
				rate = taxCfg.SurchargeRate
			}
			opts.SurchargeRate = &rate
		}

		in := billing.LineInput{
			Quantity:  spec.Quantity,
			UnitPrice: spec.UnitPrice,
			VATRate:   vatRate,
			Discount:  billing.ResolveDiscount(spec.DiscountRate, spec.DiscountAmount),
		}

		result, err := billing.ComputeLine(in, opts)
		if err != nil {
			return err
		}
		results[i] = result
		descriptions[i] = spec.Description
	}

	globalDiscount := billing.ResolveDiscount(globalRate, globalAmount)

	totals, err := billing.AggregateDocument(results, globalDiscount, taxCfg, ov)
	if err != nil {
		return err
	}

	doc.ApplyTotals(totals, descriptions)
	return nil
}
