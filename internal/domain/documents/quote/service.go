// Package quote provides the Quote document service.
package quote

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
	invoicedoc "github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/lifecycle"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
	"github.com/AzizBrinis/invoice-app-sub003/pkg/logger"
)

// CreateInput is the full payload for creating a quote. Line specs are
// shared with the invoice service; the engine behind them is identical.
type CreateInput struct {
	OwnerID  id.ID
	ClientID id.ID

	Date       time.Time
	ValidUntil *time.Time
	Comment    string

	Lines []invoicedoc.LineSpec

	GlobalDiscountRate   *decimal.Decimal
	GlobalDiscountAmount *types.MinorUnits

	Overrides billing.Overrides

	PrefixOverride string
	ResetAnnually  *bool
}

// UpdateInput carries the mutable fields of a draft quote.
type UpdateInput struct {
	ClientID   id.ID
	Date       time.Time
	ValidUntil *time.Time
	Comment    string

	Lines []invoicedoc.LineSpec

	GlobalDiscountRate   *decimal.Decimal
	GlobalDiscountAmount *types.MinorUnits

	Overrides billing.Overrides

	Version int
}

// Service provides business operations for quotes.
type Service struct {
	repo         Repository
	settingsRepo settings.Repository
	numerator    numerator.Generator
	txManager    tx.Manager
	lifecycle    *lifecycle.Service
	invoices     *invoicedoc.Service
}

// NewService creates a new quote service. The invoice service is optional;
// without it ConvertToInvoice is unavailable.
func NewService(
	repo Repository,
	settingsRepo settings.Repository,
	numerator numerator.Generator,
	txManager tx.Manager,
	lifecycleSvc *lifecycle.Service,
	invoices *invoicedoc.Service,
) *Service {
	return &Service{
		repo:         repo,
		settingsRepo: settingsRepo,
		numerator:    numerator,
		txManager:    txManager,
		lifecycle:    lifecycleSvc,
		invoices:     invoices,
	}
}

// Create computes, numbers and persists a new quote in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Quote, error) {
	cfg, err := s.settingsRepo.GetByOwner(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	doc := NewQuote(in.OwnerID, in.ClientID, cfg.Currency)
	if !in.Date.IsZero() {
		doc.Date = in.Date
	}
	doc.ValidUntil = in.ValidUntil
	doc.Comment = in.Comment

	if err := s.compute(ctx, doc, cfg, in.Lines,
		in.GlobalDiscountRate, in.GlobalDiscountAmount, in.Overrides); err != nil {
		return nil, err
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	numCfg := cfg.NumberingConfig(entity.DocumentTypeQuote, in.PrefixOverride, in.ResetAnnually)

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

	logger.Info(ctx, "quote created",
		"id", doc.ID,
		"number", doc.Number,
		"total_gross", int64(doc.TotalGross))

	return doc, nil
}

// GetByID retrieves a quote with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Quote, error) {
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

// GetByNumber retrieves a quote by its visible number.
func (s *Service) GetByNumber(ctx context.Context, ownerID id.ID, number string) (*Quote, error) {
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
func (s *Service) Update(ctx context.Context, docID id.ID, in UpdateInput) (*Quote, error) {
	var doc *Quote

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
			return apperror.NewConcurrentModification("quote", doc.ID.String())
		}

		cfg, err := s.settingsRepo.GetByOwner(ctx, doc.OwnerID)
		if err != nil {
			return err
		}

		doc.ClientID = in.ClientID
		if !in.Date.IsZero() {
			doc.Date = in.Date
		}
		doc.ValidUntil = in.ValidUntil
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

// Send transitions a draft quote to SENT, freezing its content.
func (s *Service) Send(ctx context.Context, docID id.ID) (*Quote, error) {
	var doc *Quote

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CheckOwner(ctx); err != nil {
			return err
		}
		if err := doc.MarkSent(); err != nil {
			return err
		}
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ConvertToInvoice creates a draft invoice from a transmitted quote. The
// invoice is recomputed against the owner's current tax configuration, not
// copied cent-for-cent: a quote sent under last year's settings converts
// under this year's.
func (s *Service) ConvertToInvoice(ctx context.Context, docID id.ID) (*invoicedoc.Invoice, error) {
	if s.invoices == nil {
		return nil, apperror.NewInvalidConfig("invoice service not wired")
	}

	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.Status == entity.StatusDraft {
		return nil, apperror.NewBusinessRule(
			apperror.CodeInvalidTransition,
			"Only a transmitted quote can convert into an invoice.",
		).WithDetail("status", string(doc.Status))
	}
	if doc.Status.IsTerminal() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeInvalidTransition,
			"A cancelled quote cannot convert into an invoice.",
		).WithDetail("status", string(doc.Status))
	}

	in := invoicedoc.CreateInput{
		OwnerID:  doc.OwnerID,
		ClientID: doc.ClientID,
		Comment:  fmt.Sprintf("From quote %s", doc.Number),
		Lines:    make([]invoicedoc.LineSpec, len(doc.Lines)),
	}
	for i, line := range doc.Lines {
		rate := line.VATRate
		spec := invoicedoc.LineSpec{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     &rate,
		}
		if line.DiscountAmount.IsPositive() {
			amount := line.DiscountAmount
			spec.DiscountAmount = &amount
		}
		if line.SurchargeRate != nil {
			spec.ApplySurcharge = true
		}
		in.Lines[i] = spec
	}
	if doc.GlobalDiscountApplied.IsPositive() {
		amount := doc.GlobalDiscountApplied
		in.GlobalDiscountAmount = &amount
	}

	inv, err := s.invoices.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote converted",
		"quote_id", doc.ID,
		"quote_number", doc.Number,
		"invoice_id", inv.ID,
		"invoice_number", inv.Number)

	return inv, nil
}

// Delete routes the deletion request through the lifecycle service.
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

// List retrieves quotes with filtering. Cancelled documents are excluded
// unless the filter asks for them.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) compute(
	ctx context.Context,
	doc *Quote,
	cfg *settings.BillingSettings,
	specs []invoicedoc.LineSpec,
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
