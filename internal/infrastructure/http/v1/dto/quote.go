package dto

import (
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/quote"
)

// CreateQuoteRequest represents a request to create a quote.
type CreateQuoteRequest struct {
	ClientID   string     `json:"clientId" binding:"required"`
	Date       time.Time  `json:"date,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	Comment    string     `json:"comment,omitempty"`

	Lines []LineRequest `json:"lines" binding:"required,dive"`

	GlobalDiscountRate   string `json:"globalDiscountRatePercent,omitempty"`
	GlobalDiscountAmount *int64 `json:"globalDiscountAmountCents,omitempty"`

	Overrides *OverridesRequest `json:"overrides,omitempty"`

	NumberPrefix  string `json:"numberPrefix,omitempty"`
	ResetAnnually *bool  `json:"resetAnnually,omitempty"`
}

// ToInput converts the request to a service create input.
func (r *CreateQuoteRequest) ToInput(ownerID id.ID) (quote.CreateInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return quote.CreateInput{}, apperror.NewValidation("invalid client id").
			WithDetail("clientId", r.ClientID)
	}

	lines := make([]invoice.LineSpec, len(r.Lines))
	for i, lr := range r.Lines {
		spec, err := lr.ToSpec()
		if err != nil {
			return quote.CreateInput{}, err
		}
		lines[i] = spec
	}

	globalRate, err := ParseRate("globalDiscountRatePercent", r.GlobalDiscountRate)
	if err != nil {
		return quote.CreateInput{}, err
	}

	overrides, err := r.Overrides.ToOverrides()
	if err != nil {
		return quote.CreateInput{}, err
	}

	return quote.CreateInput{
		OwnerID:              ownerID,
		ClientID:             clientID,
		Date:                 r.Date,
		ValidUntil:           r.ValidUntil,
		Comment:              r.Comment,
		Lines:                lines,
		GlobalDiscountRate:   globalRate,
		GlobalDiscountAmount: Cents(r.GlobalDiscountAmount),
		Overrides:            overrides,
		PrefixOverride:       r.NumberPrefix,
		ResetAnnually:        r.ResetAnnually,
	}, nil
}

// UpdateQuoteRequest represents a request to update a draft quote.
type UpdateQuoteRequest struct {
	ClientID   string     `json:"clientId" binding:"required"`
	Date       time.Time  `json:"date,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	Comment    string     `json:"comment,omitempty"`

	Lines []LineRequest `json:"lines" binding:"required,dive"`

	GlobalDiscountRate   string `json:"globalDiscountRatePercent,omitempty"`
	GlobalDiscountAmount *int64 `json:"globalDiscountAmountCents,omitempty"`

	Overrides *OverridesRequest `json:"overrides,omitempty"`

	Version int `json:"version,omitempty"`
}

// ToInput converts the request to a service update input.
func (r *UpdateQuoteRequest) ToInput() (quote.UpdateInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return quote.UpdateInput{}, apperror.NewValidation("invalid client id").
			WithDetail("clientId", r.ClientID)
	}

	lines := make([]invoice.LineSpec, len(r.Lines))
	for i, lr := range r.Lines {
		spec, err := lr.ToSpec()
		if err != nil {
			return quote.UpdateInput{}, err
		}
		lines[i] = spec
	}

	globalRate, err := ParseRate("globalDiscountRatePercent", r.GlobalDiscountRate)
	if err != nil {
		return quote.UpdateInput{}, err
	}

	overrides, err := r.Overrides.ToOverrides()
	if err != nil {
		return quote.UpdateInput{}, err
	}

	return quote.UpdateInput{
		ClientID:             clientID,
		Date:                 r.Date,
		ValidUntil:           r.ValidUntil,
		Comment:              r.Comment,
		Lines:                lines,
		GlobalDiscountRate:   globalRate,
		GlobalDiscountAmount: Cents(r.GlobalDiscountAmount),
		Overrides:            overrides,
		Version:              r.Version,
	}, nil
}
