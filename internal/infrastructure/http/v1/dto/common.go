// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Common Filters ---

// ListQuery contains common document list parameters.
type ListQuery struct {
	Search           string     `form:"search"`
	Status           string     `form:"status"`
	IncludeCancelled bool       `form:"includeCancelled"`
	DateFrom         *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo           *time.Time `form:"dateTo" time_format:"2006-01-02"`
	OrderBy          string     `form:"orderBy"`
	Limit            int        `form:"limit"`
	Offset           int        `form:"offset"`
}

// ToFilter converts query parameters to a domain filter.
func (q *ListQuery) ToFilter() (domain.ListFilter, error) {
	filter := domain.DefaultListFilter()
	filter.Search = q.Search
	filter.IncludeCancelled = q.IncludeCancelled
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo

	if q.Status != "" {
		status := entity.Status(q.Status)
		if !status.Valid() {
			return filter, apperror.NewValidation("unknown status").
				WithDetail("status", q.Status)
		}
		filter.Status = &status
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	if q.Offset > 0 {
		filter.Offset = q.Offset
	}

	return filter, nil
}

// --- Responses ---

// IDResponse contains created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse for simple success confirmations.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse reports the lifecycle outcome of a deletion request.
type DeleteResponse struct {
	Outcome string `json:"outcome"`
}

// --- Helpers ---

// ParseRate parses a percent rate string ("19", "0.6") into a decimal.
// Rates travel as strings end to end so no float ever touches them.
func ParseRate(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid rate").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return &d, nil
}

// Cents converts an optional API cent amount to the money type.
func Cents(v *int64) *types.MinorUnits {
	if v == nil {
		return nil
	}
	m := types.MinorUnits(*v)
	return &m
}
