// Package domain provides core business logic interfaces and types.
package domain

import (
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for document list operations.
type ListFilter struct {
	// Search matches against the document number
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// Status filters by a single lifecycle status
	Status *entity.Status

	// IncludeCancelled includes cancelled documents. Cancelled documents
	// disappear from default listings but stay retrievable explicitly.
	IncludeCancelled bool

	// Date range on the business date
	DateFrom *time.Time
	DateTo   *time.Time

	// OrderBy specifies sorting (e.g., "number", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
