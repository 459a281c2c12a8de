// Package invoice provides the Invoice document repository.
package invoice

import (
	"context"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
)

// Repository defines operations for invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, ownerID id.ID, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error

	// HardDelete removes the document row and its lines. Draft only; the
	// lifecycle service is the sole caller.
	HardDelete(ctx context.Context, docID id.ID) error

	// SetStatus updates only the status column (and version/updated_at)
	SetStatus(ctx context.Context, docID id.ID, status entity.Status) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	OwnerID   id.ID
	ClientID  *id.ID
	DueBefore *time.Time
}
