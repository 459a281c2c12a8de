// Package quote provides the Quote document repository.
package quote

import (
	"context"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
)

// Repository defines operations for quote documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Quote) error
	GetByID(ctx context.Context, docID id.ID) (*Quote, error)
	GetByNumber(ctx context.Context, ownerID id.ID, number string) (*Quote, error)
	Update(ctx context.Context, doc *Quote) error

	// HardDelete removes the document row and its lines. Draft only; the
	// lifecycle service is the sole caller.
	HardDelete(ctx context.Context, docID id.ID) error

	// SetStatus updates only the status column (and version/updated_at)
	SetStatus(ctx context.Context, docID id.ID, status entity.Status) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Quote, error)
}

// ListFilter for filtering quotes.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	OwnerID      id.ID
	ClientID     *id.ID
	ExpiresAfter *time.Time
}
