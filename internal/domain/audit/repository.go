package audit

import (
	"context"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// Repository defines audit log storage. Append-only by contract.
type Repository interface {
	// Append writes one entry. The entry must already carry its ID and
	// timestamp (see NewEntry).
	Append(ctx context.Context, entry *Entry) error

	// ListByDocument returns the entries for a document, oldest first.
	// Entries outlive the document row itself.
	ListByDocument(ctx context.Context, documentID id.ID) ([]Entry, error)
}
