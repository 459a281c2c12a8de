package settings

import (
	"context"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// Repository defines billing settings storage, keyed by owner.
type Repository interface {
	// GetByOwner returns the owner's settings, or defaults when none are
	// stored yet.
	GetByOwner(ctx context.Context, ownerID id.ID) (*BillingSettings, error)

	// Save upserts the owner's settings.
	Save(ctx context.Context, s *BillingSettings) error
}
