package quote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/lifecycle"
)

// lifecycleStore adapts Repository to the lifecycle deletion seam.
type lifecycleStore struct {
	repo Repository
}

// NewLifecycleStore exposes the quote repository as a lifecycle.Store.
func NewLifecycleStore(repo Repository) lifecycle.Store {
	return &lifecycleStore{repo: repo}
}

func (s *lifecycleStore) GetForUpdate(ctx context.Context, docID id.ID) (lifecycle.DocumentState, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		return lifecycle.DocumentState{}, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return lifecycle.DocumentState{}, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	snapshot, err := json.Marshal(doc)
	if err != nil {
		return lifecycle.DocumentState{}, fmt.Errorf("snapshot document: %w", err)
	}

	return lifecycle.DocumentState{
		ID:       doc.ID,
		Type:     entity.DocumentTypeQuote,
		Status:   doc.Status,
		Snapshot: snapshot,
	}, nil
}

func (s *lifecycleStore) Remove(ctx context.Context, docID id.ID) error {
	return s.repo.HardDelete(ctx, docID)
}

func (s *lifecycleStore) SetStatus(ctx context.Context, docID id.ID, status entity.Status) error {
	return s.repo.SetStatus(ctx, docID, status)
}
