// Package lifecycle governs how a financial document may be removed.
//
// A draft was never transmitted and can be physically deleted. Anything that
// left draft state may exist at a third party: it is cancelled instead of
// deleted, and every outcome appends to the audit log.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	appctx "github.com/AzizBrinis/invoice-app-sub003/internal/core/context"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/tx"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/pkg/logger"
)

// Outcome is the caller-visible result of a deletion request.
type Outcome string

const (
	OutcomeDeleted          Outcome = "deleted"
	OutcomeCancelled        Outcome = "cancelled"
	OutcomeAlreadyCancelled Outcome = "already-cancelled"
)

// DocumentState is the minimal view of a document the lifecycle needs.
type DocumentState struct {
	ID       id.ID
	Type     entity.DocumentType
	Status   entity.Status
	Snapshot json.RawMessage
}

// Store is the per-document-type storage seam. Implementations wrap the
// concrete invoice/quote repositories.
type Store interface {
	// GetForUpdate loads the document state under a row lock, so the status
	// read and the subsequent mutation act on the same view.
	GetForUpdate(ctx context.Context, docID id.ID) (DocumentState, error)

	// Remove physically deletes the document row and its lines.
	Remove(ctx context.Context, docID id.ID) error

	// SetStatus updates only the status column.
	SetStatus(ctx context.Context, docID id.ID, status entity.Status) error
}

// Service executes deletion requests against the status table.
type Service struct {
	store     Store
	auditRepo audit.Repository
	txManager tx.Manager
}

// NewService creates a lifecycle service.
func NewService(store Store, auditRepo audit.Repository, txManager tx.Manager) *Service {
	return &Service{
		store:     store,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// Delete handles a deletion request for the document.
//
// The status read, the storage mutation and the audit append run as one
// transaction: two concurrent requests serialize on the row lock and each
// audit entry reflects the true prior state at the moment of its transition.
func (s *Service) Delete(ctx context.Context, docID id.ID) (Outcome, error) {
	var outcome Outcome

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		state, err := s.store.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		action, err := state.Status.DeleteAction()
		if err != nil {
			return err
		}

		entry := audit.NewEntry(state.ID, state.Type, audit.ActionCancellation, state.Status, nil)
		entry.Snapshot = state.Snapshot
		entry.UserID = appctx.GetUserID(ctx)

		switch action {
		case entity.DeleteActionRemove:
			if err := s.store.Remove(ctx, docID); err != nil {
				return fmt.Errorf("remove document: %w", err)
			}
			entry.Action = audit.ActionDeletion
			entry.NewStatus = nil
			outcome = OutcomeDeleted

		case entity.DeleteActionCancel:
			if err := s.store.SetStatus(ctx, docID, entity.StatusCancelled); err != nil {
				return fmt.Errorf("cancel document: %w", err)
			}
			cancelled := entity.StatusCancelled
			entry.NewStatus = &cancelled
			outcome = OutcomeCancelled

		case entity.DeleteActionNoop:
			// No storage mutation, but the repeated request is still
			// recorded: the idempotent marker entry.
			cancelled := entity.StatusCancelled
			entry.NewStatus = &cancelled
			outcome = OutcomeAlreadyCancelled

		default:
			return apperror.NewInvalidConfig("unhandled delete action").
				WithDetail("status", string(state.Status))
		}

		if err := s.auditRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		return nil
	})

	if err != nil {
		return "", err
	}

	logger.Info(ctx, "document deletion handled", "id", docID, "outcome", string(outcome))
	return outcome, nil
}
