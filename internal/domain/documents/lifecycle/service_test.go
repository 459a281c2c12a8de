package lifecycle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
)

// passthroughTxManager runs the callback without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	docs    map[id.ID]*DocumentState
	removed []id.ID
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[id.ID]*DocumentState)}
}

func (s *fakeStore) add(status entity.Status) id.ID {
	docID := id.New()
	s.docs[docID] = &DocumentState{
		ID:       docID,
		Type:     entity.DocumentTypeInvoice,
		Status:   status,
		Snapshot: json.RawMessage(`{"number":"FAC-2026-0001"}`),
	}
	return docID
}

func (s *fakeStore) GetForUpdate(ctx context.Context, docID id.ID) (DocumentState, error) {
	doc, ok := s.docs[docID]
	if !ok {
		return DocumentState{}, apperror.NewNotFound("document", docID.String())
	}
	return *doc, nil
}

func (s *fakeStore) Remove(ctx context.Context, docID id.ID) error {
	delete(s.docs, docID)
	s.removed = append(s.removed, docID)
	return nil
}

func (s *fakeStore) SetStatus(ctx context.Context, docID id.ID, status entity.Status) error {
	s.docs[docID].Status = status
	return nil
}

type recordingAuditRepo struct {
	entries []*audit.Entry
}

func (r *recordingAuditRepo) Append(ctx context.Context, entry *audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range r.entries {
		if e.DocumentID == documentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeStore, *recordingAuditRepo) {
	store := newFakeStore()
	auditRepo := &recordingAuditRepo{}
	return NewService(store, auditRepo, passthroughTxManager{}), store, auditRepo
}

func TestDelete_DraftIsRemoved(t *testing.T) {
	svc, store, auditRepo := newTestService()
	docID := store.add(entity.StatusDraft)

	outcome, err := svc.Delete(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, outcome)

	assert.NotContains(t, store.docs, docID)
	assert.Equal(t, []id.ID{docID}, store.removed)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionDeletion, entry.Action)
	assert.Equal(t, entity.StatusDraft, entry.PreviousStatus)
	assert.Nil(t, entry.NewStatus)
	assert.JSONEq(t, `{"number":"FAC-2026-0001"}`, string(entry.Snapshot))
}

func TestDelete_SentIsCancelled(t *testing.T) {
	svc, store, auditRepo := newTestService()
	docID := store.add(entity.StatusSent)

	outcome, err := svc.Delete(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)

	// The row survives, cancelled.
	require.Contains(t, store.docs, docID)
	assert.Equal(t, entity.StatusCancelled, store.docs[docID].Status)
	assert.Empty(t, store.removed)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionCancellation, entry.Action)
	assert.Equal(t, entity.StatusSent, entry.PreviousStatus)
	require.NotNil(t, entry.NewStatus)
	assert.Equal(t, entity.StatusCancelled, *entry.NewStatus)
}

func TestDelete_RepeatedOnCancelledIsIdempotent(t *testing.T) {
	svc, store, auditRepo := newTestService()
	docID := store.add(entity.StatusSent)

	outcome, err := svc.Delete(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)

	outcome, err = svc.Delete(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCancelled, outcome)

	// Still present, still cancelled, and each request left its own entry.
	assert.Equal(t, entity.StatusCancelled, store.docs[docID].Status)
	require.Len(t, auditRepo.entries, 2)

	second := auditRepo.entries[1]
	assert.Equal(t, entity.StatusCancelled, second.PreviousStatus)
	require.NotNil(t, second.NewStatus)
	assert.Equal(t, entity.StatusCancelled, *second.NewStatus)
	assert.NotEqual(t, auditRepo.entries[0].ID, second.ID)
}

func TestDelete_PaidAndOverdueAreCancelledNotRemoved(t *testing.T) {
	for _, status := range []entity.Status{entity.StatusPartial, entity.StatusPaid, entity.StatusOverdue} {
		t.Run(string(status), func(t *testing.T) {
			svc, store, _ := newTestService()
			docID := store.add(status)

			outcome, err := svc.Delete(context.Background(), docID)
			require.NoError(t, err)
			assert.Equal(t, OutcomeCancelled, outcome)
			assert.Contains(t, store.docs, docID)
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, auditRepo := newTestService()

	_, err := svc.Delete(context.Background(), id.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Empty(t, auditRepo.entries)
}
