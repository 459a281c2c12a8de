// Package audit provides the append-only document audit trail.
//
// One entry is written per lifecycle transition, including repeated
// cancellations. The log is the only durable record of when a document left
// the system or was voided.
package audit

import (
	"encoding/json"
	"time"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

// Action is the kind of lifecycle event recorded.
type Action string

const (
	// ActionDeletion: a draft document row was physically removed.
	ActionDeletion Action = "DELETION"

	// ActionCancellation: a transmitted document was voided (or a
	// cancellation was re-requested on an already-cancelled document).
	ActionCancellation Action = "CANCELLATION"
)

// Entry is one immutable audit record. Entries are append-only; there is no
// update or delete path.
type Entry struct {
	ID           id.ID               `db:"id" json:"id"`
	DocumentID   id.ID               `db:"document_id" json:"documentId"`
	DocumentType entity.DocumentType `db:"document_type" json:"documentType"`
	Action       Action              `db:"action" json:"action"`

	PreviousStatus entity.Status `db:"previous_status" json:"previousStatus"`

	// NewStatus is nil for DELETION (the row no longer exists).
	NewStatus *entity.Status `db:"new_status" json:"newStatus,omitempty"`

	// Snapshot preserves the document state at transition time. Large
	// snapshots are compressed at rest by the storage layer.
	Snapshot json.RawMessage `db:"snapshot" json:"snapshot,omitempty"`

	UserID    string    `db:"user_id" json:"userId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an audit entry with generated ID and timestamp.
func NewEntry(docID id.ID, docType entity.DocumentType, action Action, prev entity.Status, next *entity.Status) *Entry {
	return &Entry{
		ID:             id.New(),
		DocumentID:     docID,
		DocumentType:   docType,
		Action:         action,
		PreviousStatus: prev,
		NewStatus:      next,
		CreatedAt:      time.Now().UTC(),
	}
}
