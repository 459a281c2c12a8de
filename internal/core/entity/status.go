package entity

import (
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
)

// Status is the document lifecycle state.
//
// Lifecycle: DRAFT -> {SENT, CANCELLED}, SENT -> {PARTIAL, PAID, OVERDUE, CANCELLED},
// any non-draft state -> CANCELLED. CANCELLED is terminal; re-cancelling is a
// no-op that still records an audit entry.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// DeleteAction is the outcome of a deletion request for a given status.
type DeleteAction int

const (
	// DeleteActionRemove physically deletes the document row. Draft only:
	// a draft was never transmitted to a third party.
	DeleteActionRemove DeleteAction = iota

	// DeleteActionCancel transitions the document to CANCELLED instead of
	// deleting it, preserving legal traceability.
	DeleteActionCancel

	// DeleteActionNoop leaves the document untouched (already cancelled).
	// An audit entry is still written.
	DeleteActionNoop
)

// deleteActions maps each status to the deletion behavior. A table, not
// cascading conditionals: a new status added here without a decision does not
// silently become deletable.
var deleteActions = map[Status]DeleteAction{
	StatusDraft:     DeleteActionRemove,
	StatusSent:      DeleteActionCancel,
	StatusPartial:   DeleteActionCancel,
	StatusPaid:      DeleteActionCancel,
	StatusOverdue:   DeleteActionCancel,
	StatusCancelled: DeleteActionNoop,
}

// transitions lists the allowed forward moves for each status.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSent, StatusCancelled},
	StatusSent:      {StatusPartial, StatusPaid, StatusOverdue, StatusCancelled},
	StatusPartial:   {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue:   {StatusPartial, StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCancelled},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := deleteActions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

// DeleteAction returns the deletion behavior for this status.
// An unknown status is a programmer/config error.
func (s Status) DeleteAction() (DeleteAction, error) {
	action, ok := deleteActions[s]
	if !ok {
		return 0, apperror.NewInvalidConfig("unknown document status").
			WithDetail("status", string(s))
	}
	return action, nil
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
