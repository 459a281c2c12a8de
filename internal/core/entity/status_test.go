package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_DeleteAction(t *testing.T) {
	cases := []struct {
		status Status
		action DeleteAction
	}{
		{StatusDraft, DeleteActionRemove},
		{StatusSent, DeleteActionCancel},
		{StatusPartial, DeleteActionCancel},
		{StatusPaid, DeleteActionCancel},
		{StatusOverdue, DeleteActionCancel},
		{StatusCancelled, DeleteActionNoop},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			action, err := tc.status.DeleteAction()
			require.NoError(t, err)
			assert.Equal(t, tc.action, action)
		})
	}
}

func TestStatus_DeleteActionUnknown(t *testing.T) {
	_, err := Status("ARCHIVED").DeleteAction()
	assert.Error(t, err)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusSent))
	assert.True(t, StatusDraft.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusDraft.CanTransitionTo(StatusPaid))

	assert.True(t, StatusSent.CanTransitionTo(StatusPartial))
	assert.True(t, StatusSent.CanTransitionTo(StatusPaid))
	assert.True(t, StatusSent.CanTransitionTo(StatusOverdue))

	assert.True(t, StatusPartial.CanTransitionTo(StatusPaid))
	assert.True(t, StatusOverdue.CanTransitionTo(StatusPartial))

	// A document never goes back to draft.
	for _, s := range []Status{StatusSent, StatusPartial, StatusPaid, StatusOverdue, StatusCancelled} {
		assert.False(t, s.CanTransitionTo(StatusDraft), "%s -> DRAFT must be forbidden", s)
	}
}

func TestStatus_CancelledIsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())

	for _, s := range []Status{StatusDraft, StatusSent, StatusPartial, StatusPaid, StatusOverdue} {
		assert.False(t, s.IsTerminal())
		assert.True(t, s.CanTransitionTo(StatusCancelled), "%s must be cancellable", s)
	}
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.False(t, Status("ARCHIVED").Valid())
}
